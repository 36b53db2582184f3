package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/config"
	"github.com/genesis-agents/genesis/internal/engine"
	"github.com/genesis-agents/genesis/internal/llm"
	"github.com/genesis-agents/genesis/internal/planner"
	"github.com/genesis-agents/genesis/internal/recovery"
	"github.com/genesis-agents/genesis/internal/report"
	"github.com/genesis-agents/genesis/internal/session"
	"github.com/genesis-agents/genesis/internal/signals"
	"github.com/genesis-agents/genesis/pkg/models"
)

// stopPollInterval is how often the cross-process stop file is checked.
const stopPollInterval = 500 * time.Millisecond

var (
	runName        string
	runType        string
	runFeatures    string
	runSpecFile    string
	runResume      string
	runWorkspace   string
	runMaxParallel int
	runHeadless    bool
	runSuggest     bool
	runNoGit       bool
)

var runCmd = &cobra.Command{
	Use:   "run [description]",
	Short: "Build a project with parallel agents",
	Long: `Build a project from a plain-language description.

The run has two phases. A single setup agent detects the project type,
registers the project with the tracker, and lays down the workspace.
Feature agents then implement the requested features in parallel,
bounded by --max-parallel.

The project comes from one of three sources:
  genesis run "a todo app with billing" --features auth,billing
  genesis run --spec genesis.yaml
  genesis run --resume <session-id|latest>

Feature selection:
  --features is a comma-separated list. With no features and --suggest,
  Claude proposes a starter set (falling back to a static per-type list
  when no API key is configured). With no features at all, only project
  setup runs.

Stopping and resuming:
  Press s in the run board, hit Ctrl+C, or run 'genesis stop' from
  another terminal. In-flight tasks finish, queued tasks are skipped,
  and the session records what completed so --resume can pick up the
  remaining features later.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProject,
}

func init() {
	runCmd.Flags().StringVar(&runName, "name", "", "Project display name")
	runCmd.Flags().StringVar(&runType, "type", "", "Project type: landing_page or saas_app (default: detect)")
	runCmd.Flags().StringVar(&runFeatures, "features", "", "Comma-separated feature list")
	runCmd.Flags().StringVar(&runSpecFile, "spec", "", "Read the project spec from a YAML file")
	runCmd.Flags().StringVar(&runResume, "resume", "", "Resume a stopped session by id, or 'latest'")
	runCmd.Flags().StringVar(&runWorkspace, "workspace", "", "Workspace root (default: workspace.root from config)")
	runCmd.Flags().IntVar(&runMaxParallel, "max-parallel", 0, "Max concurrent feature agents (default from config)")
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "Print events to stdout instead of the run board")
	runCmd.Flags().BoolVar(&runSuggest, "suggest", false, "Suggest features when none are given")
	runCmd.Flags().BoolVar(&runNoGit, "no-git", false, "Skip git init in the generated project")
}

func runProject(cmd *cobra.Command, args []string) (retErr error) {
	// Recover from panics and report them
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runProject: %v", r)
		}
	}()

	verbose := os.Getenv("GENESIS_DEBUG") != ""
	debugf := func(format string, args ...interface{}) {}
	if verbose {
		debugf = log.Printf
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if runNoGit {
		cfg.Defaults.GitInit = false
	}

	root, err := resolveWorkspaceRoot(runWorkspace, cfg)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("[DEBUG] Workspace root: %s\n", root)
	}

	// Cross-process stop channel. Clear any stale stop signal first so a
	// previous run's stop cannot kill this one at admission.
	manager, err := signals.NewManager(root)
	if err != nil {
		return fmt.Errorf("init signals: %w", err)
	}
	defer manager.Close()
	manager.Clear()

	store, err := session.NewStore(sessionDBPath(root))
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}
	defer store.Close()

	spec, sess, err := resolveSpec(cmd, args, cfg, store)
	if err != nil {
		return err
	}
	if sess != nil {
		fmt.Printf("Resuming session %s: %d features remaining\n", shortID(sess.ID), len(spec.Features))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	if len(spec.Features) == 0 && runSuggest {
		spec.Features = suggestFeatures(ctx, cfg, spec.Description, spec.Type, llm.DefaultSuggestionLimit, debugf)
		fmt.Printf("Suggested features: %s\n", strings.Join(spec.Features, ", "))
	}
	if len(spec.Features) == 0 {
		fmt.Printf("%s No features requested; only project setup will run\n", color.YellowString("⚠"))
	}

	plan, err := planner.Build(&spec)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Printf("[DEBUG] Plan: %d phases, %d tasks\n", len(plan.Phases), plan.TaskCount())
	}

	trackerClient := newTrackerClient(cfg, debugf)
	recov := recovery.NewSystem(recovery.WithDebugLog(debugf))

	// Preflight the tracker with a short bounded retry so a hiccup at
	// startup does not push the whole run offline.
	healthRetry := recovery.RetryConfig{MaxRetries: 2, BaseDelay: 500 * time.Millisecond}
	if err := recov.Retry(ctx, healthRetry, trackerClient.Health); err != nil {
		if !cfg.Defaults.OfflineFallback {
			return fmt.Errorf("tracker unreachable: %w", err)
		}
		fmt.Printf("%s Tracker unreachable, continuing offline: %v\n", color.YellowString("⚠"), err)
	}

	if sess == nil {
		// The engine mints the run id when the run starts, so the session
		// is created first and linked to the run afterwards.
		sess, err = store.CreateSession("", spec)
		if err != nil {
			return fmt.Errorf("create session: %w", err)
		}
	}
	if err := manager.MarkRunActive(sess.ID); err != nil && verbose {
		fmt.Printf("[DEBUG] active-run marker not written: %v\n", err)
	}
	defer manager.ClearRun()

	factory := buildWorkerFactory(cfg, root, trackerClient, debugf)
	eng := engine.New(factory, engine.WithDebugLog(debugf))

	// Poll the stop file so 'genesis stop' from another terminal takes
	// effect between task admissions.
	stopPoll := make(chan struct{})
	defer close(stopPoll)
	go func() {
		ticker := time.NewTicker(stopPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopPoll:
				return
			case <-ticker.C:
				if manager.ShouldStop() {
					eng.EmergencyStop()
					return
				}
			}
		}
	}()

	var result *models.ExecutionResult
	if runHeadless {
		go consumeEventsHeadless(eng.Events())

		fmt.Printf("Starting run: %s\n", spec.Description)
		fmt.Printf("  Type: %s\n", typeLabel(spec.Type))
		fmt.Printf("  Features: %d\n", len(spec.Features))
		fmt.Printf("  Max parallel: %d\n", spec.EffectiveMaxParallel())
		fmt.Println()

		result, err = eng.Run(ctx, plan)
	} else {
		if verbose {
			fmt.Println("[DEBUG] Starting run board, switching to alt-screen...")
		}
		result, err = runWithBoard(ctx, cancel, eng, plan, &spec, cfg.TUI.RefreshRate)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	agents := eng.Registry().Snapshot()
	rep := report.Validate(result, agents)
	met := report.Estimate(result, &spec, eng.Registry().Count())
	interrupted := ctx.Err() != nil

	sess.RunID = result.RunID
	if result.ProjectID != "" {
		sess.ProjectID = result.ProjectID
	}
	sess.Completed = append(sess.Completed, result.Features...)
	sess.Status = sessionStatusFor(result, rep.Passed(), interrupted)
	if uerr := store.UpdateSession(sess); uerr != nil {
		fmt.Printf("Warning: session not updated: %v\n", uerr)
	}

	if herr := saveRunHistory(root, spec, result, rep, met, agents); herr != nil {
		fmt.Printf("Warning: run history not saved: %v\n", herr)
	}

	printRunSummary(result, rep, met)
	printFailureTriage(recov, result)
	if result.Stopped || interrupted {
		fmt.Printf("\nResume the remaining features with:\n  genesis run --resume %s\n", sess.ID)
		return nil
	}
	if !rep.Passed() {
		return fmt.Errorf("run %s failed validation", result.RunID)
	}
	return nil
}
