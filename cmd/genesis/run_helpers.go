package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/genesis-agents/genesis/internal/config"
	"github.com/genesis-agents/genesis/internal/engine"
	"github.com/genesis-agents/genesis/internal/history"
	"github.com/genesis-agents/genesis/internal/pattern"
	"github.com/genesis-agents/genesis/internal/recovery"
	"github.com/genesis-agents/genesis/internal/scaffold"
	"github.com/genesis-agents/genesis/internal/session"
	"github.com/genesis-agents/genesis/internal/signals"
	"github.com/genesis-agents/genesis/internal/tracker"
	"github.com/genesis-agents/genesis/internal/worker"
	"github.com/genesis-agents/genesis/pkg/models"
)

// specFile is the on-disk YAML shape read by --spec and written by init.
type specFile struct {
	Name        string   `yaml:"name,omitempty"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type,omitempty"`
	Features    []string `yaml:"features,omitempty"`
	MaxParallel int      `yaml:"max_parallel,omitempty"`
}

// splitFeatures parses a comma-separated feature list, dropping empties.
func splitFeatures(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var features []string
	for _, part := range strings.Split(raw, ",") {
		if f := strings.TrimSpace(part); f != "" {
			features = append(features, f)
		}
	}
	return features
}

// specFromInputs assembles and validates a ProjectSpec from raw CLI inputs.
// An empty typeStr leaves the type for the setup agent to detect.
func specFromInputs(description, name, typeStr string, features []string, maxParallel int) (models.ProjectSpec, error) {
	if strings.TrimSpace(description) == "" {
		return models.ProjectSpec{}, fmt.Errorf("project description is required")
	}
	spec := models.ProjectSpec{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Features:    features,
		MaxParallel: maxParallel,
	}
	if typeStr != "" {
		t := models.ProjectType(typeStr)
		if !t.Valid() || t == models.ProjectTypeUnknown {
			return models.ProjectSpec{}, fmt.Errorf("invalid project type %q: must be %s or %s",
				typeStr, models.ProjectTypeLandingPage, models.ProjectTypeSaaSApp)
		}
		spec.Type = t
	}
	return spec, nil
}

// resolveSpec produces the run's spec from, in priority order: a resumable
// session, a spec file, or the description argument plus flags. The returned
// session is non-nil only on the resume path.
func resolveSpec(cmd *cobra.Command, args []string, cfg *config.Config, store *session.Store) (models.ProjectSpec, *session.Session, error) {
	maxParallel := cfg.Defaults.MaxParallel
	if cmd.Flags().Changed("max-parallel") {
		maxParallel = runMaxParallel
	}

	if runResume != "" {
		sess, err := findResumable(store, runResume)
		if err != nil {
			return models.ProjectSpec{}, nil, err
		}
		spec, err := sess.Spec()
		if err != nil {
			return models.ProjectSpec{}, nil, fmt.Errorf("decode session spec: %w", err)
		}
		remaining, err := sess.Remaining()
		if err != nil {
			return models.ProjectSpec{}, nil, err
		}
		if len(remaining) == 0 {
			return models.ProjectSpec{}, nil, fmt.Errorf("session %s has no remaining features to resume", sess.ID)
		}
		spec.Features = remaining
		if cmd.Flags().Changed("max-parallel") {
			spec.MaxParallel = runMaxParallel
		}
		return spec, sess, nil
	}

	if runSpecFile != "" {
		spec, err := loadSpecFile(runSpecFile)
		if err != nil {
			return models.ProjectSpec{}, nil, err
		}
		if cmd.Flags().Changed("max-parallel") {
			spec.MaxParallel = runMaxParallel
		} else if spec.MaxParallel == 0 {
			spec.MaxParallel = maxParallel
		}
		return spec, nil, nil
	}

	if len(args) == 0 {
		return models.ProjectSpec{}, nil, fmt.Errorf("provide a project description, --spec <file>, or --resume <session>")
	}
	spec, err := specFromInputs(args[0], runName, runType, splitFeatures(runFeatures), maxParallel)
	if err != nil {
		return models.ProjectSpec{}, nil, err
	}
	return spec, nil, nil
}

// findResumable looks up a session by id, or the most recent stopped one
// when ref is "latest".
func findResumable(store *session.Store, ref string) (*session.Session, error) {
	if ref == "latest" {
		sess, err := store.LatestResumable()
		if err != nil {
			return nil, err
		}
		if sess == nil {
			return nil, fmt.Errorf("no resumable session found; see 'genesis sessions'")
		}
		return sess, nil
	}
	return store.GetSession(ref)
}

// resolveWorkspaceRoot picks the workspace root from the flag override,
// then config, then the current directory.
func resolveWorkspaceRoot(override string, cfg *config.Config) (string, error) {
	root := override
	if root == "" {
		root = cfg.Workspace.Root
	}
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve workspace root: %w", err)
	}
	return abs, nil
}

// sessionDBPath returns the session store location inside the workspace's
// .genesis directory.
func sessionDBPath(root string) string {
	return filepath.Join(root, signals.GenesisDir, "sessions.db")
}

// sessionStatusFor maps a run outcome onto a session status. A stop or an
// interrupt wins over pass/fail so the session stays resumable.
func sessionStatusFor(result *models.ExecutionResult, passed, interrupted bool) string {
	switch {
	case result.Stopped || interrupted:
		return session.StatusStopped
	case passed:
		return session.StatusCompleted
	default:
		return session.StatusFailed
	}
}

// typeLabel renders a project type for display, naming the empty type
// explicitly.
func typeLabel(t models.ProjectType) string {
	if t == "" {
		return "auto-detect"
	}
	return string(t)
}

// projectLabel picks a display name for the run board.
func projectLabel(spec *models.ProjectSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	d := spec.Description
	if len(d) > 40 {
		d = d[:37] + "..."
	}
	return d
}

// shortID truncates long identifiers for single-line display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// loadSpecFile reads and validates a YAML project spec.
func loadSpecFile(path string) (models.ProjectSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ProjectSpec{}, fmt.Errorf("read spec file: %w", err)
	}
	var f specFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return models.ProjectSpec{}, fmt.Errorf("parse spec file %s: %w", path, err)
	}
	return specFromInputs(f.Description, f.Name, f.Type, f.Features, f.MaxParallel)
}

// writeSpecFile writes a project spec as YAML.
func writeSpecFile(path string, spec models.ProjectSpec) error {
	f := specFile{
		Name:        spec.Name,
		Description: spec.Description,
		Type:        string(spec.Type),
		Features:    spec.Features,
		MaxParallel: spec.MaxParallel,
	}
	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// newTrackerClient builds the tracker REST client from config.
func newTrackerClient(cfg *config.Config, debugf func(string, ...interface{})) *tracker.Client {
	return tracker.NewClient(
		tracker.WithBaseURL(cfg.Tracker.BaseURL),
		tracker.WithHTTPClient(&http.Client{Timeout: cfg.Tracker.Timeout}),
		tracker.WithDebugLog(debugf),
	)
}

// buildWorkerFactory wires the tracker client, workspace scaffolder, and
// pattern matcher into setup and feature worker constructors.
func buildWorkerFactory(cfg *config.Config, root string, trackerClient *tracker.Client, debugf func(string, ...interface{})) *worker.Factory {
	workspace := scaffold.New(
		scaffold.WithRoot(root),
		scaffold.WithDebugLog(debugf),
	)

	library := pattern.NewLibrary()
	if cfg.Workspace.PatternsFile != "" {
		if err := library.LoadFile(cfg.Workspace.PatternsFile); err != nil {
			fmt.Printf("Warning: custom patterns not loaded: %v\n", err)
		}
	}
	matcher := pattern.NewMatcher(library)

	factory := worker.NewFactory()
	factory.Register(models.WorkerKindSetup, func() worker.Worker {
		return worker.NewSetupWorker(
			worker.WithSetupTracker(trackerClient),
			worker.WithSetupWorkspace(workspace),
			worker.WithGitInit(cfg.Defaults.GitInit),
			worker.WithOfflineFallback(cfg.Defaults.OfflineFallback),
			worker.WithSetupDebugLog(debugf),
		)
	})
	factory.Register(models.WorkerKindFeature, func() worker.Worker {
		return worker.NewFeatureWorker(
			worker.WithFeatureTracker(trackerClient),
			worker.WithFeatureWorkspace(workspace),
			worker.WithFeatureMatcher(matcher),
			worker.WithFeatureAssignee(cfg.Tracker.Assignee),
			worker.WithFeatureDebugLog(debugf),
		)
	})
	return factory
}

// consumeEventsHeadless prints engine events to stdout for headless mode.
func consumeEventsHeadless(events <-chan engine.Event) {
	for event := range events {
		switch event.Type {
		case engine.EventPhaseStarted:
			fmt.Printf("[PHASE] %s\n", event.Message)
		case engine.EventTaskStarted:
			fmt.Printf("[STARTED] %s (agent: %s)\n", event.Message, event.AgentID)
		case engine.EventTaskCompleted:
			fmt.Printf("[DONE] %s: %s\n", event.TaskID, event.Message)
		case engine.EventTaskFailed:
			fmt.Printf("[FAILED] %s: %v\n", event.TaskID, event.Err)
		case engine.EventEmergencyStop:
			fmt.Printf("[STOP] %s\n", event.Message)
		case engine.EventRunCompleted:
			fmt.Printf("[RUN] %s\n", event.Message)
		}
	}
}

// saveRunHistory appends the finished run to the workspace history database.
func saveRunHistory(root string, spec models.ProjectSpec, result *models.ExecutionResult, rep models.ValidationReport, met models.RunMetrics, agents map[string]models.AgentRecord) error {
	db, err := history.OpenWorkspace(root)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}
	return db.SaveRun(history.BuildRun(spec, result, rep, met), history.BuildAgents(result.RunID, agents))
}

// printRunSummary prints the post-run verdict, features, and timing.
func printRunSummary(result *models.ExecutionResult, rep models.ValidationReport, met models.RunMetrics) {
	fmt.Println()
	if rep.Passed() {
		fmt.Printf("%s Run %s passed validation\n", color.GreenString("✓"), result.RunID)
	} else {
		fmt.Printf("%s Run %s failed validation\n", color.RedString("✗"), result.RunID)
	}
	if result.ProjectID != "" {
		fmt.Printf("  Project: %s\n", result.ProjectID)
	}
	fmt.Printf("  Features completed: %d\n", rep.FeaturesCompleted)
	for _, f := range result.Features {
		fmt.Printf("    %s %s\n", color.GreenString("✓"), f)
	}
	fmt.Printf("  Agents spawned: %d\n", met.AgentsSpawned)
	fmt.Printf("  Duration: %.1fs (%.2fx vs sequential estimate)\n", met.ActualSeconds, met.Speedup)
	if !rep.AllAgentsSucceeded && rep.FailedAgent != "" {
		fmt.Printf("  %s agent %s did not succeed\n", color.YellowString("⚠"), rep.FailedAgent)
	}
	if result.Stopped {
		fmt.Printf("  %s stopped before all tasks ran\n", color.YellowString("⚠"))
	}
}

// printFailureTriage classifies failed tasks by error class and prints a
// breakdown. Skipped tasks never ran and are not triaged.
func printFailureTriage(recov *recovery.System, result *models.ExecutionResult) {
	for _, phase := range result.PhaseResults {
		for _, res := range phase {
			if res.Success || res.AgentID == "" {
				continue
			}
			recov.Handle(context.Background(), errors.New(res.Error), map[string]interface{}{
				"task_id":  res.TaskID,
				"agent_id": res.AgentID,
			})
		}
	}

	stats := recov.Stats()
	if stats.TotalErrors == 0 {
		return
	}
	classes := make([]string, 0, len(stats.ByClass))
	for class, n := range stats.ByClass {
		classes = append(classes, fmt.Sprintf("%s %d", class, n))
	}
	sort.Strings(classes)
	fmt.Printf("  Failures: %d (%s)\n", stats.TotalErrors, strings.Join(classes, ", "))
	if stats.ByClass[recovery.ClassTimeout]+stats.ByClass[recovery.ClassTransport] > 0 {
		fmt.Printf("  %s transient failures; resuming the session retries them\n", color.YellowString("⚠"))
	}
}
