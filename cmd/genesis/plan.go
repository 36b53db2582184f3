package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/genesis-agents/genesis/internal/config"
	"github.com/genesis-agents/genesis/internal/detect"
	"github.com/genesis-agents/genesis/internal/llm"
	"github.com/genesis-agents/genesis/internal/pattern"
	"github.com/genesis-agents/genesis/internal/planner"
	"github.com/genesis-agents/genesis/pkg/models"
)

var (
	planType        string
	planFeatures    string
	planMaxParallel int
	planSuggest     bool
	planJSON        bool
)

var planCmd = &cobra.Command{
	Use:   "plan <description>",
	Short: "Preview a run without executing it",
	Long: `Preview what 'genesis run' would do for a description: the detected
project type, the per-feature pattern matches with time estimates, and
the two-phase execution plan.

Nothing is executed and nothing is written. With --suggest and no
--features, the feature list is proposed the same way run proposes it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planType, "type", "", "Project type: landing_page or saas_app (default: detect)")
	planCmd.Flags().StringVar(&planFeatures, "features", "", "Comma-separated feature list")
	planCmd.Flags().IntVar(&planMaxParallel, "max-parallel", 0, "Max concurrent feature agents (default from config)")
	planCmd.Flags().BoolVar(&planSuggest, "suggest", false, "Suggest features when none are given")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Output the plan as JSON")
}

func runPlan(cmd *cobra.Command, args []string) error {
	description := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	detection := detect.Detect(description)
	projectType := detection.Type
	if planType != "" {
		t := models.ProjectType(planType)
		if !t.Valid() || t == models.ProjectTypeUnknown {
			return fmt.Errorf("invalid project type %q: must be %s or %s",
				planType, models.ProjectTypeLandingPage, models.ProjectTypeSaaSApp)
		}
		projectType = t
	}

	features := splitFeatures(planFeatures)
	if len(features) == 0 && planSuggest {
		features = suggestFeatures(cmd.Context(), cfg, description, projectType, llm.DefaultSuggestionLimit, func(string, ...interface{}) {})
	}

	maxParallel := cfg.Defaults.MaxParallel
	if cmd.Flags().Changed("max-parallel") {
		maxParallel = planMaxParallel
	}

	spec := models.ProjectSpec{
		Description: description,
		Type:        projectType,
		Features:    features,
		MaxParallel: maxParallel,
	}
	plan, err := planner.Build(&spec)
	if err != nil {
		return err
	}

	library := pattern.NewLibrary()
	if cfg.Workspace.PatternsFile != "" {
		if err := library.LoadFile(cfg.Workspace.PatternsFile); err != nil {
			fmt.Printf("Warning: custom patterns not loaded: %v\n", err)
		}
	}
	matcher := pattern.NewMatcher(library)
	estimate := matcher.EstimateTime(features, projectType)

	if planJSON {
		return printPlanJSON(detection, spec, plan, estimate)
	}
	printPlanHuman(detection, spec, plan, estimate, planType != "")
	return nil
}

func printPlanJSON(detection detect.Detection, spec models.ProjectSpec, plan *models.ExecutionPlan, estimate pattern.TimeEstimate) error {
	out := struct {
		Detection detect.Detection      `json:"detection"`
		Spec      models.ProjectSpec    `json:"spec"`
		Plan      *models.ExecutionPlan `json:"plan"`
		Estimate  pattern.TimeEstimate  `json:"estimate"`
	}{detection, spec, plan, estimate}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printPlanHuman(detection detect.Detection, spec models.ProjectSpec, plan *models.ExecutionPlan, estimate pattern.TimeEstimate, typeForced bool) {
	if typeForced {
		fmt.Printf("Project type: %s\n", spec.Type)
	} else {
		fmt.Printf("Detected type: %s (%.0f%% confidence)\n", detection.Type, detection.Confidence*100)
		fmt.Printf("  %s\n", detection.Reasoning)
	}

	fmt.Println()
	for i, phase := range plan.Phases {
		mode := "sequential"
		if phase.Parallel {
			mode = fmt.Sprintf("parallel, max %d", phase.MaxParallel)
		}
		fmt.Printf("Phase %d: %s (%s)\n", i+1, phase.Name, mode)
		for _, task := range phase.Tasks {
			fmt.Printf("  %-12s %s\n", task.ID, describePlanTask(task))
		}
	}

	if len(estimate.Features) > 0 {
		fmt.Println("\nPattern matches:")
		for _, fe := range estimate.Features {
			fmt.Printf("  %-24s %s (%s, ~%dm)\n", fe.Feature, fe.Pattern, fe.Complexity, fe.Minutes)
		}
	}

	fmt.Printf("\nEstimate: setup %dm + features %dm sequential, ~%dm with parallel agents (%.1fx)\n",
		estimate.SetupMinutes, estimate.SequentialTotal, estimate.ParallelTotal, estimate.Speedup)
}

func describePlanTask(task models.TaskNode) string {
	if f, ok := task.Payload[models.PayloadFeatureName].(string); ok && f != "" {
		return f
	}
	if d, ok := task.Payload[models.PayloadDescription].(string); ok && d != "" {
		return d
	}
	return string(task.Kind)
}
