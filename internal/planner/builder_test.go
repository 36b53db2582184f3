package planner

import (
	"errors"
	"testing"

	"github.com/genesis-agents/genesis/pkg/models"
)

func TestBuildProducesTwoPhases(t *testing.T) {
	spec := &models.ProjectSpec{
		Description: "team chat app",
		Features:    []string{"auth", "dashboard", "billing"},
		MaxParallel: 2,
	}

	plan, err := Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(plan.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(plan.Phases))
	}

	setup := plan.Phases[0]
	if setup.Name != SetupPhaseName {
		t.Errorf("phase 0 name = %q, want %q", setup.Name, SetupPhaseName)
	}
	if setup.Parallel {
		t.Error("setup phase should not be parallel")
	}
	if len(setup.Tasks) != 1 {
		t.Fatalf("setup phase has %d tasks, want 1", len(setup.Tasks))
	}
	if setup.Tasks[0].Kind != models.WorkerKindSetup {
		t.Errorf("setup task kind = %q, want %q", setup.Tasks[0].Kind, models.WorkerKindSetup)
	}
	if len(setup.Tasks[0].DependsOn) != 0 {
		t.Errorf("setup task should have no dependencies, got %v", setup.Tasks[0].DependsOn)
	}

	features := plan.Phases[1]
	if features.Name != FeaturePhaseName {
		t.Errorf("phase 1 name = %q, want %q", features.Name, FeaturePhaseName)
	}
	if !features.Parallel {
		t.Error("features phase should be parallel")
	}
	if features.MaxParallel != 2 {
		t.Errorf("features phase MaxParallel = %d, want 2", features.MaxParallel)
	}
	if len(features.Tasks) != 3 {
		t.Fatalf("features phase has %d tasks, want 3", len(features.Tasks))
	}
}

func TestBuildFeatureTasksPreserveInputOrder(t *testing.T) {
	spec := &models.ProjectSpec{
		Description: "x",
		Features:    []string{"hero section", "pricing", "faq"},
	}

	plan, err := Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tasks := plan.Phases[1].Tasks
	want := []string{"hero section", "pricing", "faq"}
	for i, task := range tasks {
		name, _ := task.Payload[models.PayloadFeatureName].(string)
		if name != want[i] {
			t.Errorf("task %d feature = %q, want %q", i, name, want[i])
		}
		if len(task.DependsOn) != 1 || task.DependsOn[0] != SetupTaskID {
			t.Errorf("task %d should depend on setup, got %v", i, task.DependsOn)
		}
		if !task.Parallel {
			t.Errorf("task %d should be parallel-eligible", i)
		}
	}
}

func TestBuildFeaturePayloadDescription(t *testing.T) {
	spec := &models.ProjectSpec{Description: "x", Features: []string{"user auth"}}

	plan, err := Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	desc, _ := plan.Phases[1].Tasks[0].Payload[models.PayloadDescription].(string)
	if desc != "Implement user auth" {
		t.Errorf("feature description = %q, want %q", desc, "Implement user auth")
	}
}

func TestBuildDuplicateFeaturesStayIndependent(t *testing.T) {
	spec := &models.ProjectSpec{Description: "x", Features: []string{"auth", "auth"}}

	plan, err := Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tasks := plan.Phases[1].Tasks
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks for duplicate features, got %d", len(tasks))
	}
	if tasks[0].ID == tasks[1].ID {
		t.Errorf("duplicate features must get distinct task ids, both %q", tasks[0].ID)
	}
}

func TestBuildEmptyFeatureListIsValid(t *testing.T) {
	spec := &models.ProjectSpec{Description: "setup only"}

	plan, err := Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if len(plan.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(plan.Phases))
	}
	if len(plan.Phases[1].Tasks) != 0 {
		t.Errorf("empty feature list should yield empty Features phase, got %d tasks", len(plan.Phases[1].Tasks))
	}
}

func TestBuildRejectsNegativeMaxParallel(t *testing.T) {
	spec := &models.ProjectSpec{Description: "x", Features: []string{"a"}, MaxParallel: -1}

	_, err := Build(spec)
	if err == nil {
		t.Fatal("expected error for negative max parallel")
	}
	if !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("error = %v, want ErrInvalidSpec", err)
	}
}

func TestBuildRejectsUnknownProjectType(t *testing.T) {
	spec := &models.ProjectSpec{Description: "x", Type: models.ProjectType("desktop_app")}

	_, err := Build(spec)
	if !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("error = %v, want ErrInvalidSpec", err)
	}
}

func TestBuildDefaultsMaxParallel(t *testing.T) {
	spec := &models.ProjectSpec{Description: "x", Features: []string{"a"}}

	plan, err := Build(spec)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := plan.Phases[1].MaxParallel; got != models.DefaultMaxParallel {
		t.Errorf("default MaxParallel = %d, want %d", got, models.DefaultMaxParallel)
	}
}
