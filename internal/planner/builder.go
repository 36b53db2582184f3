// Package planner turns project specifications into executable plans.
//
// A plan has exactly two phases: a sequential "Setup" phase with one task,
// and a bounded-parallel "Features" phase with one task per requested
// feature. Every feature task depends on the setup task.
package planner

import (
	"errors"
	"fmt"

	"github.com/genesis-agents/genesis/pkg/models"
)

// ErrInvalidSpec reports a malformed ProjectSpec. It is a structural
// error: the caller gets it before any work is dispatched.
var ErrInvalidSpec = errors.New("invalid project spec")

// SetupTaskID is the plan-node id of the single setup task.
const SetupTaskID = "setup"

// SetupPhaseName and FeaturePhaseName label the two plan phases.
const (
	SetupPhaseName   = "Setup"
	FeaturePhaseName = "Features"
)

// Build produces the two-phase execution plan for a spec. It is a pure
// transformation with no side effects.
//
// An empty feature list is valid and yields an empty Features phase that
// executes no tasks.
func Build(spec *models.ProjectSpec) (*models.ExecutionPlan, error) {
	if spec == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrInvalidSpec)
	}
	if spec.MaxParallel < 0 {
		return nil, fmt.Errorf("%w: max parallel %d, must be >= 1", ErrInvalidSpec, spec.MaxParallel)
	}
	if spec.Type != "" && !spec.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown project type %q", ErrInvalidSpec, spec.Type)
	}

	setupPayload := map[string]any{
		models.PayloadDescription: spec.Description,
	}
	if spec.Type != "" {
		setupPayload[models.PayloadProjectType] = string(spec.Type)
	}

	setup := models.Phase{
		Name:     SetupPhaseName,
		Parallel: false,
		Tasks: []models.TaskNode{
			{
				ID:       SetupTaskID,
				Kind:     models.WorkerKindSetup,
				Parallel: false,
				Payload:  setupPayload,
			},
		},
	}

	features := models.Phase{
		Name:        FeaturePhaseName,
		Parallel:    true,
		MaxParallel: spec.EffectiveMaxParallel(),
		Tasks:       make([]models.TaskNode, 0, len(spec.Features)),
	}
	for i, name := range spec.Features {
		features.Tasks = append(features.Tasks, models.TaskNode{
			ID:        fmt.Sprintf("feature-%d", i+1),
			Kind:      models.WorkerKindFeature,
			DependsOn: []string{SetupTaskID},
			Parallel:  true,
			Payload: map[string]any{
				models.PayloadFeatureName: name,
				models.PayloadDescription: fmt.Sprintf("Implement %s", name),
			},
		})
	}

	return &models.ExecutionPlan{Phases: []models.Phase{setup, features}}, nil
}
