// Package report turns a finished run into a validation verdict and
// speedup metrics. Everything here is a pure read-only summarizer: it
// never mutates the result or the agent records it is handed.
package report

import (
	"sort"
	"time"

	"github.com/genesis-agents/genesis/pkg/models"
)

// Sequential-baseline task costs used for the speedup estimate. These
// mirror what a human-paced build of the same project is assumed to
// take, not what the workers actually spend.
const (
	SetupBaseline   = 15 * time.Minute
	FeatureBaseline = 30 * time.Minute
)

// Validate summarizes a run against the three project-level checks:
// a project id was produced, at least one feature completed, and every
// spawned agent reached completed. Agents are read from a snapshot;
// the engine stays the only writer of agent state.
func Validate(result *models.ExecutionResult, agents map[string]models.AgentRecord) models.ValidationReport {
	report := models.ValidationReport{
		ProjectCreated:     result.ProjectID != "",
		FeaturesCompleted:  len(result.Features),
		AllAgentsSucceeded: true,
	}

	// Map iteration order is random; walk ids sorted so the reported
	// failed agent is the same on every run.
	for _, id := range sortedIDs(agents) {
		if agents[id].Status == models.AgentStatusCompleted {
			continue
		}
		report.AllAgentsSucceeded = false
		report.FailedAgent = id
		break
	}
	return report
}

// Estimate compares the run's wall-clock duration against a fixed
// sequential baseline. The numbers are for reporting only and never
// feed back into scheduling.
func Estimate(result *models.ExecutionResult, spec *models.ProjectSpec, agentsSpawned int) models.RunMetrics {
	estimated := SetupBaseline + time.Duration(len(spec.Features))*FeatureBaseline
	m := models.RunMetrics{
		EstimatedSequentialSeconds: estimated.Seconds(),
		ActualSeconds:              result.DurationSeconds,
		FeaturesCompleted:          len(result.Features),
		AgentsSpawned:              agentsSpawned,
	}
	if result.DurationSeconds > 0 {
		m.Speedup = m.EstimatedSequentialSeconds / result.DurationSeconds
	} else {
		// Zero duration means the run was not measured, not that it
		// achieved no speedup.
		m.Speedup = 1.0
	}
	return m
}

func sortedIDs(agents map[string]models.AgentRecord) []string {
	ids := make([]string, 0, len(agents))
	for id := range agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
