package models

import "time"

// TaskResult is the outcome of running one TaskNode.
type TaskResult struct {
	// TaskID is the plan node this result belongs to.
	TaskID string `json:"task_id"`
	// AgentID identifies the worker that ran the task.
	AgentID string `json:"agent_id"`
	// Success reports whether the task completed without error.
	Success bool `json:"success"`
	// Output is the worker-defined result payload, nil on failure.
	Output map[string]any `json:"output,omitempty"`
	// Error describes the failure when Success is false.
	Error string `json:"error,omitempty"`
	// StartedAt is when the worker began the task.
	StartedAt time.Time `json:"started_at"`
	// EndedAt is when the task reached a terminal state.
	EndedAt time.Time `json:"ended_at"`
}

// ExecutionResult aggregates the outcome of running one ExecutionPlan.
type ExecutionResult struct {
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`
	// ProjectID is the tracker project created by setup; empty until
	// setup succeeds, and stays empty when setup fails.
	ProjectID string `json:"project_id,omitempty"`
	// Features lists the names of feature tasks that completed
	// successfully, in original input order.
	Features []string `json:"features"`
	// PhaseResults holds per-phase result lists for the phases that
	// actually ran, each in the phase's original task order.
	PhaseResults [][]TaskResult `json:"phase_results"`
	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
	// CompletedAt is when the last executed phase finished.
	CompletedAt time.Time `json:"completed_at"`
	// DurationSeconds is the wall-clock run time.
	DurationSeconds float64 `json:"duration_seconds"`
	// Stopped reports whether an emergency stop interrupted the run.
	Stopped bool `json:"stopped,omitempty"`
}

// ValidationReport summarizes an ExecutionResult against the agent
// registry. It is descriptive only; nothing in it feeds back into
// engine behavior.
type ValidationReport struct {
	// ProjectCreated reports whether setup produced a project id.
	ProjectCreated bool `json:"project_created"`
	// FeaturesCompleted is the number of successful feature tasks.
	FeaturesCompleted int `json:"features_completed"`
	// AllAgentsSucceeded is true when every spawned agent reached
	// the completed status.
	AllAgentsSucceeded bool `json:"all_agents_succeeded"`
	// FailedAgent is the first agent (by sorted id) that did not
	// complete, empty when AllAgentsSucceeded is true.
	FailedAgent string `json:"failed_agent,omitempty"`
}

// Passed reports project-level success: a project was created and at
// least one feature completed. Agent-level failures are advisory and
// do not affect this.
func (r *ValidationReport) Passed() bool {
	return r.ProjectCreated && r.FeaturesCompleted > 0
}

// RunMetrics compares a run against its estimated sequential baseline.
// Reporting only; never feeds back into scheduling.
type RunMetrics struct {
	// EstimatedSequentialSeconds is the modeled single-worker duration.
	EstimatedSequentialSeconds float64 `json:"estimated_sequential_seconds"`
	// ActualSeconds is the measured run duration.
	ActualSeconds float64 `json:"actual_seconds"`
	// Speedup is estimated/actual, or 1.0 when the duration could not
	// be measured (zero). A 1.0 from an unmeasured run is not "no
	// speedup achieved".
	Speedup float64 `json:"speedup"`
	// FeaturesCompleted is the number of successful feature tasks.
	FeaturesCompleted int `json:"features_completed"`
	// AgentsSpawned is the total number of workers the run created.
	AgentsSpawned int `json:"agents_spawned"`
}
