package models

import "time"

// AgentStatus represents the lifecycle state of a spawned agent.
type AgentStatus string

const (
	// AgentStatusIdle indicates the agent is registered but has no task.
	AgentStatusIdle AgentStatus = "idle"
	// AgentStatusPlanning indicates the agent is decomposing work.
	AgentStatusPlanning AgentStatus = "planning"
	// AgentStatusExecuting indicates the agent is running a task.
	AgentStatusExecuting AgentStatus = "executing"
	// AgentStatusValidating indicates the agent is checking its own output.
	AgentStatusValidating AgentStatus = "validating"
	// AgentStatusCompleted indicates the agent finished its task successfully.
	AgentStatusCompleted AgentStatus = "completed"
	// AgentStatusError indicates the agent's task failed.
	AgentStatusError AgentStatus = "error"
	// AgentStatusStopped indicates the agent was halted by an emergency stop.
	AgentStatusStopped AgentStatus = "stopped"
)

// Valid returns true if the status is a known value.
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentStatusIdle, AgentStatusPlanning, AgentStatusExecuting,
		AgentStatusValidating, AgentStatusCompleted, AgentStatusError, AgentStatusStopped:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is an end state.
func (s AgentStatus) Terminal() bool {
	switch s {
	case AgentStatusCompleted, AgentStatusError, AgentStatusStopped:
		return true
	default:
		return false
	}
}

// AgentMetrics accumulates per-agent execution counters.
type AgentMetrics struct {
	// TasksExecuted is the total number of tasks this agent has run.
	TasksExecuted int `json:"tasks_executed"`
	// TasksSucceeded is the number of tasks that completed successfully.
	TasksSucceeded int `json:"tasks_succeeded"`
	// TasksFailed is the number of tasks that ended in error.
	TasksFailed int `json:"tasks_failed"`
	// TotalDurationSeconds is the cumulative wall-clock time spent on tasks.
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
}

// AgentError records one failure observed by an agent.
type AgentError struct {
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`
	// Message is the error description.
	Message string `json:"message"`
	// Context carries structured detail about what the agent was doing.
	Context map[string]any `json:"context,omitempty"`
}

// AgentRecord is the engine's bookkeeping entry for one spawned worker.
// The execution engine is the only writer; readers receive copies.
type AgentRecord struct {
	// ID is the run-scoped agent identifier, e.g. "gsa-1" or "gfa-3".
	ID string `json:"id"`
	// Kind is the worker kind this agent was spawned for.
	Kind WorkerKind `json:"kind"`
	// Status is the agent's lifecycle state.
	Status AgentStatus `json:"status"`
	// CurrentTask names the task the agent is working on, empty when idle.
	CurrentTask string `json:"current_task,omitempty"`
	// CanResume reports whether the agent was mid-task when stopped.
	CanResume bool `json:"can_resume,omitempty"`
	// CreatedAt is when the agent was spawned.
	CreatedAt time.Time `json:"created_at"`
	// LastActivity is the time of the agent's most recent state change.
	LastActivity time.Time `json:"last_activity"`
	// Metrics holds the agent's running counters.
	Metrics AgentMetrics `json:"metrics"`
	// Errors is the agent's error log, newest last.
	Errors []AgentError `json:"errors,omitempty"`
}
