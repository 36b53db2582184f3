package engine

import "time"

// EventType represents the type of engine event.
type EventType string

const (
	// EventRunStarted indicates plan execution has begun.
	EventRunStarted EventType = "run_started"
	// EventPhaseStarted indicates a phase has begun.
	EventPhaseStarted EventType = "phase_started"
	// EventTaskStarted indicates a task was dispatched to a worker.
	EventTaskStarted EventType = "task_started"
	// EventTaskCompleted indicates a task completed successfully.
	EventTaskCompleted EventType = "task_completed"
	// EventTaskFailed indicates a task failed.
	EventTaskFailed EventType = "task_failed"
	// EventPhaseCompleted indicates every task of a phase is terminal.
	EventPhaseCompleted EventType = "phase_completed"
	// EventRunCompleted indicates the whole run is done.
	EventRunCompleted EventType = "run_completed"
	// EventEmergencyStop indicates an emergency stop was requested.
	EventEmergencyStop EventType = "emergency_stop"
)

// Event is emitted by the engine as a run progresses. Events are used to
// drive the TUI and debug logging; dropping one never affects execution.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// Phase names the phase the event belongs to, if any.
	Phase string
	// TaskID is the plan node id, if applicable.
	TaskID string
	// AgentID is the worker the event concerns, if applicable.
	AgentID string
	// Message provides human-readable context.
	Message string
	// Err carries error details for failure events.
	Err error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
