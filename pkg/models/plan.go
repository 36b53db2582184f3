package models

// WorkerKind tags a task with the worker type that executes it.
type WorkerKind string

const (
	// WorkerKindSetup is the project-setup worker type.
	WorkerKindSetup WorkerKind = "setup"
	// WorkerKindFeature is the feature-implementation worker type.
	WorkerKindFeature WorkerKind = "feature"
)

// Valid returns true if the kind is a known value.
func (k WorkerKind) Valid() bool {
	switch k {
	case WorkerKindSetup, WorkerKindFeature:
		return true
	default:
		return false
	}
}

// IDPrefix returns the agent-id prefix for workers of this kind.
func (k WorkerKind) IDPrefix() string {
	switch k {
	case WorkerKindSetup:
		return "gsa"
	case WorkerKindFeature:
		return "gfa"
	default:
		return "agent"
	}
}

// Payload keys shared between the planner, engine, and workers.
const (
	// PayloadDescription is the human-readable work description.
	PayloadDescription = "description"
	// PayloadProjectType is the project-type hint for setup tasks.
	PayloadProjectType = "project_type"
	// PayloadFeatureName is the feature a feature task implements.
	PayloadFeatureName = "feature_name"
	// PayloadProjectID is injected into feature payloads after setup.
	PayloadProjectID = "project_id"
)

// TaskNode is one planned unit of work.
type TaskNode struct {
	// ID uniquely identifies the node within its plan.
	ID string `json:"id"`
	// Kind selects the worker type that executes this node.
	Kind WorkerKind `json:"kind"`
	// DependsOn lists node IDs that must reach a terminal state first.
	DependsOn []string `json:"depends_on,omitempty"`
	// Parallel marks the node as eligible for concurrent execution.
	Parallel bool `json:"parallel"`
	// Payload is the opaque work specification forwarded to the worker.
	Payload map[string]any `json:"payload"`
}

// Phase is a named, ordered group of tasks sharing a parallelism policy.
type Phase struct {
	// Name labels the phase, e.g. "Setup" or "Features".
	Name string `json:"name"`
	// Parallel controls whether tasks in this phase may run concurrently.
	Parallel bool `json:"parallel"`
	// MaxParallel caps in-flight tasks when Parallel is true.
	MaxParallel int `json:"max_parallel,omitempty"`
	// Tasks are the phase's nodes in dispatch order.
	Tasks []TaskNode `json:"tasks"`
}

// ExecutionPlan is an ordered sequence of phases. Phases execute strictly
// in order: a later phase never starts before every task of an earlier
// phase has reached a terminal state.
type ExecutionPlan struct {
	// Phases in execution order.
	Phases []Phase `json:"phases"`
}

// TaskCount returns the total number of tasks across all phases.
func (p *ExecutionPlan) TaskCount() int {
	n := 0
	for _, phase := range p.Phases {
		n += len(phase.Tasks)
	}
	return n
}
