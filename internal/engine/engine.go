package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/genesis-agents/genesis/internal/worker"
	"github.com/genesis-agents/genesis/pkg/models"
)

// Engine runs one ExecutionPlan at a time. Each Run gets its own agent
// registry; engines are cheap and a new one per run keeps state isolated.
type Engine struct {
	factory  *worker.Factory
	registry *AgentRegistry
	events   chan Event
	debugLog func(format string, args ...interface{})

	mu      sync.Mutex
	spawned int
	stopped bool
}

// Option configures an Engine. Use With* functions to create Options.
type Option func(*Engine)

// WithDebugLog sets the debug log function.
func WithDebugLog(fn func(format string, args ...interface{})) Option {
	return func(e *Engine) {
		if fn != nil {
			e.debugLog = fn
		}
	}
}

// WithEventBuffer sets the event channel capacity.
func WithEventBuffer(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.events = make(chan Event, n)
		}
	}
}

// New creates an Engine that constructs workers through factory.
func New(factory *worker.Factory, opts ...Option) *Engine {
	e := &Engine{
		factory:  factory,
		registry: NewAgentRegistry(),
		events:   make(chan Event, 100),
		debugLog: func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's per-run agent registry.
func (e *Engine) Registry() *AgentRegistry {
	return e.registry
}

// Events returns the engine's event stream. Events are dropped rather
// than blocking execution when no one is draining the channel.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Run executes the plan phase by phase and returns the aggregate result.
//
// Individual task failures are captured in the per-phase result lists and
// never returned as errors. The only errors Run returns are structural
// (nil plan, unknown worker kind), detected before any task executes.
//
// The one ordering rule with teeth: when the setup task fails, the run
// ends there. The result carries no project id, no completed features,
// and no feature worker is ever constructed.
func (e *Engine) Run(ctx context.Context, plan *models.ExecutionPlan) (*models.ExecutionResult, error) {
	if err := e.preflight(plan); err != nil {
		return nil, err
	}

	result := &models.ExecutionResult{
		RunID:     uuid.New().String()[:8],
		Features:  []string{},
		StartedAt: time.Now(),
	}
	e.emit(Event{Type: EventRunStarted, Message: fmt.Sprintf("run %s: %d phases", result.RunID, len(plan.Phases))})
	log.Printf("[engine] run %s started: %d phases, %d tasks", result.RunID, len(plan.Phases), plan.TaskCount())

	// succeeded tracks terminal task outcomes across phases so later
	// phases can check their dependencies.
	succeeded := make(map[string]bool)
	projectID := ""
	aborted := false

	for pi := range plan.Phases {
		phase := &plan.Phases[pi]
		blocked := blockedTasks(phase, succeeded)
		if len(phase.Tasks) > 0 && len(blocked) == len(phase.Tasks) {
			// Nothing in this phase can run; the run ends here. This is
			// the setup-failure short circuit in the two-phase plan.
			log.Printf("[engine] run %s: phase %q skipped, all %d tasks blocked by failed dependencies",
				result.RunID, phase.Name, len(phase.Tasks))
			aborted = true
			break
		}

		e.emit(Event{Type: EventPhaseStarted, Phase: phase.Name, Message: fmt.Sprintf("%d tasks", len(phase.Tasks))})
		e.debugLog("[engine] phase %q: parallel=%v limit=%d tasks=%d", phase.Name, phase.Parallel, phase.MaxParallel, len(phase.Tasks))

		var phaseResults []models.TaskResult
		if phase.Parallel {
			phaseResults = e.runParallelPhase(ctx, phase, blocked, projectID)
		} else {
			phaseResults = e.runSequentialPhase(ctx, phase, blocked, projectID)
		}
		result.PhaseResults = append(result.PhaseResults, phaseResults)

		for i, res := range phaseResults {
			succeeded[phase.Tasks[i].ID] = res.Success
		}
		if id := setupProjectID(phase, phaseResults); id != "" {
			projectID = id
			result.ProjectID = id
		}

		e.emit(Event{Type: EventPhaseCompleted, Phase: phase.Name})
	}

	if !aborted {
		result.Features = completedFeatures(plan, result.PhaseResults)
	}
	result.Stopped = e.isStopped()
	result.CompletedAt = time.Now()
	result.DurationSeconds = result.CompletedAt.Sub(result.StartedAt).Seconds()

	e.emit(Event{Type: EventRunCompleted, Message: fmt.Sprintf("%d features completed", len(result.Features))})
	log.Printf("[engine] run %s finished in %.2fs: project=%q features=%d/%d",
		result.RunID, result.DurationSeconds, result.ProjectID, len(result.Features), featureTaskCount(plan))
	return result, nil
}

// EmergencyStop halts the run cooperatively: every tracked agent that is
// not already terminal transitions to stopped (recording whether it was
// mid-task), and no further tasks are admitted. In-flight worker calls
// are not interrupted; they finish or fail on their own. Returns the
// records that were stopped.
func (e *Engine) EmergencyStop() []models.AgentRecord {
	e.mu.Lock()
	alreadyStopped := e.stopped
	e.stopped = true
	e.mu.Unlock()

	stopped := e.registry.StopNonTerminal()
	if !alreadyStopped {
		e.emit(Event{Type: EventEmergencyStop, Message: fmt.Sprintf("%d agents stopped", len(stopped))})
		log.Printf("[engine] emergency stop: %d agents transitioned to stopped", len(stopped))
	}
	return stopped
}

func (e *Engine) isStopped() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopped
}

// preflight rejects structural problems before any task executes.
func (e *Engine) preflight(plan *models.ExecutionPlan) error {
	if plan == nil || len(plan.Phases) == 0 {
		return fmt.Errorf("engine: empty execution plan")
	}
	for _, phase := range plan.Phases {
		for _, task := range phase.Tasks {
			if !e.factory.Known(task.Kind) {
				return fmt.Errorf("engine: task %q: %w: %q", task.ID, worker.ErrUnknownKind, task.Kind)
			}
		}
	}
	return nil
}

// runSequentialPhase executes tasks strictly one at a time, in order.
func (e *Engine) runSequentialPhase(ctx context.Context, phase *models.Phase, blocked map[int]string, projectID string) []models.TaskResult {
	results := make([]models.TaskResult, len(phase.Tasks))
	for i := range phase.Tasks {
		task := &phase.Tasks[i]
		if dep, ok := blocked[i]; ok {
			results[i] = skippedResult(task, fmt.Sprintf("dependency failed: %s", dep))
			continue
		}
		if reason := e.admissionBlocked(ctx); reason != "" {
			results[i] = skippedResult(task, reason)
			continue
		}
		results[i] = e.executeTask(ctx, phase.Name, task, projectID, e.spawnAgent(task.Kind))
	}
	return results
}

// runParallelPhase executes tasks through an admission-controlled pool:
// at most limit tasks are in flight at once, admitted in list order as
// slots free up. Result placement matches input order regardless of
// completion order, and one task's failure never touches its siblings.
func (e *Engine) runParallelPhase(ctx context.Context, phase *models.Phase, blocked map[int]string, projectID string) []models.TaskResult {
	limit := phase.MaxParallel
	if limit < 1 {
		limit = models.DefaultMaxParallel
	}

	results := make([]models.TaskResult, len(phase.Tasks))
	slots := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i := range phase.Tasks {
		task := &phase.Tasks[i]
		if dep, ok := blocked[i]; ok {
			results[i] = skippedResult(task, fmt.Sprintf("dependency failed: %s", dep))
			continue
		}
		if reason := e.admissionBlocked(ctx); reason != "" {
			results[i] = skippedResult(task, reason)
			continue
		}

		slots <- struct{}{}
		// Recheck after the wait for a slot: a stop raised by an
		// in-flight task must bind every task still queued behind it.
		if reason := e.admissionBlocked(ctx); reason != "" {
			<-slots
			results[i] = skippedResult(task, reason)
			continue
		}
		agentID := e.spawnAgent(task.Kind)
		wg.Add(1)
		go func(i int, task *models.TaskNode, agentID string) {
			defer wg.Done()
			defer func() { <-slots }()
			results[i] = e.executeTask(ctx, phase.Name, task, projectID, agentID)
		}(i, task, agentID)
	}

	wg.Wait()
	return results
}

// admissionBlocked reports why no further task may be dispatched, or ""
// when admission is open. Checked at each admission point so a stop or
// cancellation takes effect between tasks, never inside one.
func (e *Engine) admissionBlocked(ctx context.Context) string {
	if e.isStopped() {
		return "emergency stop: task not dispatched"
	}
	if err := ctx.Err(); err != nil {
		return fmt.Sprintf("run canceled: %v", err)
	}
	return ""
}

// executeTask constructs a worker for the node, runs it, and records the
// outcome in the registry. Worker errors come back inside the TaskResult.
func (e *Engine) executeTask(ctx context.Context, phaseName string, task *models.TaskNode, projectID, agentID string) models.TaskResult {
	payload := clonePayload(task.Payload)
	if projectID != "" && task.Kind == models.WorkerKindFeature {
		payload[models.PayloadProjectID] = projectID
	}

	start := time.Now()
	e.registry.TrackTaskStart(agentID, describeTask(task))
	e.emit(Event{Type: EventTaskStarted, Phase: phaseName, TaskID: task.ID, AgentID: agentID, Message: describeTask(task)})
	e.debugLog("[engine] %s: dispatching task %s (%s)", agentID, task.ID, task.Kind)

	output, err := e.runWorker(ctx, task.Kind, payload)
	end := time.Now()

	if err != nil {
		e.registry.TrackTaskComplete(agentID, false, end.Sub(start))
		e.registry.AppendError(agentID, err.Error(), map[string]any{"task_id": task.ID})
		e.emit(Event{Type: EventTaskFailed, Phase: phaseName, TaskID: task.ID, AgentID: agentID, Err: err})
		log.Printf("[engine] %s: task %s failed: %v", agentID, task.ID, err)
		return models.TaskResult{
			TaskID:    task.ID,
			AgentID:   agentID,
			Success:   false,
			Error:     err.Error(),
			StartedAt: start,
			EndedAt:   end,
		}
	}

	e.registry.TrackTaskComplete(agentID, true, end.Sub(start))
	e.emit(Event{Type: EventTaskCompleted, Phase: phaseName, TaskID: task.ID, AgentID: agentID})
	e.debugLog("[engine] %s: task %s completed in %s", agentID, task.ID, end.Sub(start).Round(time.Millisecond))
	return models.TaskResult{
		TaskID:    task.ID,
		AgentID:   agentID,
		Success:   true,
		Output:    output,
		StartedAt: start,
		EndedAt:   end,
	}
}

func (e *Engine) runWorker(ctx context.Context, kind models.WorkerKind, payload map[string]any) (map[string]any, error) {
	w, err := e.factory.New(kind)
	if err != nil {
		return nil, err
	}
	if err := w.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return w.Execute(ctx, payload)
}

// spawnAgent assigns the next "<prefix>-<n>" id, with n incrementing
// across the whole run in admission order, and registers an idle record.
func (e *Engine) spawnAgent(kind models.WorkerKind) string {
	e.mu.Lock()
	e.spawned++
	id := fmt.Sprintf("%s-%d", kind.IDPrefix(), e.spawned)
	e.mu.Unlock()
	e.registry.Register(id, kind)
	return id
}

func (e *Engine) emit(event Event) {
	event.Timestamp = time.Now()
	select {
	case e.events <- event:
	default:
		// Channel full, drop event to avoid blocking
	}
}

// blockedTasks maps task indices to the first failed dependency that
// blocks them. Tasks with no entry are ready to run.
func blockedTasks(phase *models.Phase, succeeded map[string]bool) map[int]string {
	blocked := make(map[int]string)
	for i, task := range phase.Tasks {
		for _, dep := range task.DependsOn {
			if !succeeded[dep] {
				blocked[i] = dep
				break
			}
		}
	}
	return blocked
}

// skippedResult records a task that was never dispatched to a worker.
func skippedResult(task *models.TaskNode, reason string) models.TaskResult {
	now := time.Now()
	return models.TaskResult{
		TaskID:    task.ID,
		Success:   false,
		Error:     reason,
		StartedAt: now,
		EndedAt:   now,
	}
}

// setupProjectID pulls the project id from a successful setup task's
// output, or "" when the phase holds none.
func setupProjectID(phase *models.Phase, results []models.TaskResult) string {
	for i, task := range phase.Tasks {
		if task.Kind != models.WorkerKindSetup || !results[i].Success {
			continue
		}
		if id, ok := results[i].Output[models.PayloadProjectID].(string); ok && id != "" {
			return id
		}
	}
	return ""
}

// completedFeatures collects the names of successful feature tasks in
// original input order.
func completedFeatures(plan *models.ExecutionPlan, phaseResults [][]models.TaskResult) []string {
	features := []string{}
	for pi := range phaseResults {
		phase := &plan.Phases[pi]
		for i, res := range phaseResults[pi] {
			if phase.Tasks[i].Kind != models.WorkerKindFeature || !res.Success {
				continue
			}
			if name, ok := res.Output[models.PayloadFeatureName].(string); ok && name != "" {
				features = append(features, name)
				continue
			}
			if name, ok := phase.Tasks[i].Payload[models.PayloadFeatureName].(string); ok {
				features = append(features, name)
			}
		}
	}
	return features
}

func featureTaskCount(plan *models.ExecutionPlan) int {
	n := 0
	for _, phase := range plan.Phases {
		for _, task := range phase.Tasks {
			if task.Kind == models.WorkerKindFeature {
				n++
			}
		}
	}
	return n
}

func describeTask(task *models.TaskNode) string {
	switch task.Kind {
	case models.WorkerKindSetup:
		return "Project Setup"
	case models.WorkerKindFeature:
		if name, ok := task.Payload[models.PayloadFeatureName].(string); ok {
			return "Feature: " + name
		}
		return "Feature"
	default:
		return string(task.Kind)
	}
}

func clonePayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		out[k] = v
	}
	return out
}
