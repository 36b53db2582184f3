// Package engine executes plans phase by phase: sequential phases one
// task at a time, parallel phases through an admission-controlled pool.
package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/genesis-agents/genesis/pkg/models"
)

// AgentRegistry tracks the agents spawned for one run. Each Engine owns
// exactly one registry; there is no process-wide agent state. The engine
// is the only writer; readers get copies via Snapshot.
type AgentRegistry struct {
	mu     sync.RWMutex
	agents map[string]*models.AgentRecord
	order  []string
}

// NewAgentRegistry creates an empty registry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{agents: make(map[string]*models.AgentRecord)}
}

// Register adds a new idle agent record and returns its id.
func (r *AgentRegistry) Register(id string, kind models.WorkerKind) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[id] = &models.AgentRecord{
		ID:           id,
		Kind:         kind,
		Status:       models.AgentStatusIdle,
		CreatedAt:    now,
		LastActivity: now,
	}
	r.order = append(r.order, id)
}

// TrackTaskStart marks the agent as executing the named task.
func (r *AgentRegistry) TrackTaskStart(id, task string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.agents[id]
	if !ok {
		return
	}
	rec.Status = models.AgentStatusExecuting
	rec.CurrentTask = task
	rec.Metrics.TasksExecuted++
	rec.LastActivity = time.Now()
}

// TrackTaskComplete records the task outcome and moves the agent to a
// terminal status.
func (r *AgentRegistry) TrackTaskComplete(id string, success bool, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.agents[id]
	if !ok {
		return
	}
	if success {
		rec.Status = models.AgentStatusCompleted
		rec.Metrics.TasksSucceeded++
	} else {
		rec.Status = models.AgentStatusError
		rec.Metrics.TasksFailed++
	}
	rec.Metrics.TotalDurationSeconds += duration.Seconds()
	rec.CurrentTask = ""
	rec.LastActivity = time.Now()
}

// AppendError adds an entry to the agent's error log.
func (r *AgentRegistry) AppendError(id, message string, context map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.agents[id]
	if !ok {
		return
	}
	rec.Errors = append(rec.Errors, models.AgentError{
		Timestamp: time.Now(),
		Message:   message,
		Context:   context,
	})
	rec.LastActivity = time.Now()
}

// StopNonTerminal transitions every non-terminal agent to stopped,
// recording whether it was mid-task, and returns copies of the records
// it stopped in spawn order.
func (r *AgentRegistry) StopNonTerminal() []models.AgentRecord {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	var stopped []models.AgentRecord
	for _, id := range r.order {
		rec := r.agents[id]
		if rec.Status.Terminal() {
			continue
		}
		rec.Status = models.AgentStatusStopped
		rec.CanResume = rec.CurrentTask != ""
		rec.LastActivity = now
		stopped = append(stopped, copyRecord(rec))
	}
	return stopped
}

// Get returns a copy of one agent record.
func (r *AgentRegistry) Get(id string) (models.AgentRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.agents[id]
	if !ok {
		return models.AgentRecord{}, false
	}
	return copyRecord(rec), true
}

// Snapshot returns copies of all agent records keyed by id. Callers may
// inspect the copies freely; the registry's own records are untouched.
func (r *AgentRegistry) Snapshot() map[string]models.AgentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]models.AgentRecord, len(r.agents))
	for id, rec := range r.agents {
		out[id] = copyRecord(rec)
	}
	return out
}

// All returns copies of all agent records in spawn order.
func (r *AgentRegistry) All() []models.AgentRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.AgentRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, copyRecord(r.agents[id]))
	}
	return out
}

// Count returns the number of registered agents.
func (r *AgentRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// SortedIDs returns agent ids in lexical order. Validation walks agents
// in this order so "first failed agent" is deterministic.
func (r *AgentRegistry) SortedIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func copyRecord(rec *models.AgentRecord) models.AgentRecord {
	out := *rec
	if len(rec.Errors) > 0 {
		out.Errors = make([]models.AgentError, len(rec.Errors))
		copy(out.Errors, rec.Errors)
	}
	return out
}
