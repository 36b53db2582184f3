// Package worker defines the worker contract consumed by the execution
// engine, the kind-keyed factory that constructs workers, and the two
// built-in worker implementations (setup and feature).
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/genesis-agents/genesis/pkg/models"
)

// ErrUnknownKind reports a worker kind with no registered constructor.
// It is a structural error: the engine surfaces it before any task runs.
var ErrUnknownKind = errors.New("unknown worker kind")

// Worker is an asynchronous unit of work. The engine constructs one
// worker per task, calls Initialize once, then Execute with the task's
// payload. Errors from either call are recorded against the task; they
// never abort sibling tasks.
type Worker interface {
	// Initialize prepares the worker. It may fail when required
	// collaborators are unavailable.
	Initialize(ctx context.Context) error
	// Execute runs the task described by payload and returns the
	// worker-defined output record.
	Execute(ctx context.Context, payload map[string]any) (map[string]any, error)
}

// Constructor builds a fresh worker instance.
type Constructor func() Worker

// Factory maps worker kinds to constructors. Kinds are closed: anything
// not registered is rejected up front rather than at dispatch time.
type Factory struct {
	mu           sync.RWMutex
	constructors map[models.WorkerKind]Constructor
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{constructors: make(map[models.WorkerKind]Constructor)}
}

// Register binds a constructor to a kind, replacing any previous binding.
func (f *Factory) Register(kind models.WorkerKind, fn Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[kind] = fn
}

// Known reports whether a constructor is registered for the kind.
func (f *Factory) Known(kind models.WorkerKind) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.constructors[kind]
	return ok
}

// New constructs a worker for the kind.
func (f *Factory) New(kind models.WorkerKind) (Worker, error) {
	f.mu.RLock()
	fn, ok := f.constructors[kind]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownKind, kind, f.Kinds())
	}
	return fn(), nil
}

// Kinds returns the registered kinds in sorted order.
func (f *Factory) Kinds() []models.WorkerKind {
	f.mu.RLock()
	defer f.mu.RUnlock()
	kinds := make([]models.WorkerKind, 0, len(f.constructors))
	for k := range f.constructors {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
