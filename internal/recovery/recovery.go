// Package recovery classifies run failures, attempts registered
// recovery strategies, and escalates what it cannot fix. The engine
// swallows feature failures into task results; this package is how the
// CLI turns those failures into retries or a readable escalation.
package recovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/genesis-agents/genesis/internal/planner"
	"github.com/genesis-agents/genesis/internal/tracker"
	"github.com/genesis-agents/genesis/internal/worker"
)

// Class buckets an error by what kind of fix it needs.
type Class string

const (
	// ClassTimeout covers deadline and cancellation failures. Usually
	// transient.
	ClassTimeout Class = "timeout"
	// ClassTransport covers network and tracker availability failures.
	ClassTransport Class = "transport"
	// ClassValidation covers malformed specs and payloads. Retrying
	// cannot help.
	ClassValidation Class = "validation"
	// ClassUnknown is everything the rules do not recognize.
	ClassUnknown Class = "unknown"
)

// Retryable reports whether errors of this class are worth retrying.
func (c Class) Retryable() bool {
	return c == ClassTimeout || c == ClassTransport
}

// Strategy attempts to recover from a classified error. A nil return
// means the recovery worked and the operation may proceed.
type Strategy func(ctx context.Context, err error) error

// rule maps an error-message fragment to a class. First match wins.
type rule struct {
	class  Class
	needle string
}

// Incident is one handled error and what became of it.
type Incident struct {
	// Timestamp is when the error was handled.
	Timestamp time.Time `json:"timestamp"`
	// Class is the classification the rules assigned.
	Class Class `json:"class"`
	// Message is the error text.
	Message string `json:"message"`
	// Details carries caller context (task id, phase, agent).
	Details map[string]interface{} `json:"details,omitempty"`
	// Recovered is true when a strategy cleared the error.
	Recovered bool `json:"recovered"`
	// RecoveryFailure holds the strategy's own error when it failed.
	RecoveryFailure string `json:"recovery_failure,omitempty"`
	// Escalated is true when no strategy could clear the error.
	Escalated bool `json:"escalated,omitempty"`
	// Escalation is the human-readable handoff message.
	Escalation string `json:"escalation,omitempty"`
}

// Stats summarizes the handled errors of a run.
type Stats struct {
	// TotalErrors is the number of incidents handled.
	TotalErrors int `json:"total_errors"`
	// Recovered is how many incidents a strategy cleared.
	Recovered int `json:"recovered"`
	// RecoveryRate is Recovered / TotalErrors, 0 with no incidents.
	RecoveryRate float64 `json:"recovery_rate"`
	// ByClass counts incidents per classification.
	ByClass map[Class]int `json:"by_class"`
}

// System classifies errors, runs recovery strategies, and keeps the
// incident history. Safe for concurrent use.
type System struct {
	mu         sync.Mutex
	rules      []rule
	strategies map[Class]Strategy
	history    []Incident

	debugLog func(format string, args ...interface{})
}

// Option configures a System.
type Option func(*System)

// WithDebugLog sets the debug logger. Defaults to a no-op.
func WithDebugLog(fn func(format string, args ...interface{})) Option {
	return func(s *System) {
		if fn != nil {
			s.debugLog = fn
		}
	}
}

// NewSystem builds a System with the default classification rules
// loaded. Strategies start empty; register them per class.
func NewSystem(opts ...Option) *System {
	s := &System{
		rules: []rule{
			{ClassTimeout, "timeout"},
			{ClassTimeout, "deadline"},
			{ClassTransport, "connection refused"},
			{ClassTransport, "connection reset"},
			{ClassTransport, "no such host"},
			{ClassTransport, "broken pipe"},
			{ClassValidation, "invalid"},
			{ClassValidation, "missing"},
			{ClassValidation, "malformed"},
		},
		strategies: make(map[Class]Strategy),
		debugLog:   func(format string, args ...interface{}) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRule adds a message-fragment rule. Later rules lose to
// earlier ones, so callers can only refine what the defaults miss.
func (s *System) RegisterRule(class Class, needle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = append(s.rules, rule{class: class, needle: strings.ToLower(needle)})
}

// RegisterStrategy sets the recovery strategy for a class, replacing
// any previous one.
func (s *System) RegisterStrategy(class Class, fn Strategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies[class] = fn
}

// Classify assigns a class to an error. Structural sentinels and
// tracker status codes are checked before the message rules.
func (s *System) Classify(err error) Class {
	if err == nil {
		return ClassUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ClassTimeout
	}
	if errors.Is(err, planner.ErrInvalidSpec) || errors.Is(err, worker.ErrUnknownKind) {
		return ClassValidation
	}
	var statusErr *tracker.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode >= 500 {
			return ClassTransport
		}
		return ClassValidation
	}

	msg := strings.ToLower(err.Error())
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rules {
		if strings.Contains(msg, r.needle) {
			return r.class
		}
	}
	return ClassUnknown
}

// Handle classifies the error, runs the class strategy if one is
// registered, and records the incident. Errors no strategy clears are
// marked escalated with a handoff message.
func (s *System) Handle(ctx context.Context, err error, details map[string]interface{}) Incident {
	incident := Incident{
		Timestamp: time.Now(),
		Class:     s.Classify(err),
		Message:   err.Error(),
		Details:   details,
	}

	s.mu.Lock()
	strategy := s.strategies[incident.Class]
	s.mu.Unlock()

	if strategy != nil {
		if recoveryErr := strategy(ctx, err); recoveryErr == nil {
			incident.Recovered = true
			s.debugLog("[recovery] recovered %s error: %v", incident.Class, err)
		} else {
			incident.RecoveryFailure = recoveryErr.Error()
			s.debugLog("[recovery] %s strategy failed: %v", incident.Class, recoveryErr)
		}
	}

	if !incident.Recovered {
		incident.Escalated = true
		incident.Escalation = s.escalation(incident)
	}

	s.mu.Lock()
	s.history = append(s.history, incident)
	s.mu.Unlock()
	return incident
}

// escalation formats the handoff message for an unrecovered incident.
func (s *System) escalation(incident Incident) string {
	s.mu.Lock()
	seen := len(s.history)
	s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Error requires human intervention:\n\n")
	fmt.Fprintf(&b, "Class: %s\nMessage: %s\n", incident.Class, incident.Message)
	if len(incident.Details) > 0 {
		fmt.Fprintf(&b, "\nContext:\n")
		keys := make([]string, 0, len(incident.Details))
		for k := range incident.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  %s: %v\n", k, incident.Details[k])
		}
	}
	fmt.Fprintf(&b, "\nRecent errors: %d total\n", seen+1)
	fmt.Fprintf(&b, "Please review and provide guidance for recovery.\n")
	return b.String()
}

// History returns a copy of the handled incidents, oldest first.
func (s *System) History() []Incident {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Incident, len(s.history))
	copy(out, s.history)
	return out
}

// Stats folds the incident history into counters.
func (s *System) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		TotalErrors: len(s.history),
		ByClass:     make(map[Class]int),
	}
	for _, incident := range s.history {
		stats.ByClass[incident.Class]++
		if incident.Recovered {
			stats.Recovered++
		}
	}
	if stats.TotalErrors > 0 {
		stats.RecoveryRate = float64(stats.Recovered) / float64(stats.TotalErrors)
	}
	return stats
}
