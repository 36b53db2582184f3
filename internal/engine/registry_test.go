package engine

import (
	"testing"
	"time"

	"github.com/genesis-agents/genesis/pkg/models"
)

func TestRegistryTracksTaskLifecycle(t *testing.T) {
	r := NewAgentRegistry()
	r.Register("gsa-1", models.WorkerKindSetup)

	rec, ok := r.Get("gsa-1")
	if !ok {
		t.Fatal("registered agent not found")
	}
	if rec.Status != models.AgentStatusIdle {
		t.Errorf("fresh agent status = %q, want idle", rec.Status)
	}

	r.TrackTaskStart("gsa-1", "Project Setup")
	rec, _ = r.Get("gsa-1")
	if rec.Status != models.AgentStatusExecuting {
		t.Errorf("status after start = %q, want executing", rec.Status)
	}
	if rec.CurrentTask != "Project Setup" {
		t.Errorf("CurrentTask = %q, want %q", rec.CurrentTask, "Project Setup")
	}
	if rec.Metrics.TasksExecuted != 1 {
		t.Errorf("TasksExecuted = %d, want 1", rec.Metrics.TasksExecuted)
	}

	r.TrackTaskComplete("gsa-1", true, 1500*time.Millisecond)
	rec, _ = r.Get("gsa-1")
	if rec.Status != models.AgentStatusCompleted {
		t.Errorf("status after complete = %q, want completed", rec.Status)
	}
	if rec.CurrentTask != "" {
		t.Errorf("CurrentTask = %q, want cleared", rec.CurrentTask)
	}
	if rec.Metrics.TasksSucceeded != 1 {
		t.Errorf("TasksSucceeded = %d, want 1", rec.Metrics.TasksSucceeded)
	}
	if rec.Metrics.TotalDurationSeconds != 1.5 {
		t.Errorf("TotalDurationSeconds = %v, want 1.5", rec.Metrics.TotalDurationSeconds)
	}
}

func TestRegistryRecordsFailures(t *testing.T) {
	r := NewAgentRegistry()
	r.Register("gfa-2", models.WorkerKindFeature)
	r.TrackTaskStart("gfa-2", "Feature: auth")
	r.TrackTaskComplete("gfa-2", false, time.Second)
	r.AppendError("gfa-2", "task blew up", map[string]any{"task_id": "feature-1"})

	rec, _ := r.Get("gfa-2")
	if rec.Status != models.AgentStatusError {
		t.Errorf("status = %q, want error", rec.Status)
	}
	if rec.Metrics.TasksFailed != 1 {
		t.Errorf("TasksFailed = %d, want 1", rec.Metrics.TasksFailed)
	}
	if len(rec.Errors) != 1 {
		t.Fatalf("error log has %d entries, want 1", len(rec.Errors))
	}
	if rec.Errors[0].Message != "task blew up" {
		t.Errorf("error message = %q, want %q", rec.Errors[0].Message, "task blew up")
	}
	if rec.Errors[0].Context["task_id"] != "feature-1" {
		t.Errorf("error context = %v, want task_id feature-1", rec.Errors[0].Context)
	}
}

func TestRegistryStopNonTerminal(t *testing.T) {
	r := NewAgentRegistry()
	r.Register("gsa-1", models.WorkerKindSetup)
	r.TrackTaskStart("gsa-1", "Project Setup")
	r.TrackTaskComplete("gsa-1", true, time.Second)

	r.Register("gfa-2", models.WorkerKindFeature)
	r.TrackTaskStart("gfa-2", "Feature: auth")

	r.Register("gfa-3", models.WorkerKindFeature)

	stopped := r.StopNonTerminal()
	if len(stopped) != 2 {
		t.Fatalf("stopped %d agents, want 2 (the completed one is terminal)", len(stopped))
	}
	if stopped[0].ID != "gfa-2" || stopped[1].ID != "gfa-3" {
		t.Errorf("stopped order = [%s %s], want spawn order [gfa-2 gfa-3]", stopped[0].ID, stopped[1].ID)
	}
	if !stopped[0].CanResume {
		t.Error("gfa-2 was mid-task, should be resumable")
	}
	if stopped[1].CanResume {
		t.Error("gfa-3 was idle, should not be resumable")
	}

	if rec, _ := r.Get("gsa-1"); rec.Status != models.AgentStatusCompleted {
		t.Errorf("terminal agent status = %q, want untouched completed", rec.Status)
	}

	// A second stop finds nothing left to transition.
	if again := r.StopNonTerminal(); len(again) != 0 {
		t.Errorf("second stop transitioned %d agents, want 0", len(again))
	}
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	r := NewAgentRegistry()
	r.Register("gfa-2", models.WorkerKindFeature)
	r.AppendError("gfa-2", "first", nil)

	snap := r.Snapshot()
	rec := snap["gfa-2"]
	rec.Status = models.AgentStatusError
	rec.Errors[0].Message = "mutated"

	fresh, _ := r.Get("gfa-2")
	if fresh.Status != models.AgentStatusIdle {
		t.Errorf("registry status = %q after snapshot mutation, want idle", fresh.Status)
	}
	if fresh.Errors[0].Message != "first" {
		t.Errorf("registry error = %q after snapshot mutation, want %q", fresh.Errors[0].Message, "first")
	}
}

func TestRegistrySortedIDs(t *testing.T) {
	r := NewAgentRegistry()
	for _, id := range []string{"gfa-3", "gsa-1", "gfa-2"} {
		r.Register(id, models.WorkerKindFeature)
	}
	ids := r.SortedIDs()
	want := []string{"gfa-2", "gfa-3", "gsa-1"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("SortedIDs() = %v, want %v", ids, want)
		}
	}
	if r.Count() != 3 {
		t.Errorf("Count() = %d, want 3", r.Count())
	}
}
