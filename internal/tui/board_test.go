package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/genesis-agents/genesis/pkg/models"
)

// =============================================================================
// Board Tests
// =============================================================================

func TestNewBoard(t *testing.T) {
	board := NewBoard()

	if board == nil {
		t.Fatal("NewBoard returned nil")
	}
	if board.workers == nil {
		t.Error("expected workers grid to be initialized")
	}
	if board.events == nil {
		t.Error("expected event log to be initialized")
	}
	if board.footer == nil {
		t.Error("expected footer to be initialized")
	}
	if board.refresh != defaultRefreshRate {
		t.Errorf("expected default refresh rate, got %v", board.refresh)
	}
	if board.done {
		t.Error("expected done=false")
	}
}

func TestNewBoard_WithRefreshRate(t *testing.T) {
	board := NewBoard(WithRefreshRate(250 * time.Millisecond))

	if board.refresh != 250*time.Millisecond {
		t.Errorf("expected refresh=250ms, got %v", board.refresh)
	}

	// Non-positive rates keep the default.
	board = NewBoard(WithRefreshRate(0))
	if board.refresh != defaultRefreshRate {
		t.Errorf("expected default refresh rate for 0, got %v", board.refresh)
	}
}

func TestBoard_Update_QuitKey(t *testing.T) {
	board := NewBoard()

	model, cmd := board.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	updated := model.(*Board)

	if !updated.quitting {
		t.Error("expected quitting=true after 'q' key")
	}
	if cmd == nil {
		t.Error("expected quit command to be returned")
	}
	if !strings.Contains(updated.View(), "Run view closed") {
		t.Error("expected quitting view to say the view closed")
	}
}

func TestBoard_Update_StopKey(t *testing.T) {
	stopCalled := false
	board := NewBoard(WithStopFunc(func() {
		stopCalled = true
	}))

	model, _ := board.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	updated := model.(*Board)

	if !stopCalled {
		t.Error("expected stop callback to be invoked")
	}
	if !updated.Stopping() {
		t.Error("expected Stopping()=true after 's' key")
	}

	// A second press must not fire the callback again.
	stopCalled = false
	model, _ = updated.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	updated = model.(*Board)
	if stopCalled {
		t.Error("expected stop callback to fire only once")
	}
}

func TestBoard_Update_StopKeyAfterDone(t *testing.T) {
	stopCalled := false
	board := NewBoard(WithStopFunc(func() {
		stopCalled = true
	}))
	board.done = true

	board.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})

	if stopCalled {
		t.Error("expected stop key to be ignored once the run is done")
	}
}

func TestBoard_Update_WindowSizeMsg(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated := model.(*Board)

	if updated.width != 120 {
		t.Errorf("expected width=120, got %d", updated.width)
	}
	if updated.height != 40 {
		t.Errorf("expected height=40, got %d", updated.height)
	}
}

func TestBoard_Update_AgentsSnapshotMsg(t *testing.T) {
	board := NewBoard()
	now := time.Now()

	model, _ := board.Update(AgentsSnapshotMsg{
		Agents: []models.AgentRecord{
			{ID: "gsa-1", Kind: models.WorkerKindSetup, Status: models.AgentStatusCompleted, CreatedAt: now, LastActivity: now},
			{ID: "gfa-1", Kind: models.WorkerKindFeature, Status: models.AgentStatusExecuting, CurrentTask: "auth", CreatedAt: now},
		},
	})
	updated := model.(*Board)

	if updated.workers.WorkerCount() != 2 {
		t.Fatalf("expected 2 workers, got %d", updated.workers.WorkerCount())
	}

	output := updated.View()
	if !strings.Contains(output, "gsa-1") {
		t.Error("expected view to contain setup worker id")
	}
	if !strings.Contains(output, "gfa-1") {
		t.Error("expected view to contain feature worker id")
	}
	if !strings.Contains(output, "auth") {
		t.Error("expected view to contain the current task")
	}
}

func TestBoard_Update_RunLogMsg(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(RunLogMsg{
		Timestamp: time.Now(),
		Level:     LogLevelInfo,
		Message:   "resuming from previous session",
	})
	updated := model.(*Board)

	if updated.events.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", updated.events.Len())
	}
	if !strings.Contains(updated.View(), "resuming from previous session") {
		t.Error("expected view to contain log message")
	}
}

// =============================================================================
// Run Event Tests
// =============================================================================

func TestBoard_HandleRunEvent_PhaseStarted(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(RunEventMsg{Type: "phase_started", Phase: "Setup"})
	updated := model.(*Board)

	if updated.phase != "Setup" {
		t.Errorf("expected phase='Setup', got %q", updated.phase)
	}
	if !strings.Contains(updated.View(), "Setup") {
		t.Error("expected view to contain the phase name")
	}
}

func TestBoard_HandleRunEvent_FeatureCounts(t *testing.T) {
	board := NewBoard()
	board.SetFeaturesTotal(4)

	feed := []RunEventMsg{
		{Type: "phase_started", Phase: "Features"},
		{Type: "task_started", Phase: "Features", TaskID: "auth", AgentID: "gfa-1"},
		{Type: "task_started", Phase: "Features", TaskID: "billing", AgentID: "gfa-2"},
		{Type: "task_completed", Phase: "Features", TaskID: "auth", AgentID: "gfa-1"},
		{Type: "task_failed", Phase: "Features", TaskID: "billing", AgentID: "gfa-2", Error: "tracker unreachable"},
	}

	var model tea.Model = board
	for _, msg := range feed {
		model, _ = model.Update(msg)
	}
	updated := model.(*Board)

	if updated.counts.Done != 1 {
		t.Errorf("expected Done=1, got %d", updated.counts.Done)
	}
	if updated.counts.Failed != 1 {
		t.Errorf("expected Failed=1, got %d", updated.counts.Failed)
	}
	if updated.counts.Running != 0 {
		t.Errorf("expected Running=0, got %d", updated.counts.Running)
	}

	output := updated.View()
	if !strings.Contains(output, "1/4 complete (25%)") {
		t.Errorf("expected progress line '1/4 complete (25%%)', got:\n%s", output)
	}
	if !strings.Contains(output, "1 failed") {
		t.Error("expected progress line to show failures")
	}
}

func TestBoard_HandleRunEvent_SetupTasksDoNotCount(t *testing.T) {
	board := NewBoard()
	board.SetFeaturesTotal(2)

	feed := []RunEventMsg{
		{Type: "task_started", Phase: "Setup", TaskID: "setup", AgentID: "gsa-1"},
		{Type: "task_completed", Phase: "Setup", TaskID: "setup", AgentID: "gsa-1"},
	}

	var model tea.Model = board
	for _, msg := range feed {
		model, _ = model.Update(msg)
	}
	updated := model.(*Board)

	if updated.counts.Done != 0 {
		t.Errorf("expected setup completion to not count as a feature, got Done=%d", updated.counts.Done)
	}
}

func TestBoard_HandleRunEvent_EmergencyStop(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(RunEventMsg{Type: "emergency_stop", Message: "stop requested"})
	updated := model.(*Board)

	if !updated.Stopping() {
		t.Error("expected Stopping()=true after emergency_stop event")
	}
	if !strings.Contains(updated.View(), "stopping...") {
		t.Error("expected footer to show stopping state")
	}
}

func TestBoard_HandleRunEvent_ErrorGoesToLog(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(RunEventMsg{
		Type:    "task_failed",
		Phase:   "Features",
		TaskID:  "billing",
		AgentID: "gfa-2",
		Error:   "issue transition rejected",
	})
	updated := model.(*Board)

	output := updated.View()
	if !strings.Contains(output, "task billing failed: issue transition rejected") {
		t.Errorf("expected failure detail in activity log, got:\n%s", output)
	}
}

func TestEventMessage_Synthesis(t *testing.T) {
	tests := []struct {
		name string
		msg  RunEventMsg
		want string
	}{
		{"explicit message wins", RunEventMsg{Type: "task_started", Message: "spawned gfa-1"}, "spawned gfa-1"},
		{"error wins over message", RunEventMsg{Type: "task_failed", TaskID: "auth", Message: "x", Error: "boom"}, "task auth failed: boom"},
		{"error without task", RunEventMsg{Type: "run_completed", Error: "boom"}, "boom"},
		{"run started", RunEventMsg{Type: "run_started"}, "run started"},
		{"phase started", RunEventMsg{Type: "phase_started", Phase: "Features"}, "phase Features started"},
		{"phase completed", RunEventMsg{Type: "phase_completed", Phase: "Setup"}, "phase Setup completed"},
		{"task started", RunEventMsg{Type: "task_started", TaskID: "auth"}, "task auth started"},
		{"task completed", RunEventMsg{Type: "task_completed", TaskID: "auth"}, "task auth completed"},
		{"task failed", RunEventMsg{Type: "task_failed", TaskID: "auth"}, "task auth failed"},
		{"run completed", RunEventMsg{Type: "run_completed"}, "run completed"},
		{"emergency stop", RunEventMsg{Type: "emergency_stop"}, "emergency stop"},
		{"unknown type passes through", RunEventMsg{Type: "checkpoint"}, "checkpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eventMessage(tt.msg); got != tt.want {
				t.Errorf("eventMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Run Done Tests
// =============================================================================

func TestBoard_Update_RunDoneMsg_Passed(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(RunDoneMsg{
		Report: models.ValidationReport{
			ProjectCreated:     true,
			FeaturesCompleted:  3,
			AllAgentsSucceeded: true,
		},
		Metrics: models.RunMetrics{
			EstimatedSequentialSeconds: 120,
			ActualSeconds:              48,
			Speedup:                    2.5,
			FeaturesCompleted:          3,
			AgentsSpawned:              4,
		},
	})
	updated := model.(*Board)

	if !updated.Done() {
		t.Error("expected Done()=true")
	}

	output := updated.View()
	expectedStrings := []string{
		"PASSED",
		"created",
		"3 completed",
		"4 spawned",
		"2.50x vs sequential estimate",
		"Press q to exit",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("expected done view to contain %q", expected)
		}
	}
}

func TestBoard_Update_RunDoneMsg_Failed(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(RunDoneMsg{
		Report: models.ValidationReport{
			ProjectCreated:     true,
			FeaturesCompleted:  0,
			AllAgentsSucceeded: false,
			FailedAgent:        "gfa-2",
		},
		Metrics: models.RunMetrics{AgentsSpawned: 3, Speedup: 1.0},
	})
	updated := model.(*Board)

	output := updated.View()
	if !strings.Contains(output, "FAILED") {
		t.Error("expected done view to contain 'FAILED'")
	}
	if !strings.Contains(output, "first failure: gfa-2") {
		t.Error("expected done view to name the first failed agent")
	}
}

func TestBoard_Update_RunDoneMsg_Stopped(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(RunDoneMsg{
		Report:  models.ValidationReport{ProjectCreated: true, FeaturesCompleted: 1},
		Metrics: models.RunMetrics{AgentsSpawned: 2, Speedup: 1.0},
		Stopped: true,
	})
	updated := model.(*Board)

	if !strings.Contains(updated.View(), "stopped early") {
		t.Error("expected done view to flag the early stop")
	}
}

func TestBoard_Update_RunDoneMsg_WithError(t *testing.T) {
	board := NewBoard()

	model, _ := board.Update(RunDoneMsg{
		Err: errors.New("tracker unreachable"),
	})
	updated := model.(*Board)

	output := updated.View()
	if !strings.Contains(output, "Run error") {
		t.Error("expected done view to contain 'Run error'")
	}
	if !strings.Contains(output, "tracker unreachable") {
		t.Error("expected done view to contain the error message")
	}
}

func TestBoard_Update_TickStopsWhenDone(t *testing.T) {
	board := NewBoard()
	board.done = true

	_, cmd := board.Update(tickMsg(time.Now()))
	if cmd != nil {
		t.Error("expected no re-armed tick after the run is done")
	}
}

// =============================================================================
// View Tests
// =============================================================================

func TestBoard_View_Title(t *testing.T) {
	board := NewBoard()
	board.SetProject("my-saas-app", models.ProjectTypeSaaSApp)

	output := board.View()

	if !strings.Contains(output, "Genesis Run") {
		t.Error("expected view to contain the board title")
	}
	if !strings.Contains(output, "my-saas-app") {
		t.Error("expected view to contain the project name")
	}
	if !strings.Contains(output, "saas_app") {
		t.Error("expected view to contain the project type")
	}
}

func TestBoard_View_EmptyState(t *testing.T) {
	board := NewBoard()

	output := board.View()

	if !strings.Contains(output, "No workers spawned yet") {
		t.Error("expected empty worker grid message")
	}
	if !strings.Contains(output, "waiting for events...") {
		t.Error("expected empty activity log message")
	}
	if !strings.Contains(output, "s stop") {
		t.Error("expected keyboard hints during an active run")
	}
}

func TestBoard_RenderProgressBar(t *testing.T) {
	board := NewBoard()

	tests := []struct {
		name    string
		pct     float64
		width   int
		wantPct string
	}{
		{"negative percent", -10, 30, "0%"},
		{"zero percent", 0, 30, "0%"},
		{"fifty percent", 50, 30, "50%"},
		{"hundred percent", 100, 30, "100%"},
		{"over hundred percent", 150, 30, "100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := board.renderProgressBar(tt.pct, tt.width)
			if !strings.Contains(result, tt.wantPct) {
				t.Errorf("renderProgressBar(%v, %d) = %q, want to contain %q",
					tt.pct, tt.width, result, tt.wantPct)
			}
		})
	}
}

func TestBoard_View_ProgressBarFillsOnCompletion(t *testing.T) {
	board := NewBoard()
	board.SetFeaturesTotal(2)

	feed := []RunEventMsg{
		{Type: "task_completed", Phase: "Features", TaskID: "auth"},
		{Type: "task_completed", Phase: "Features", TaskID: "billing"},
	}
	var model tea.Model = board
	for _, msg := range feed {
		model, _ = model.Update(msg)
	}
	updated := model.(*Board)

	output := updated.View()
	if !strings.Contains(output, "100%") {
		t.Error("expected progress to reach 100%")
	}
	if !strings.Contains(output, strings.Repeat("█", 30)) {
		t.Error("expected a fully filled progress bar")
	}
}

// =============================================================================
// Program Constructor Tests
// =============================================================================

func TestNewRunProgram(t *testing.T) {
	program, board := NewRunProgram()

	if program == nil {
		t.Error("expected program to not be nil")
	}
	if board == nil {
		t.Fatal("expected board to not be nil")
	}
	if board.workers == nil {
		t.Error("expected board workers to be initialized")
	}
}

// =============================================================================
// Integration-style Tests
// =============================================================================

func TestBoard_FullRunWorkflow(t *testing.T) {
	board := NewBoard()
	board.SetProject("acme", models.ProjectTypeLandingPage)
	board.SetFeaturesTotal(2)
	now := time.Now()

	feed := []tea.Msg{
		RunEventMsg{Type: "run_started", Timestamp: now},
		RunEventMsg{Type: "phase_started", Phase: "Setup", Timestamp: now},
		RunEventMsg{Type: "task_started", Phase: "Setup", TaskID: "setup", AgentID: "gsa-1"},
		AgentsSnapshotMsg{Agents: []models.AgentRecord{
			{ID: "gsa-1", Kind: models.WorkerKindSetup, Status: models.AgentStatusExecuting, CurrentTask: "setup", CreatedAt: now},
		}},
		RunEventMsg{Type: "task_completed", Phase: "Setup", TaskID: "setup", AgentID: "gsa-1"},
		RunEventMsg{Type: "phase_completed", Phase: "Setup"},
		RunEventMsg{Type: "phase_started", Phase: "Features"},
		RunEventMsg{Type: "task_started", Phase: "Features", TaskID: "auth", AgentID: "gfa-1"},
		RunEventMsg{Type: "task_started", Phase: "Features", TaskID: "billing", AgentID: "gfa-2"},
		RunEventMsg{Type: "task_completed", Phase: "Features", TaskID: "auth", AgentID: "gfa-1"},
		RunEventMsg{Type: "task_completed", Phase: "Features", TaskID: "billing", AgentID: "gfa-2"},
		RunEventMsg{Type: "phase_completed", Phase: "Features"},
		RunEventMsg{Type: "run_completed"},
		RunDoneMsg{
			Report:  models.ValidationReport{ProjectCreated: true, FeaturesCompleted: 2, AllAgentsSucceeded: true},
			Metrics: models.RunMetrics{EstimatedSequentialSeconds: 60, ActualSeconds: 30, Speedup: 2.0, FeaturesCompleted: 2, AgentsSpawned: 3},
		},
	}

	var model tea.Model = board
	for _, msg := range feed {
		model, _ = model.Update(msg)
	}
	updated := model.(*Board)

	if !updated.Done() {
		t.Error("expected Done()=true at end of workflow")
	}
	if updated.counts.Done != 2 {
		t.Errorf("expected 2 features done, got %d", updated.counts.Done)
	}

	output := updated.View()
	if !strings.Contains(output, "PASSED") {
		t.Error("expected final view to contain 'PASSED'")
	}
	if !strings.Contains(output, "2/2 complete (100%)") {
		t.Error("expected final view to show full completion")
	}
}
