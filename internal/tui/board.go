package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/genesis-agents/genesis/pkg/models"
)

// RunEventMsg mirrors an engine event for the run board.
type RunEventMsg struct {
	Type      string
	Phase     string
	TaskID    string
	AgentID   string
	Message   string
	Error     string
	Timestamp time.Time
}

// AgentsSnapshotMsg replaces the board's worker records wholesale.
type AgentsSnapshotMsg struct {
	Agents []models.AgentRecord
}

// RunDoneMsg signals that the run has finished.
type RunDoneMsg struct {
	Report  models.ValidationReport
	Metrics models.RunMetrics
	Stopped bool
	Err     error
}

// RunLogMsg adds an entry to the activity log.
type RunLogMsg struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
}

// tickMsg drives duration refresh while the run is active.
type tickMsg time.Time

// defaultRefreshRate is used when no refresh rate option is given.
const defaultRefreshRate = 100 * time.Millisecond

// Board is the main bubbletea model for the run command TUI.
type Board struct {
	project       string
	projectType   string
	phase         string
	featuresTotal int

	workers *WorkerGrid
	events  *EventLog
	footer  *Footer

	width  int
	height int

	refresh  time.Duration
	stopFunc func()

	quitting bool
	stopping bool
	done     bool
	report   models.ValidationReport
	metrics  models.RunMetrics
	stopped  bool
	runErr   error

	counts FeatureCounts

	// Styles
	titleStyle    lipgloss.Style
	labelStyle    lipgloss.Style
	valueStyle    lipgloss.Style
	phaseStyle    lipgloss.Style
	progressFull  lipgloss.Style
	progressEmpty lipgloss.Style
	passStyle     lipgloss.Style
	failStyle     lipgloss.Style
	summaryBox    lipgloss.Style
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithStopFunc sets the callback invoked when the user requests a stop.
func WithStopFunc(fn func()) BoardOption {
	return func(b *Board) {
		b.stopFunc = fn
	}
}

// WithRefreshRate sets how often the board re-renders elapsed durations.
func WithRefreshRate(d time.Duration) BoardOption {
	return func(b *Board) {
		if d > 0 {
			b.refresh = d
		}
	}
}

// NewBoard creates a new Board instance.
func NewBoard(opts ...BoardOption) *Board {
	b := &Board{
		workers: NewWorkerGrid(),
		events:  NewEventLog(),
		footer:  NewFooter(),
		refresh: defaultRefreshRate,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),

		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(14),

		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),

		phaseStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),

		progressFull: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		progressEmpty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		passStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),

		failStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		summaryBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetProject sets the project shown in the title line.
func (b *Board) SetProject(name string, projectType models.ProjectType) {
	b.project = name
	b.projectType = string(projectType)
}

// SetFeaturesTotal sets the denominator for the progress bar.
func (b *Board) SetFeaturesTotal(n int) {
	b.featuresTotal = n
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return b.tick()
}

// tick arms the next duration refresh.
func (b *Board) tick() tea.Cmd {
	return tea.Tick(b.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			b.quitting = true
			return b, tea.Quit
		case "s":
			if !b.done && !b.stopping {
				b.requestStop()
			}
			return b, nil
		}
		var cmd tea.Cmd
		b.workers, cmd = b.workers.Update(msg)
		return b, cmd

	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.footer.SetWidth(msg.Width)
		var cmd tea.Cmd
		b.workers, cmd = b.workers.Update(msg)
		return b, cmd

	case tickMsg:
		if b.done {
			return b, nil
		}
		return b, b.tick()

	case RunEventMsg:
		b.handleRunEvent(msg)

	case AgentsSnapshotMsg:
		b.workers.SetAgents(msg.Agents)

	case RunLogMsg:
		b.events.Add(EventEntry{
			Timestamp: msg.Timestamp,
			Level:     msg.Level,
			Message:   msg.Message,
		})

	case RunDoneMsg:
		b.done = true
		b.report = msg.Report
		b.metrics = msg.Metrics
		b.stopped = msg.Stopped
		b.runErr = msg.Err
		b.footer.SetStopping(false)
		if msg.Err != nil {
			b.footer.SetRunDone(false, msg.Err.Error())
		} else if msg.Report.Passed() {
			b.footer.SetRunDone(true, "run passed validation")
		} else {
			b.footer.SetRunDone(false, "run failed validation")
		}
	}

	return b, nil
}

// requestStop invokes the stop callback and records the request.
func (b *Board) requestStop() {
	b.stopping = true
	b.footer.SetStopping(true)
	b.events.Add(EventEntry{
		Timestamp: time.Now(),
		Level:     LogLevelWarn,
		Message:   "emergency stop requested",
	})
	if b.stopFunc != nil {
		b.stopFunc()
	}
}

// handleRunEvent updates board state from a forwarded engine event.
func (b *Board) handleRunEvent(msg RunEventMsg) {
	level := LogLevelInfo
	if msg.Error != "" {
		level = LogLevelError
	}

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	b.events.Add(EventEntry{
		Timestamp: ts,
		Level:     level,
		AgentID:   msg.AgentID,
		Message:   eventMessage(msg),
	})

	switch msg.Type {
	case "phase_started":
		b.phase = msg.Phase
	case "task_started":
		if msg.Phase == "Features" {
			b.counts.Running++
		}
	case "task_completed":
		if msg.Phase == "Features" {
			b.counts.Done++
			if b.counts.Running > 0 {
				b.counts.Running--
			}
		}
	case "task_failed":
		if msg.Phase == "Features" {
			b.counts.Failed++
			if b.counts.Running > 0 {
				b.counts.Running--
			}
		}
	case "emergency_stop":
		b.stopping = true
		b.footer.SetStopping(true)
	}
	b.footer.SetFeatureCounts(b.counts)
}

// eventMessage derives a log line from an event, synthesizing one when
// the event carries no message of its own.
func eventMessage(msg RunEventMsg) string {
	if msg.Error != "" {
		if msg.TaskID != "" {
			return fmt.Sprintf("task %s failed: %s", msg.TaskID, msg.Error)
		}
		return msg.Error
	}
	if msg.Message != "" {
		return msg.Message
	}
	switch msg.Type {
	case "run_started":
		return "run started"
	case "phase_started":
		return fmt.Sprintf("phase %s started", msg.Phase)
	case "phase_completed":
		return fmt.Sprintf("phase %s completed", msg.Phase)
	case "task_started":
		return fmt.Sprintf("task %s started", msg.TaskID)
	case "task_completed":
		return fmt.Sprintf("task %s completed", msg.TaskID)
	case "task_failed":
		return fmt.Sprintf("task %s failed", msg.TaskID)
	case "run_completed":
		return "run completed"
	case "emergency_stop":
		return "emergency stop"
	default:
		return msg.Type
	}
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.quitting {
		return "Run view closed.\n"
	}

	var s strings.Builder

	s.WriteString(b.viewTitle())
	s.WriteString("\n\n")
	s.WriteString(b.viewProgress())
	s.WriteString("\n\n")
	s.WriteString(b.workers.View())
	s.WriteString("\n")
	s.WriteString(b.events.View())
	s.WriteString("\n\n")
	if b.done {
		s.WriteString(b.viewSummary())
		s.WriteString("\n")
	}
	s.WriteString(b.footer.View())
	s.WriteString("\n")

	return s.String()
}

// viewTitle renders the title line with project info and current phase.
func (b *Board) viewTitle() string {
	title := b.titleStyle.Render("=== Genesis Run ===")
	if b.project != "" {
		title += "  " + b.valueStyle.Render(b.project)
		if b.projectType != "" {
			title += " " + b.labelStyle.Render("("+b.projectType+")")
		}
	}
	if b.phase != "" {
		title += "  " + b.phaseStyle.Render(b.phase)
	}
	return title
}

// viewProgress renders feature completion progress.
func (b *Board) viewProgress() string {
	var s strings.Builder

	pct := float64(0)
	if b.featuresTotal > 0 {
		pct = float64(b.counts.Done) / float64(b.featuresTotal) * 100
	}
	featureStr := fmt.Sprintf("%d/%d complete (%.0f%%)", b.counts.Done, b.featuresTotal, pct)
	if b.counts.Failed > 0 {
		featureStr += b.failStyle.Render(fmt.Sprintf("  %d failed", b.counts.Failed))
	}

	s.WriteString(b.labelStyle.Render("Features:"))
	s.WriteString(b.valueStyle.Render(featureStr))
	s.WriteString("\n")
	s.WriteString(b.renderProgressBar(pct, 30))

	return s.String()
}

// renderProgressBar renders a progress bar.
func (b *Board) renderProgressBar(pct float64, width int) string {
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}

	filled := int(pct / 100 * float64(width))
	empty := width - filled

	bar := b.progressFull.Render(strings.Repeat("█", filled)) +
		b.progressEmpty.Render(strings.Repeat("░", empty))

	return fmt.Sprintf("  %s %.0f%%", bar, pct)
}

// viewSummary renders the final validation and metrics block.
func (b *Board) viewSummary() string {
	var s strings.Builder

	if b.runErr != nil {
		s.WriteString(b.failStyle.Render("✗ Run error: " + b.runErr.Error()))
		return b.summaryBox.Render(s.String())
	}

	if b.report.Passed() {
		s.WriteString(b.passStyle.Render("✓ PASSED"))
	} else {
		s.WriteString(b.failStyle.Render("✗ FAILED"))
	}
	if b.stopped {
		s.WriteString(b.failStyle.Render("  (stopped early)"))
	}
	s.WriteString("\n")

	s.WriteString(b.labelStyle.Render("Project:"))
	if b.report.ProjectCreated {
		s.WriteString(b.valueStyle.Render("created"))
	} else {
		s.WriteString(b.failStyle.Render("not created"))
	}
	s.WriteString("\n")

	s.WriteString(b.labelStyle.Render("Features:"))
	s.WriteString(b.valueStyle.Render(fmt.Sprintf("%d completed", b.report.FeaturesCompleted)))
	s.WriteString("\n")

	s.WriteString(b.labelStyle.Render("Agents:"))
	agentsStr := fmt.Sprintf("%d spawned", b.metrics.AgentsSpawned)
	if !b.report.AllAgentsSucceeded && b.report.FailedAgent != "" {
		agentsStr += b.failStyle.Render(fmt.Sprintf("  first failure: %s", b.report.FailedAgent))
	}
	s.WriteString(b.valueStyle.Render(agentsStr))
	s.WriteString("\n")

	s.WriteString(b.labelStyle.Render("Duration:"))
	s.WriteString(b.valueStyle.Render(formatDuration(time.Duration(b.metrics.ActualSeconds * float64(time.Second)))))
	s.WriteString("\n")

	s.WriteString(b.labelStyle.Render("Speedup:"))
	s.WriteString(b.valueStyle.Render(fmt.Sprintf("%.2fx vs sequential estimate", b.metrics.Speedup)))

	return b.summaryBox.Render(s.String())
}

// Done reports whether the run has finished.
func (b *Board) Done() bool {
	return b.done
}

// Stopping reports whether a stop has been requested.
func (b *Board) Stopping() bool {
	return b.stopping
}

// NewRunProgram creates a new Bubbletea program for the run board.
// The returned program can receive messages via Send().
func NewRunProgram(opts ...BoardOption) (*tea.Program, *Board) {
	board := NewBoard(opts...)
	p := tea.NewProgram(board, tea.WithAltScreen())
	return p, board
}
