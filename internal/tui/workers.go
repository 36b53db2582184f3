package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/genesis-agents/genesis/pkg/models"
)

// Status icons for worker states.
const (
	iconExecuting = "[●]"
	iconWaiting   = "[◐]"
	iconDone      = "[✓]"
	iconFailed    = "[✗]"
	iconStopped   = "[◌]"
	iconIdle      = "[○]"
)

// WorkerGrid displays the run's spawned workers with status information.
type WorkerGrid struct {
	workers  []models.AgentRecord
	selected int
	width    int
	height   int

	// Styles
	headerStyle     lipgloss.Style
	rowStyle        lipgloss.Style
	selectedStyle   lipgloss.Style
	statusExecuting lipgloss.Style
	statusWaiting   lipgloss.Style
	statusDone      lipgloss.Style
	statusFailed    lipgloss.Style
	statusStopped   lipgloss.Style
	statusIdle      lipgloss.Style
	emptyStyle      lipgloss.Style
}

// NewWorkerGrid creates a new WorkerGrid instance.
func NewWorkerGrid() *WorkerGrid {
	return &WorkerGrid{
		workers:  make([]models.AgentRecord, 0),
		selected: 0,

		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("7")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(lipgloss.Color("240")),

		rowStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),

		selectedStyle: lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Bold(true),

		statusExecuting: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")), // Green

		statusWaiting: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Orange

		statusDone: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")), // Dark green

		statusFailed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red

		statusStopped: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")), // Gray

		statusIdle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")), // Gray

		emptyStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true),
	}
}

// Update handles input messages.
func (g *WorkerGrid) Update(msg tea.Msg) (*WorkerGrid, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if g.selected > 0 {
				g.selected--
			}
		case "down", "j":
			if g.selected < len(g.workers)-1 {
				g.selected++
			}
		}

	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
	}

	return g, nil
}

// View renders the worker grid.
func (g *WorkerGrid) View() string {
	if len(g.workers) == 0 {
		return g.emptyStyle.Render("No workers spawned yet")
	}

	var b strings.Builder

	// Column widths
	colStatus := 5
	colID := 8
	colKind := 9
	colTask := 34
	colDuration := 10

	// Header
	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		colStatus, "STS",
		colID, "WORKER",
		colKind, "KIND",
		colTask, "TASK",
		colDuration, "TIME",
	)
	b.WriteString(g.headerStyle.Render(header))
	b.WriteString("\n")

	// Rows
	for i, rec := range g.workers {
		row := g.renderRow(rec, colStatus, colID, colKind, colTask, colDuration)
		if i == g.selected {
			b.WriteString(g.selectedStyle.Render(row))
		} else {
			b.WriteString(g.rowStyle.Render(row))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderRow renders a single worker row.
func (g *WorkerGrid) renderRow(rec models.AgentRecord, colStatus, colID, colKind, colTask, colDuration int) string {
	icon := g.statusIcon(rec.Status)
	workerID := truncate(rec.ID, colID-2)
	kind := truncate(string(rec.Kind), colKind-2)

	task := rec.CurrentTask
	if task == "" && rec.Status == models.AgentStatusError && len(rec.Errors) > 0 {
		task = rec.Errors[len(rec.Errors)-1].Message
	}
	if task == "" {
		task = "-"
	}
	task = truncate(task, colTask-2)

	duration := formatDuration(workerDuration(rec))

	return fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		colStatus, icon,
		colID, workerID,
		colKind, kind,
		colTask, task,
		colDuration, duration,
	)
}

// statusIcon returns the appropriate icon for a worker status.
func (g *WorkerGrid) statusIcon(status models.AgentStatus) string {
	switch status {
	case models.AgentStatusExecuting:
		return g.statusExecuting.Render(iconExecuting)
	case models.AgentStatusPlanning, models.AgentStatusValidating:
		return g.statusWaiting.Render(iconWaiting)
	case models.AgentStatusCompleted:
		return g.statusDone.Render(iconDone)
	case models.AgentStatusError:
		return g.statusFailed.Render(iconFailed)
	case models.AgentStatusStopped:
		return g.statusStopped.Render(iconStopped)
	case models.AgentStatusIdle:
		return g.statusIdle.Render(iconIdle)
	default:
		return g.statusWaiting.Render(iconWaiting)
	}
}

// SetAgents replaces the worker records, preserving spawn order as given.
func (g *WorkerGrid) SetAgents(workers []models.AgentRecord) {
	g.workers = workers
	// Clamp selection
	if g.selected >= len(workers) {
		g.selected = len(workers) - 1
	}
	if g.selected < 0 {
		g.selected = 0
	}
}

// Select sets the currently selected worker index.
func (g *WorkerGrid) Select(index int) {
	if index >= 0 && index < len(g.workers) {
		g.selected = index
	}
}

// SelectedWorker returns a copy of the currently selected worker record.
func (g *WorkerGrid) SelectedWorker() (models.AgentRecord, bool) {
	if g.selected >= 0 && g.selected < len(g.workers) {
		return g.workers[g.selected], true
	}
	return models.AgentRecord{}, false
}

// WorkerCount returns the number of tracked workers.
func (g *WorkerGrid) WorkerCount() int {
	return len(g.workers)
}

// RunningCount returns the number of workers currently executing.
func (g *WorkerGrid) RunningCount() int {
	count := 0
	for _, rec := range g.workers {
		if rec.Status == models.AgentStatusExecuting {
			count++
		}
	}
	return count
}

// workerDuration returns how long the worker has been (or was) active.
func workerDuration(rec models.AgentRecord) time.Duration {
	if rec.Status.Terminal() {
		return rec.LastActivity.Sub(rec.CreatedAt)
	}
	return time.Since(rec.CreatedAt)
}

// truncate shortens a string to fit in a column.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
