package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// FeatureCounts holds the count of feature tasks in each state.
type FeatureCounts struct {
	Done    int
	Failed  int
	Running int
}

// Footer renders the status bar and keyboard hints.
type Footer struct {
	message       string
	success       bool
	runDone       bool
	stopping      bool
	width         int
	featureCounts FeatureCounts

	// Styles
	successStyle   lipgloss.Style
	errorStyle     lipgloss.Style
	stoppingStyle  lipgloss.Style
	hintStyle      lipgloss.Style
	separatorStyle lipgloss.Style
}

// NewFooter creates a new Footer instance.
func NewFooter() *Footer {
	return &Footer{
		successStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),

		stoppingStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		separatorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("236")),
	}
}

// SetRunDone marks the run as complete.
func (f *Footer) SetRunDone(success bool, message string) {
	f.runDone = true
	f.success = success
	f.message = message
}

// SetStopping marks the run as winding down after a stop request.
func (f *Footer) SetStopping(stopping bool) {
	f.stopping = stopping
}

// SetWidth sets the footer width.
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFeatureCounts updates the feature counts for display.
func (f *Footer) SetFeatureCounts(counts FeatureCounts) {
	f.featureCounts = counts
}

// View renders the footer.
func (f *Footer) View() string {
	var left string

	// Left side: feature counts or final status
	total := f.featureCounts.Done + f.featureCounts.Failed + f.featureCounts.Running
	if total > 0 {
		counts := fmt.Sprintf("✓%d", f.featureCounts.Done)
		if f.featureCounts.Failed > 0 {
			counts += f.errorStyle.Render(fmt.Sprintf(" ✗%d", f.featureCounts.Failed))
		}
		if f.featureCounts.Running > 0 {
			counts += fmt.Sprintf(" ⏳%d", f.featureCounts.Running)
		}
		left = counts
	}

	if f.runDone {
		if f.success {
			left = f.successStyle.Render("✓ " + f.message)
		} else {
			left = f.errorStyle.Render("✗ " + f.message)
		}
	} else if f.stopping {
		left = f.stoppingStyle.Render("◌ stopping...")
	}

	right := f.keyboardHints()

	sep := f.separatorStyle.Render(" │ ")

	if left != "" && right != "" {
		return left + sep + right
	} else if left != "" {
		return left
	}
	return right
}

// keyboardHints returns context-sensitive keyboard hints.
func (f *Footer) keyboardHints() string {
	if f.runDone {
		return f.hintStyle.Render("Press q to exit")
	}
	return f.hintStyle.Render("↑/↓ select worker │ s stop │ q close view")
}
