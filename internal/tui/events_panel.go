package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// LogLevel represents the severity of an activity log entry.
type LogLevel string

const (
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelDebug LogLevel = "DEBUG"
)

// EventEntry is a single line in the activity log.
type EventEntry struct {
	Timestamp time.Time
	Level     LogLevel
	AgentID   string
	Message   string
}

// EventLog displays the most recent engine events.
type EventLog struct {
	entries []EventEntry
	max     int
	visible int

	// Styles
	titleStyle lipgloss.Style
	timeStyle  lipgloss.Style
	agentStyle lipgloss.Style
	infoStyle  lipgloss.Style
	warnStyle  lipgloss.Style
	errorStyle lipgloss.Style
	debugStyle lipgloss.Style
}

// NewEventLog creates a new EventLog instance.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]EventEntry, 0),
		max:     500,
		visible: 8,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")),

		timeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		agentStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")), // Blue

		infoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		warnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")), // Orange

		errorStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")), // Red

		debugStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")), // Gray
	}
}

// Add appends a new entry, trimming the oldest past the cap.
func (l *EventLog) Add(entry EventEntry) {
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.max {
		l.entries = l.entries[len(l.entries)-l.max:]
	}
}

// SetVisible sets how many entries the view shows.
func (l *EventLog) SetVisible(n int) {
	if n > 0 {
		l.visible = n
	}
}

// Len returns the number of retained entries.
func (l *EventLog) Len() int {
	return len(l.entries)
}

// View renders the activity log.
func (l *EventLog) View() string {
	var b strings.Builder
	b.WriteString(l.titleStyle.Render("Activity"))
	b.WriteString("\n")

	if len(l.entries) == 0 {
		b.WriteString(l.debugStyle.Render("  waiting for events..."))
		return b.String()
	}

	start := 0
	if len(l.entries) > l.visible {
		start = len(l.entries) - l.visible
	}

	for _, entry := range l.entries[start:] {
		ts := l.timeStyle.Render(entry.Timestamp.Format("15:04:05"))
		msg := l.styleFor(entry.Level).Render(entry.Message)
		if entry.AgentID != "" {
			agent := l.agentStyle.Render(entry.AgentID)
			b.WriteString(fmt.Sprintf("  %s %s %s\n", ts, agent, msg))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s\n", ts, msg))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// styleFor returns the message style for a log level.
func (l *EventLog) styleFor(level LogLevel) lipgloss.Style {
	switch level {
	case LogLevelError:
		return l.errorStyle
	case LogLevelWarn:
		return l.warnStyle
	case LogLevelDebug:
		return l.debugStyle
	default:
		return l.infoStyle
	}
}
