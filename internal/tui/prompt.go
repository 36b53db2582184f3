package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// promptStep is one field of the spec prompt.
type promptStep struct {
	Label       string
	Placeholder string
	Required    bool
}

// specSteps are the fields collected by the init command, in order.
var specSteps = []promptStep{
	{Label: "Project name", Placeholder: "my-saas-app", Required: true},
	{Label: "Describe the project", Placeholder: "A SaaS dashboard for tracking solar panel output...", Required: true},
	{Label: "Features (comma separated, blank to auto-suggest)", Placeholder: "auth, dashboard, billing", Required: false},
}

// SpecPrompt is an interactive form that captures a project spec.
type SpecPrompt struct {
	steps    []promptStep
	values   []string
	step     int
	input    textinput.Model
	done     bool
	canceled bool
	width    int

	// Styles
	labelStyle lipgloss.Style
	boxStyle   lipgloss.Style
	hintStyle  lipgloss.Style
	stepStyle  lipgloss.Style
	doneStyle  lipgloss.Style
}

// NewSpecPrompt creates a new SpecPrompt.
func NewSpecPrompt() *SpecPrompt {
	ti := textinput.New()
	ti.Placeholder = specSteps[0].Placeholder
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	return &SpecPrompt{
		steps:  specSteps,
		values: make([]string, 0, len(specSteps)),
		input:  ti,
		width:  80,

		labelStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")),

		boxStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),

		hintStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		stepStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")),

		doneStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("28")).
			Bold(true),
	}
}

// SetWidth sets the width of the prompt.
func (p *SpecPrompt) SetWidth(width int) {
	p.width = width
	p.input.Width = width - 8
}

// Init implements tea.Model.
func (p *SpecPrompt) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (p *SpecPrompt) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			p.canceled = true
			return p, tea.Quit

		case "enter":
			value := strings.TrimSpace(p.input.Value())
			if value == "" && p.steps[p.step].Required {
				return p, nil
			}
			p.values = append(p.values, value)
			p.step++
			if p.step >= len(p.steps) {
				p.done = true
				return p, tea.Quit
			}
			p.input.Reset()
			p.input.Placeholder = p.steps[p.step].Placeholder
			return p, nil
		}

	case tea.WindowSizeMsg:
		p.SetWidth(msg.Width)
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// View renders the prompt.
func (p *SpecPrompt) View() string {
	if p.canceled {
		return "Canceled.\n"
	}
	if p.done {
		return p.doneStyle.Render("✓ Spec captured") + "\n"
	}

	var b strings.Builder
	b.WriteString(p.labelStyle.Render(p.steps[p.step].Label))
	b.WriteString(" ")
	b.WriteString(p.stepStyle.Render(fmt.Sprintf("(%d/%d)", p.step+1, len(p.steps))))
	b.WriteString("\n")
	b.WriteString(p.boxStyle.Render(p.input.View()))
	b.WriteString("\n")
	b.WriteString(p.hintStyle.Render("enter continue │ esc cancel"))
	b.WriteString("\n")
	return b.String()
}

// Done reports whether every field was submitted.
func (p *SpecPrompt) Done() bool {
	return p.done
}

// Canceled reports whether the user aborted the prompt.
func (p *SpecPrompt) Canceled() bool {
	return p.canceled
}

// Name returns the captured project name.
func (p *SpecPrompt) Name() string {
	return p.value(0)
}

// Description returns the captured project description.
func (p *SpecPrompt) Description() string {
	return p.value(1)
}

// Features returns the captured feature list, trimmed, empties dropped.
func (p *SpecPrompt) Features() []string {
	raw := p.value(2)
	if raw == "" {
		return nil
	}
	var features []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			features = append(features, f)
		}
	}
	return features
}

func (p *SpecPrompt) value(i int) string {
	if i < len(p.values) {
		return p.values[i]
	}
	return ""
}

// RunSpecPrompt runs the prompt to completion and returns the final model.
func RunSpecPrompt() (*SpecPrompt, error) {
	model := NewSpecPrompt()
	p := tea.NewProgram(model)
	out, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running spec prompt: %w", err)
	}
	prompt, ok := out.(*SpecPrompt)
	if !ok {
		return nil, fmt.Errorf("unexpected prompt model type %T", out)
	}
	return prompt, nil
}
