package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/handle"
	"github.com/wippyai/objtrack/layer"
	"github.com/wippyai/objtrack/trace"
	"github.com/wippyai/objtrack/vulkan"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))
)

// historyRows is the number of executed calls shown around the cursor.
const historyRows = 12

type modelState int

const (
	stateBrowse modelState = iota
	stateFilter
)

type interactiveModel struct {
	layer    *layer.Layer
	filename string
	steps    []trace.Step
	outcomes []trace.Outcome
	filter   textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel(filename string, ly *layer.Layer, steps []trace.Step) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "VUID substring"
	ti.Prompt = "filter: "
	ti.Width = 40
	return &interactiveModel{
		layer:    ly,
		filename: filename,
		steps:    steps,
		filter:   ti,
		state:    stateBrowse,
	}
}

func runInteractive(filename string, ly *layer.Layer, steps []trace.Step) error {
	p := tea.NewProgram(newInteractiveModel(filename, ly, steps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) done() bool {
	return len(m.outcomes) >= len(m.steps)
}

// step runs the next pending call through the layer.
func (m *interactiveModel) step() {
	i := len(m.outcomes)
	s := m.steps[i]
	recorded := s.Result
	res, out := m.layer.Call(context.Background(), s.Call, func(context.Context) vulkan.Result {
		return recorded
	})
	m.outcomes = append(m.outcomes, trace.Outcome{Index: i, Command: s.Call.Command, Result: res, Diag: out})
	m.selected = i
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && m.state == stateFilter {
		switch key.String() {
		case "enter":
			m.filter.Blur()
			m.state = stateBrowse
			return m, nil
		case "esc":
			m.filter.SetValue("")
			m.filter.Blur()
			m.state = stateBrowse
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.outcomes)-1 {
				m.selected++
			}

		case "enter", "n":
			if !m.done() {
				m.step()
			}

		case "r":
			for !m.done() {
				m.step()
			}

		case "/":
			m.state = stateFilter
			return m, m.filter.Focus()

		case "esc":
			m.filter.SetValue("")
		}
	}
	return m, nil
}

func (m *interactiveModel) visible(o trace.Outcome) []diag.Diagnostic {
	f := strings.TrimSpace(m.filter.Value())
	if f == "" {
		return o.Diag.Diagnostics
	}
	var out []diag.Diagnostic
	for _, d := range o.Diag.Diagnostics {
		if strings.Contains(d.RuleID, f) {
			out = append(out, d)
		}
	}
	return out
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("objtrack"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf("  %d/%d calls", len(m.outcomes), len(m.steps)))
	b.WriteString("\n\n")

	if len(m.outcomes) == 0 {
		b.WriteString("No calls replayed yet.\n")
	}
	start := max(0, m.selected-historyRows/2)
	end := min(len(m.outcomes), start+historyRows)
	for i := start; i < end; i++ {
		o := m.outcomes[i]
		line := fmt.Sprintf("#%-4d %-40s %-28s %d", o.Index, o.Command, o.Result, len(m.visible(o)))
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if m.selected < len(m.outcomes) {
		o := m.outcomes[m.selected]
		b.WriteString("\n")
		b.WriteString(commandStyle.Render(o.Command))
		b.WriteString("\n")
		ds := m.visible(o)
		if len(ds) == 0 {
			b.WriteString(resultStyle.Render("  no diagnostics"))
			b.WriteString("\n")
		}
		for _, d := range ds {
			style := ruleStyle
			if d.Severity == diag.SeverityError {
				style = errorStyle
			}
			b.WriteString("  " + style.Render(d.RuleID) + "\n")
			b.WriteString("    " + dimStyle.Render(d.Location) + "\n")
			b.WriteString("    " + d.Message + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.liveObjects())
	b.WriteString("\n")

	if m.state == stateFilter {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("enter apply • esc clear"))
	} else {
		b.WriteString(dimStyle.Render("n/enter step • r run all • ↑/↓ select • / filter • q quit"))
	}
	return b.String()
}

func (m *interactiveModel) liveObjects() string {
	reg := m.layer.Tracker().Registry()
	var parts []string
	for _, t := range handle.Types() {
		if n := reg.LenOfType(t); n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", t, n))
		}
	}
	if len(parts) == 0 {
		return dimStyle.Render("live: none")
	}
	return "live: " + resultStyle.Render(strings.Join(parts, " "))
}
