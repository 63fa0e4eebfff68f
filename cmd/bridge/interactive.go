package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/native-bridge/bind"
	"github.com/wippyai/native-bridge/registry"
	"github.com/wippyai/native-bridge/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type consoleModel struct {
	err      error
	reg      *registry.Registry
	result   string
	bindings []registry.Binding
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    consoleState
}

type consoleState int

const (
	stateSelectBinding consoleState = iota
	stateInputArgs
	stateShowResult
)

type callResultMsg struct {
	err    error
	result string
}

func newConsoleModel(reg *registry.Registry) *consoleModel {
	return &consoleModel{
		reg:      reg,
		bindings: reg.Functions(),
		state:    stateSelectBinding,
	}
}

func (m *consoleModel) Init() tea.Cmd {
	return nil
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectBinding && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectBinding && m.selected < len(m.bindings)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectBinding:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callBinding
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callBinding

			case stateShowResult:
				m.state = stateSelectBinding
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectBinding
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectBinding
				m.result = ""
				m.err = nil
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *consoleModel) prepareInputs() {
	b := m.bindings[m.selected]
	m.inputs = make([]textinput.Model, len(b.Signature.Params))
	for i, p := range b.Signature.Params {
		ti := textinput.New()
		ti.Placeholder = bind.TypeName(p)
		ti.Prompt = fmt.Sprintf("arg[%d]: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *consoleModel) callBinding() tea.Msg {
	b := m.bindings[m.selected]

	args := make([]value.Value, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = parseArg(input.Value(), b.Signature.Params[i])
	}

	res := m.reg.Invoke(context.Background(), b.Namespace, b.Name, args)
	v, err := res.Unpack()
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: v.String()}
}

func (m *consoleModel) View() string {
	if len(m.bindings) == 0 {
		return errorStyle.Render("No bindings registered.\n\nPress q to quit.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Native Bridge Console"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectBinding:
		b.WriteString("Select a binding to call:\n\n")
		for i, bd := range m.bindings {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + formatBinding(bd)))
			} else {
				b.WriteString(cursor + formatBinding(bd))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		bd := m.bindings[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(bd.Namespace+"/"+bd.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(bind.TypeName(bd.Signature.Params[i])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		bd := m.bindings[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(bd.Namespace+"/"+bd.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func formatBinding(b registry.Binding) string {
	var params []string
	for _, p := range b.Signature.Params {
		params = append(params, typeStyle.Render(bind.TypeName(p)))
	}
	result := ""
	if len(b.Signature.Results) > 0 {
		result = " -> " + typeStyle.Render(bind.TypeName(b.Signature.Results[0]))
	}
	return funcStyle.Render(b.Namespace+"/"+b.Name) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive(reg *registry.Registry) error {
	p := tea.NewProgram(newConsoleModel(reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
