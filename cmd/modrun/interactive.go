package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/redismod/abi"
	"github.com/wippyai/redismod/command"
	"github.com/wippyai/redismod/hosttest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cmdStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	flagStyle = lipgloss.NewStyle().
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

type modelState int

const (
	stateSelectCmd modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	host     *hosttest.Host
	module   string
	cmds     []command.Command
	input    textinput.Model
	selected int
	state    modelState
	result   string
	failed   bool
}

func newInteractiveModel(h *hosttest.Host, module string, cmds []command.Command) *interactiveModel {
	return &interactiveModel{
		host:   h,
		module: module,
		cmds:   cmds,
		state:  stateSelectCmd,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputArgs {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectCmd && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectCmd && m.selected < len(m.cmds)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectCmd:
				m.prepareInput()
				m.state = stateInputArgs
			case stateInputArgs:
				m.invoke()
				m.state = stateShowResult
			case stateShowResult:
				m.state = stateSelectCmd
				m.result = ""
			}

		case "esc":
			if m.state != stateSelectCmd {
				m.state = stateSelectCmd
				m.result = ""
			}
		}
	}

	if m.state == stateInputArgs {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Prompt = m.cmds[m.selected].Name() + " "
	ti.Placeholder = "arguments"
	ti.Width = 60
	if dc, ok := m.cmds[m.selected].(demoCommand); ok {
		ti.Placeholder = strings.TrimPrefix(dc.usage, dc.name+" ")
	}
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) invoke() {
	name := m.cmds[m.selected].Name()
	args := strings.Fields(m.input.Value())

	st := m.host.Invoke(name, args...)
	m.failed = st != abi.StatusOK

	var lines []string
	for _, r := range m.host.Replies() {
		lines = append(lines, formatReply(r))
	}
	if len(lines) == 0 {
		lines = append(lines, "(no reply)")
	}
	m.result = strings.Join(lines, "\n")
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Module Console"))
	b.WriteString(" ")
	b.WriteString(m.module)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectCmd:
		b.WriteString("Select a command to invoke:\n\n")
		for i, c := range m.cmds {
			line := cmdStyle.Render(c.Name()) + "  " + flagStyle.Render(c.Flags())
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + c.Name()))
				b.WriteString("  " + flagStyle.Render(c.Flags()))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter invoke • q quit"))

	case stateInputArgs:
		b.WriteString(fmt.Sprintf("Arguments for %s\n\n", cmdStyle.Render(m.cmds[m.selected].Name())))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter invoke • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", cmdStyle.Render(m.cmds[m.selected].Name())))
		if m.failed {
			b.WriteString(errorStyle.Render(m.result))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(h *hosttest.Host, module string, cmds []command.Command) error {
	p := tea.NewProgram(newInteractiveModel(h, module, cmds), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
