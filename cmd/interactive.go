package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	checkedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")) // Green
	docStyle     = lipgloss.NewStyle().Margin(1, 2)
)

var errPromptCancelled = errors.New("operation cancelled")

// promptModel asks for the number of frames to corrupt, 1..total.
type promptModel struct {
	input     textinput.Model
	total     int
	summary   string
	status    string
	value     int
	done      bool
	cancelled bool
}

func newPromptModel(total int, summary string) promptModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(min(total, 50))
	ti.CharLimit = 12
	ti.Width = 16
	ti.Prompt = focusedStyle.Render("> ")
	ti.Focus()

	return promptModel{
		input:   ti,
		total:   total,
		summary: summary,
	}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit

		case tea.KeyEnter:
			n, status := parseFrameCount(m.input.Value(), m.total)
			if status != "" {
				m.status = status
				m.input.SetValue("")
				return m, nil
			}
			m.value = n
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// parseFrameCount validates the answer. A non-empty status means retry.
func parseFrameCount(s string, total int) (int, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "Please enter a number."
	}
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, "Please enter a valid number."
	}
	if n < 1 {
		return 0, "Please enter a number greater than 0."
	}
	if n > total {
		return 0, fmt.Sprintf("Cannot corrupt more than %d frames.", total)
	}
	return n, ""
}

func (m promptModel) View() string {
	if m.cancelled {
		return "Operation cancelled.\n"
	}
	if m.done {
		return checkedStyle.Render(fmt.Sprintf("Set to corrupt %d frames", m.value)) + "\n"
	}

	s := m.summary + "\n\n"
	s += fmt.Sprintf("How many frames would you like to corrupt? (1-%d)\n", m.total)
	s += m.input.View() + "\n"
	if m.status != "" {
		s += "\n" + errorStyle.Render(m.status) + "\n"
	}
	s += "\n(enter to confirm, esc to cancel)"
	return docStyle.Render(s)
}

// runFramePrompt runs the prompt on the given terminal streams.
func runFramePrompt(in io.Reader, out io.Writer, total int, summary string) (int, error) {
	p := tea.NewProgram(newPromptModel(total, summary), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("prompt failed: %w", err)
	}

	m := final.(promptModel)
	if m.cancelled || !m.done {
		return 0, errPromptCancelled
	}
	return m.value, nil
}
