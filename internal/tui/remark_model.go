package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RemarkModel is a one-line prompt for a closing remark when stopping a
// session interactively
type RemarkModel struct {
	input     textinput.Model
	cancelled bool
}

func NewRemarkModel() RemarkModel {
	input := textinput.New()
	input.Placeholder = "What did you get done? (enter to skip)"
	input.CharLimit = 200
	input.Width = 60
	input.Focus()

	return RemarkModel{input: input}
}

// Remark returns the entered text, empty if skipped or cancelled.
func (m RemarkModel) Remark() string {
	if m.cancelled {
		return ""
	}
	return m.input.Value()
}

func (m RemarkModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m RemarkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m RemarkModel) View() string {
	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true).
		Render("Closing remark")
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Render("enter confirm · esc skip")

	return lipgloss.JoinVertical(lipgloss.Left, label, m.input.View(), help) + "\n"
}
