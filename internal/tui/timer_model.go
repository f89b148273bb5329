package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/akarpenko/tempo/internal/models"
)

// TimerAction is what the user asked for when the timer closed.
type TimerAction int

const (
	TimerLeaveRunning TimerAction = iota
	TimerStop
	TimerPause
)

// TimerModel renders a live clock for the active session
type TimerModel struct {
	width  int
	height int

	session      *models.Session
	chainMinutes int
	chainCount   int

	elapsed time.Duration
	action  TimerAction
}

// timerTickMsg is sent every second to update the clock
type timerTickMsg struct{}

// NewTimerModel creates a timer for the given working session. Chain
// aggregates are zero for a session that is not a continuation.
func NewTimerModel(session *models.Session, chainMinutes, chainCount int) TimerModel {
	return TimerModel{
		session:      session,
		chainMinutes: chainMinutes,
		chainCount:   chainCount,
		elapsed:      time.Since(session.StartedAt),
		action:       TimerLeaveRunning,
	}
}

// Action reports what the user chose when the timer closed.
func (m TimerModel) Action() TimerAction {
	return m.action
}

func (m TimerModel) Init() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{}
	})
}

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = time.Since(m.session.StartedAt)
		return m, tea.Tick(time.Second, func(time.Time) tea.Msg {
			return timerTickMsg{}
		})

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			m.action = TimerStop
			return m, tea.Quit
		case "p", "P":
			m.action = TimerPause
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			// Leave the session running
			m.action = TimerLeaveRunning
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)
	primaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true)
	secondaryStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText))
	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentMain)).
		Bold(true)

	lines := []string{
		headerStyle.Render("⏱  TRACKING"),
		"",
		primaryStyle.Render(fmt.Sprintf("#%d  %s", m.session.ID, m.session.Description)),
	}
	if m.session.Project != "" {
		lines = append(lines, secondaryStyle.Render("@"+m.session.Project))
	}
	lines = append(lines,
		"",
		clockStyle.Render(formatClock(m.elapsed)),
		"",
		secondaryStyle.Render(fmt.Sprintf("Started at %s", m.session.StartedAt.Format("15:04:05"))),
	)
	if m.chainCount > 1 {
		lines = append(lines, secondaryStyle.Render(
			fmt.Sprintf("Chain: %d sessions, %dm total", m.chainCount, m.chainMinutes)))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1, 3).
		Render(lipgloss.JoinVertical(lipgloss.Center, lines...))

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Render("s stop · p pause · esc keep running")

	content := lipgloss.JoinVertical(lipgloss.Center, panel, "", help)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

// formatClock renders elapsed time as hh:mm:ss
func formatClock(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
