package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/akarpenko/tempo/internal/models"
)

// RunTimer shows the live timer for the active session and returns the
// action the user picked on exit.
func RunTimer(session *models.Session, chainMinutes, chainCount int) (TimerAction, error) {
	p := tea.NewProgram(NewTimerModel(session, chainMinutes, chainCount), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return TimerLeaveRunning, err
	}
	if m, ok := final.(TimerModel); ok {
		return m.Action(), nil
	}
	return TimerLeaveRunning, nil
}

// PromptRemark asks for a closing remark and returns it, empty when
// skipped.
func PromptRemark() (string, error) {
	p := tea.NewProgram(NewRemarkModel())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(RemarkModel); ok {
		return m.Remark(), nil
	}
	return "", nil
}
