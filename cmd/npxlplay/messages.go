package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// coordinatorChangedMsg carries no payload; the model re-reads the
// coordinator's state on receipt, fed by playback.Coordinator's observer
// broadcast.
type coordinatorChangedMsg struct{}

// waitForCoordinator returns a tea.Cmd that resolves the next time the
// coordinator notifies observers.
func waitForCoordinator(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return coordinatorChangedMsg{}
	}
}
