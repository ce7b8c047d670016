package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/grove-dev/grove/internal/game"
)

// TransitionMsg carries a store transition into the update loop.
type TransitionMsg struct {
	game.Transition
}

// toneMsg is returned by tone commands once the tone is scheduled.
type toneMsg struct{}

// waitForTransition blocks until the store publishes a transition.
func waitForTransition(ch <-chan game.Transition) tea.Cmd {
	return func() tea.Msg {
		t, ok := <-ch
		if !ok {
			return nil
		}
		return TransitionMsg{Transition: t}
	}
}
