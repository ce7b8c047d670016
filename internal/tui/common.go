// Package tui implements the terminal player using Bubble Tea, plus a
// line-oriented player for non-interactive terminals.
package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
)

// Tones plays scene and choice tones. *tone.Synthesizer implements it.
type Tones interface {
	PlaySceneTone(ctx context.Context, sceneID string)
	PlayChoiceTone(ctx context.Context, text string)
}

// IsTTY returns true if stdout is connected to a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run starts the player program in alternate screen mode and blocks until
// the player quits.
func Run(m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
