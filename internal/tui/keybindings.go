package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the player.
type KeyMap struct {
	// Navigation
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Pick   key.Binding

	// Story control
	Start key.Binding
	Menu  key.Binding
	Reset key.Binding
	Trail key.Binding

	// Control
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap provides the default key bindings for the player.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Choose: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "choose"),
	),
	Pick: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
		key.WithHelp("1-9", "pick choice"),
	),
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "new game"),
	),
	Menu: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h", "menu"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Trail: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "trail"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Pick, k.Menu, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Choose, k.Pick},
		{k.Start, k.Menu, k.Reset, k.Trail},
		{k.Help, k.Quit},
	}
}
