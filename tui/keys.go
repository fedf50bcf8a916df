package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	SayNow   key.Binding
	SayDelay key.Binding
	Theme    key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	SayNow: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "say it now"),
	),
	SayDelay: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "say it with a delay"),
	),
	Theme: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "toggle dark mode"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SayNow, k.SayDelay, k.Theme, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
