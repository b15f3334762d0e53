package tui

import "github.com/charmbracelet/bubbles/key"

// Keys are the view's bindings.
type Keys struct {
	Quit    key.Binding
	Show    key.Binding
	Hide    key.Binding
	Stop    key.Binding
	Refresh key.Binding
	Help    key.Binding
}

var keys = Keys{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Show: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "show"),
	),
	Hide: key.NewBinding(
		key.WithKeys("h"),
		key.WithHelp("h", "hide"),
	),
	Stop: key.NewBinding(
		key.WithKeys("X"),
		key.WithHelp("X", "stop daemon"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
}

func (k Keys) all() []key.Binding {
	return []key.Binding{k.Show, k.Hide, k.Stop, k.Refresh, k.Help, k.Quit}
}
