// Package tui implements the live daemon status view behind `drb watch`.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/client"
)

// Run launches the status view for the daemon owning paths.
func Run(paths config.Paths) error {
	model := NewModel(paths, client.New(paths))

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
