// Package tray implements the system tray presentation sink for the daemon.
package tray

import (
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
)

// Controller lets tray menu actions go through the same command path as
// socket clients.
type Controller interface {
	Apply(cmd protocol.Command) protocol.Response
}

func formatTooltip(visible bool) string {
	if visible {
		return "dont-rust-bro: practice window open"
	}
	return "dont-rust-bro: idle"
}

func formatStatus(visible bool) string {
	if visible {
		return "● Practice window visible"
	}
	return "○ Practice window hidden"
}
