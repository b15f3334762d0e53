package tui

import (
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
	"github.com/dont-rust-bro/drb/internal/models"
)

// StatusMsg carries the result of a status poll.
type StatusMsg struct {
	Response protocol.Response
	Info     *models.DaemonInfo
	Err      error
}

// CommandDoneMsg reports the outcome of a command sent from the view.
type CommandDoneMsg struct {
	Command  protocol.Command
	Response protocol.Response
	Err      error
}

// PracticeMsg carries the learner's current position.
type PracticeMsg struct {
	State *models.PracticeState
}

// statusTickMsg triggers the next status poll.
type statusTickMsg struct{}

// clearNoticeMsg clears the transient notice.
type clearNoticeMsg struct{}
