package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
	"github.com/dont-rust-bro/drb/internal/models"
)

// PollInterval is how often the view asks the daemon for its status.
const PollInterval = 500 * time.Millisecond

// Sender is the daemon client used by the view.
type Sender interface {
	Send(ctx context.Context, cmd protocol.Command) (protocol.Response, error)
}

func pollStatusCmd(paths config.Paths, sender Sender) tea.Cmd {
	return func() tea.Msg {
		resp, err := sender.Send(context.Background(), protocol.Status)
		var info *models.DaemonInfo
		if err == nil {
			info = config.LoadDaemonInfo(paths)
		}
		return StatusMsg{Response: resp, Info: info, Err: err}
	}
}

func sendCommandCmd(sender Sender, cmd protocol.Command) tea.Cmd {
	return func() tea.Msg {
		resp, err := sender.Send(context.Background(), cmd)
		return CommandDoneMsg{Command: cmd, Response: resp, Err: err}
	}
}

func loadPracticeCmd(paths config.Paths) tea.Cmd {
	return func() tea.Msg {
		state, err := config.LoadPracticeState(paths)
		if err != nil {
			return PracticeMsg{}
		}
		return PracticeMsg{State: state}
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(PollInterval, func(_ time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}
