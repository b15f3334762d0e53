package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/client"
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
	"github.com/dont-rust-bro/drb/internal/models"
)

const noticeDuration = 2 * time.Second

// Model is the bubbletea model for the status view.
type Model struct {
	paths  config.Paths
	sender Sender

	connected bool
	status    protocol.Response
	info      *models.DaemonInfo
	practice  *models.PracticeState
	lastPoll  time.Time

	notice   string
	err      error
	showHelp bool
	width    int
	height   int
}

// NewModel creates the status view model.
func NewModel(paths config.Paths, sender Sender) Model {
	return Model{paths: paths, sender: sender}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollStatusCmd(m.paths, m.sender),
		loadPracticeCmd(m.paths),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case statusTickMsg:
		return m, tea.Batch(pollStatusCmd(m.paths, m.sender), loadPracticeCmd(m.paths))

	case StatusMsg:
		m.lastPoll = time.Now()
		if msg.Err != nil {
			m.connected = false
			m.info = nil
			if !errors.Is(msg.Err, client.ErrDaemonNotRunning) {
				m.err = msg.Err
			}
		} else {
			m.connected = true
			m.status = msg.Response
			m.info = msg.Info
			m.err = nil
		}
		return m, statusTick()

	case PracticeMsg:
		if msg.State != nil {
			m.practice = msg.State
		}
		return m, nil

	case CommandDoneMsg:
		switch {
		case errors.Is(msg.Err, client.ErrDaemonNotRunning):
			m.notice = "Daemon is not running."
		case msg.Err != nil:
			m.err = msg.Err
		case !msg.Response.OK():
			m.err = errors.New(msg.Response.Message)
		default:
			m.notice = "Sent " + msg.Command.Name
			if msg.Command.Kind != protocol.KindStop {
				m.status = msg.Response
			}
		}
		return m, tea.Batch(pollStatusCmd(m.paths, m.sender), clearNoticeAfter(noticeDuration))

	case clearNoticeMsg:
		m.notice = ""
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, keys.Refresh):
		return pollStatusCmd(m.paths, m.sender)
	case key.Matches(msg, keys.Show):
		return sendCommandCmd(m.sender, protocol.Show)
	case key.Matches(msg, keys.Hide):
		return sendCommandCmd(m.sender, protocol.Hide)
	case key.Matches(msg, keys.Stop):
		if !m.connected {
			m.notice = "Daemon is not running."
			return clearNoticeAfter(noticeDuration)
		}
		return sendCommandCmd(m.sender, protocol.Stop)
	}
	return nil
}
