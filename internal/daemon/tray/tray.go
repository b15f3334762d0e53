package tray

import (
	_ "embed"
	"sync"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
)

//go:embed icon.png
var iconData []byte

// Sink reflects practice-window visibility in the system tray.
// Show and Hide only flip a flag and post menu updates, so they never block
// the engine. Updates made before the tray is ready are applied on startup.
type Sink struct {
	mu      sync.Mutex
	visible bool
	ready   bool

	statusItem *systray.MenuItem
	showItem   *systray.MenuItem
	hideItem   *systray.MenuItem
	quitItem   *systray.MenuItem
}

// NewSink returns a hidden tray sink.
func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
	s.renderLocked()
}

func (s *Sink) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
	s.renderLocked()
}

func (s *Sink) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

func (s *Sink) renderLocked() {
	if !s.ready {
		return
	}
	systray.SetTooltip(formatTooltip(s.visible))
	s.statusItem.SetTitle(formatStatus(s.visible))
	if s.visible {
		s.showItem.Disable()
		s.hideItem.Enable()
	} else {
		s.showItem.Enable()
		s.hideItem.Disable()
	}
}

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStart is called when the tray is ready (start the socket server here).
// onExit is called when the tray exits (cleanup here).
func Run(sink *Sink, ctrl Controller, logger *zap.Logger, onStart, onExit func()) {
	onReady := func() {
		systray.SetTemplateIcon(iconData, iconData)
		systray.SetTitle("")

		header := systray.AddMenuItem("dont-rust-bro", "")
		header.Disable()

		sink.mu.Lock()
		sink.statusItem = systray.AddMenuItem("", "")
		sink.statusItem.Disable()
		systray.AddSeparator()
		sink.showItem = systray.AddMenuItem("Show practice window", "")
		sink.hideItem = systray.AddMenuItem("Hide practice window", "")
		systray.AddSeparator()
		sink.quitItem = systray.AddMenuItem("Quit", "Shut down the drb daemon")
		sink.ready = true
		sink.renderLocked()
		sink.mu.Unlock()

		if onStart != nil {
			onStart()
		}

		go handleClicks(sink, ctrl, logger)
	}

	systray.Run(onReady, func() {
		if onExit != nil {
			onExit()
		}
	})
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func handleClicks(sink *Sink, ctrl Controller, logger *zap.Logger) {
	for {
		select {
		case <-sink.showItem.ClickedCh:
			resp := ctrl.Apply(protocol.Show)
			logger.Info("tray show", zap.Int("agents", resp.AgentCount()))
		case <-sink.hideItem.ClickedCh:
			ctrl.Apply(protocol.Hide)
			logger.Info("tray hide")
		case <-sink.quitItem.ClickedCh:
			logger.Info("tray quit")
			ctrl.Apply(protocol.Stop)
			return
		}
	}
}
