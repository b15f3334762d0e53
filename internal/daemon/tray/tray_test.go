package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dont-rust-bro/drb/internal/daemon/engine"
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
)

var _ engine.Sink = (*Sink)(nil)
var _ Controller = (*engine.Engine)(nil)

func TestSinkBeforeReady(t *testing.T) {
	s := NewSink()
	assert.False(t, s.Visible())

	// Menu items don't exist yet; the flag must still track.
	s.Show()
	assert.True(t, s.Visible())
	s.Show()
	assert.True(t, s.Visible())
	s.Hide()
	assert.False(t, s.Visible())
}

func TestSinkDrivenByEngine(t *testing.T) {
	s := NewSink()
	e := engine.New(s, nil)

	e.Apply(protocol.Show)
	assert.True(t, s.Visible())

	resp := e.Apply(protocol.Status)
	assert.True(t, resp.IsVisible())

	e.Apply(protocol.AgentStop)
	assert.False(t, s.Visible())
}

func TestFormatting(t *testing.T) {
	assert.Contains(t, formatStatus(true), "visible")
	assert.Contains(t, formatStatus(false), "hidden")
	assert.NotEqual(t, formatTooltip(true), formatTooltip(false))
}
