// Package engine owns the daemon's visibility and session state.
//
// Every command is applied under a single mutex so concurrent connections
// always observe a state committed by some earlier Apply. The mutex covers
// the state mutation and the sink call only; no network I/O happens inside.
package engine

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
)

// Snapshot is a consistent read of the engine state.
type Snapshot struct {
	Agents  int
	Visible bool
	Running bool
}

// Engine is the daemon's state machine.
type Engine struct {
	mu      sync.Mutex
	agents  int
	running bool
	sink    Sink
	logger  *zap.Logger

	done     chan struct{}
	doneOnce sync.Once
}

// New creates a running engine. A nil sink means headless: a MemorySink is used.
func New(sink Sink, logger *zap.Logger) *Engine {
	if sink == nil {
		sink = NewMemorySink()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		running: true,
		sink:    sink,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Apply executes one command atomically and returns the response to send back.
func (e *Engine) Apply(cmd protocol.Command) protocol.Response {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch cmd.Kind {
	case protocol.KindShow:
		e.agents++
		e.sink.Show()
		e.logger.Debug("show", zap.Int("agents", e.agents))
		return e.stateResponse()

	case protocol.KindHide:
		e.agents = 0
		e.sink.Hide()
		e.logger.Debug("hide")
		return e.stateResponse()

	case protocol.KindAgentStop:
		if e.agents > 0 {
			e.agents--
		}
		if e.agents == 0 {
			e.sink.Hide()
		}
		e.logger.Debug("agent-stop", zap.Int("agents", e.agents))
		return e.stateResponse()

	case protocol.KindStatus:
		return e.stateResponse()

	case protocol.KindStop:
		e.stopLocked()
		return protocol.Response{Status: protocol.StatusOK}

	default:
		e.logger.Warn("unknown command", zap.String("command", cmd.Name))
		return protocol.UnknownCommand(cmd.Name)
	}
}

// stateResponse must be called with e.mu held.
func (e *Engine) stateResponse() protocol.Response {
	return protocol.Response{
		Status:  protocol.StatusOK,
		Agents:  protocol.IntPtr(e.agents),
		Visible: protocol.BoolPtr(e.sink.Visible()),
	}
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		Agents:  e.agents,
		Visible: e.sink.Visible(),
		Running: e.running,
	}
}

// Running reports whether the accept loop should keep going.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Done is closed once the engine has been stopped.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Shutdown stops the engine as if a "stop" command had been received.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLocked()
}

func (e *Engine) stopLocked() {
	if e.running {
		e.logger.Info("stop requested")
	}
	e.running = false
	e.doneOnce.Do(func() { close(e.done) })
}
