// Package server implements the daemon's Unix socket listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/engine"
)

// AcceptPollInterval bounds each Accept so the loop notices a stop promptly.
const AcceptPollInterval = 500 * time.Millisecond

// Lock acquisition retries briefly so that a liveness check holding the free
// lock for an instant cannot make a starting daemon lose.
const (
	lockWait  = 250 * time.Millisecond
	lockRetry = 10 * time.Millisecond
)

// ErrAlreadyRunning is returned when another daemon holds the state directory.
var ErrAlreadyRunning = errors.New("daemon already running")

// Server is the daemon's socket server.
type Server struct {
	paths    config.Paths
	engine   *engine.Engine
	logger   *zap.Logger
	lock     *flock.Flock
	listener *net.UnixListener

	handlers  sync.WaitGroup
	closeOnce sync.Once
}

// New claims the state directory and starts listening on its socket.
//
// The directory lock is taken before anything else is touched, so when two
// daemons race only one gets past this point and the other fails with
// ErrAlreadyRunning without disturbing the winner's socket or pidfile.
func New(paths config.Paths, eng *engine.Engine, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := paths.Ensure(); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	lock := flock.New(paths.LockFile())
	ctx, cancel := context.WithTimeout(context.Background(), lockWait)
	locked, err := lock.TryLockContext(ctx, lockRetry)
	cancel()
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("failed to acquire daemon lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, config.ReadPid(paths))
	}

	// Safe now that we own the lock: any socket left behind is stale.
	if err := config.RemoveSocket(paths); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to remove stale socket: %w", err)
	}

	addr := &net.UnixAddr{Name: paths.SocketFile(), Net: "unix"}
	listener, err := net.ListenUnix("unix", addr)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}
	if err := os.Chmod(paths.SocketFile(), 0o600); err != nil {
		logger.Warn("failed to restrict socket permissions", zap.Error(err))
	}

	if err := config.WritePid(paths, os.Getpid()); err != nil {
		listener.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to write pidfile: %w", err)
	}

	return &Server{
		paths:    paths,
		engine:   eng,
		logger:   logger,
		lock:     lock,
		listener: listener,
	}, nil
}

// Socket returns the path the server is listening on.
func (s *Server) Socket() string {
	return s.paths.SocketFile()
}

// Engine returns the state engine behind the server.
func (s *Server) Engine() *engine.Engine {
	return s.engine
}

// Serve runs the accept loop until the engine is stopped or ctx is cancelled.
// Connections already accepted are answered first; then the socket, pidfile
// and lock are released before Serve returns, whatever the reason for
// returning.
func (s *Server) Serve(ctx context.Context) error {
	defer s.cleanup()
	defer s.handlers.Wait()

	// Wake a pending Accept as soon as we are asked to stop instead of
	// waiting out the rest of the poll interval.
	wake := make(chan struct{})
	defer close(wake)
	go func() {
		select {
		case <-ctx.Done():
			s.engine.Shutdown()
		case <-s.engine.Done():
		case <-wake:
			return
		}
		_ = s.listener.SetDeadline(time.Now())
	}()

	s.logger.Info("accepting connections", zap.String("socket", s.Socket()))

	for s.engine.Running() {
		if err := s.listener.SetDeadline(time.Now().Add(AcceptPollInterval)); err != nil {
			return fmt.Errorf("failed to set accept deadline: %w", err)
		}

		conn, err := s.listener.AcceptUnix()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Error("accept failed", zap.Error(err))
			time.Sleep(10 * time.Millisecond)
			continue
		}

		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			s.handleConn(conn)
		}()
	}

	s.logger.Info("accept loop stopped")
	return nil
}

// Stop asks the accept loop to exit.
func (s *Server) Stop() {
	s.engine.Shutdown()
}

func (s *Server) cleanup() {
	s.closeOnce.Do(func() {
		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Warn("failed to close listener", zap.Error(err))
		}
		if err := config.RemoveSocket(s.paths); err != nil {
			s.logger.Warn("failed to remove socket", zap.Error(err))
		}
		if config.ReadPid(s.paths) == os.Getpid() {
			if err := config.RemovePid(s.paths); err != nil {
				s.logger.Warn("failed to remove pidfile", zap.Error(err))
			}
		}
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("failed to release lock", zap.Error(err))
		}
		s.logger.Info("daemon resources released")
	})
}
