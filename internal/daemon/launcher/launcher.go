// Package launcher starts the daemon in the background when none is alive.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/watcher"
)

// Readiness polling bounds: 20 × 100ms.
const (
	DefaultAttempts = 20
	DefaultInterval = 100 * time.Millisecond
)

// DaemonBinaryName is the executable the launcher looks for.
const DaemonBinaryName = "drbd"

// ErrStartTimeout means the daemon did not publish its socket in time.
var ErrStartTimeout = errors.New("daemon did not become ready in time")

// Spawner starts a daemon process for a state directory without waiting for it.
type Spawner interface {
	Spawn(paths config.Paths) (pid int, err error)
}

// Launcher makes sure a daemon is running for one state directory.
type Launcher struct {
	paths    config.Paths
	spawner  Spawner
	attempts int
	interval time.Duration
}

// New creates a launcher with the default readiness bounds.
func New(paths config.Paths, spawner Spawner) *Launcher {
	return &Launcher{
		paths:    paths,
		spawner:  spawner,
		attempts: DefaultAttempts,
		interval: DefaultInterval,
	}
}

// WithBounds overrides the readiness polling bounds.
func (l *Launcher) WithBounds(attempts int, interval time.Duration) *Launcher {
	cp := *l
	cp.attempts = attempts
	cp.interval = interval
	return &cp
}

// Ensure starts a daemon unless one is already alive. It reports whether a
// new process was spawned. A pidfile naming a live process that does not
// hold the daemon lock is stale (the pid was reused) and does not prevent a
// launch. A spawned daemon that loses the start race to a concurrent launch
// simply exits; readiness is judged on whichever daemon ends up owning the
// state directory.
func (l *Launcher) Ensure(ctx context.Context) (bool, error) {
	if config.IsDaemonRunning(l.paths) {
		return false, nil
	}

	if err := l.paths.Ensure(); err != nil {
		return false, fmt.Errorf("failed to create state directory: %w", err)
	}

	if _, err := l.spawner.Spawn(l.paths); err != nil {
		return false, fmt.Errorf("failed to start daemon: %w", err)
	}

	if !watcher.WaitUntil(ctx, l.paths.Dir, l.attempts, l.interval, l.ready) {
		return true, ErrStartTimeout
	}
	return true, nil
}

// ready is true once the lock holder has published both its pid and socket.
// The pid is written after the socket is bound, so a stale socket or pidfile
// from a crashed daemon never counts.
func (l *Launcher) ready() bool {
	return config.IsDaemonRunning(l.paths) && config.FileExists(l.paths.SocketFile())
}

// ExecSpawner runs the daemon binary detached in its own session, so it
// outlives the CLI and ignores signals sent to the caller's terminal.
type ExecSpawner struct {
	Binary string
	Args   []string

	// Exited, when set, receives the child's pid and Wait result once the
	// child exits while this process is still running.
	Exited func(pid int, err error)
}

// Spawn starts the daemon and returns its pid without waiting for it.
func (s ExecSpawner) Spawn(paths config.Paths) (int, error) {
	binary := s.Binary
	if binary == "" {
		found, err := FindDaemonBinary()
		if err != nil {
			return 0, err
		}
		binary = found
	}

	args := append([]string{"--state-dir", paths.Dir}, s.Args...)
	cmd := exec.Command(binary, args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid

	// Reap the child if it exits while we are still around (e.g. it lost the
	// start race); otherwise a zombie would keep answering kill(pid, 0).
	go func() {
		err := cmd.Wait()
		if s.Exited != nil {
			s.Exited(pid, err)
		}
	}()

	return pid, nil
}

// FindDaemonBinary locates the drbd binary.
func FindDaemonBinary() (string, error) {
	// Try PATH first
	if path, err := exec.LookPath(DaemonBinaryName); err == nil {
		return path, nil
	}

	// Try next to the current executable
	if execPath, err := os.Executable(); err == nil {
		daemonPath := filepath.Join(filepath.Dir(execPath), DaemonBinaryName)
		if _, err := os.Stat(daemonPath); err == nil {
			return daemonPath, nil
		}
	}

	// Try build directory
	if _, err := os.Stat(filepath.Join("build", DaemonBinaryName)); err == nil {
		return filepath.Join("build", DaemonBinaryName), nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", DaemonBinaryName)
}
