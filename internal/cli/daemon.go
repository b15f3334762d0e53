package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/client"
	"github.com/dont-rust-bro/drb/internal/daemon/launcher"
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
)

// Shutdown polling bounds: 50 × 100ms.
const (
	stopAttempts = 50
	stopInterval = 100 * time.Millisecond
)

// newSpawner returns the spawner used to start the daemon.
var newSpawner = func() launcher.Spawner {
	return launcher.ExecSpawner{}
}

// EnsureDaemon makes sure the daemon is running, starting it if necessary.
func EnsureDaemon(ctx context.Context, paths config.Paths) (bool, error) {
	return launcher.New(paths, newSpawner()).Ensure(ctx)
}

// StopDaemon asks the daemon to stop and waits for it to exit.
//
// When the socket does not answer, the pidfile is only trusted while the
// daemon lock is held: a lock holder that is not serving is sent SIGTERM,
// while a record nobody holds the lock for is stale and is removed. Its pid
// may since have been reused by an unrelated process, which is never signaled.
func StopDaemon(ctx context.Context, paths config.Paths) error {
	_, err := client.New(paths).Send(ctx, protocol.Stop)
	if errors.Is(err, client.ErrDaemonNotRunning) && config.LockHeld(paths) {
		// A daemon that just took the lock publishes its socket within
		// moments; ask once more before treating it as wedged.
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stopInterval):
		}
		_, err = client.New(paths).Send(ctx, protocol.Stop)
	}
	switch {
	case err == nil:
	case errors.Is(err, client.ErrDaemonNotRunning):
		if err := terminateLockHolder(paths); err != nil {
			return err
		}
	default:
		return err
	}

	for i := 0; i < stopAttempts; i++ {
		if !config.IsDaemonRunning(paths) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stopInterval):
		}
	}
	return fmt.Errorf("daemon did not stop within timeout")
}

// terminateLockHolder signals the recorded daemon if it still holds the lock,
// and otherwise clears the stale record and reports ErrDaemonNotRunning.
func terminateLockHolder(paths config.Paths) error {
	if !config.IsDaemonRunning(paths) {
		if config.ReadPid(paths) > 0 && !config.LockHeld(paths) {
			_ = config.RemovePid(paths)
		}
		return client.ErrDaemonNotRunning
	}
	process, err := os.FindProcess(config.ReadPid(paths))
	if err != nil {
		return fmt.Errorf("failed to find daemon process: %w", err)
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to send stop signal: %w", err)
	}
	return nil
}
