package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"

	"github.com/dont-rust-bro/drb/internal/models"
)

// ReadPid reads the liveness record. It returns 0 if the file is absent or unparsable.
func ReadPid(p Paths) int {
	data, err := os.ReadFile(p.PidFile())
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0
	}
	return pid
}

// WritePid publishes the liveness record for the current process.
func WritePid(p Paths, pid int) error {
	return WriteFileAtomic(p.PidFile(), []byte(strconv.Itoa(pid)), 0o644)
}

// RemovePid removes the liveness record if present.
func RemovePid(p Paths) error {
	if err := os.Remove(p.PidFile()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveSocket removes the endpoint descriptor if present.
func RemoveSocket(p Paths) error {
	if err := os.Remove(p.SocketFile()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ProcessAlive reports whether pid refers to an existing process.
// A process that exists but cannot be signaled (EPERM) counts as alive:
// some other privilege context owns it, so it may well be a daemon.
func ProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	// On Unix, FindProcess always succeeds
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	defer process.Release()

	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return errors.Is(err, syscall.EPERM)
}

// LockHeld reports whether some process holds the daemon lock. When the
// lock is free the check takes it and releases it straight away.
func LockHeld(p Paths) bool {
	lock := flock.New(p.LockFile())
	locked, err := lock.TryLock()
	if err != nil {
		return false
	}
	if locked {
		_ = lock.Unlock()
		return false
	}
	return true
}

// IsDaemonRunning checks if the daemon recorded in the state directory is still alive.
// A live pid alone is not enough: after an unclean exit the pid may have been
// reused, so the record only counts while the daemon lock is held.
// It never fails: every unreadable or stale record resolves to false.
func IsDaemonRunning(p Paths) bool {
	return ProcessAlive(ReadPid(p)) && LockHeld(p)
}

// LoadDaemonInfo returns details about the live daemon, or nil if none is running.
func LoadDaemonInfo(p Paths) *models.DaemonInfo {
	if !IsDaemonRunning(p) {
		return nil
	}
	pid := ReadPid(p)
	info := &models.DaemonInfo{
		PID:    pid,
		Socket: p.SocketFile(),
	}
	if st, err := os.Stat(p.PidFile()); err == nil {
		info.StartedAt = st.ModTime()
	}
	return info
}
