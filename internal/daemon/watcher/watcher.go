// Package watcher waits for files to appear in the state directory.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WaitUntil blocks until ready returns true, checking every interval for at
// most attempts rounds. Any change inside dir triggers an early re-check, so
// callers usually return well before the first tick.
func WaitUntil(ctx context.Context, dir string, attempts int, interval time.Duration, ready func() bool) bool {
	if ready() {
		return true
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if w, err := fsnotify.NewWatcher(); err == nil {
		defer w.Close()
		// Without a watch we still fall back to polling.
		if err := w.Add(dir); err == nil {
			events, errs = w.Events, w.Errors
		}
	}
	return waitLoop(ctx, events, errs, attempts, interval, ready)
}

// waitLoop drains both watcher channels; an undrained Errors channel would
// stall the watcher's reader and with it the Events.
func waitLoop(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error, attempts int, interval time.Duration, ready func() bool) bool {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < attempts; {
		select {
		case <-ctx.Done():
			return ready()
		case _, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if ready() {
				return true
			}
		case _, ok := <-errs:
			// Overflow and read errors only cost the early wake-up; the
			// ticker still bounds the wait.
			if !ok {
				errs = nil
			}
		case <-ticker.C:
			i++
			if ready() {
				return true
			}
		}
	}
	return ready()
}

// WaitForFile blocks until path exists, within the same bounds as WaitUntil.
func WaitForFile(ctx context.Context, path string, attempts int, interval time.Duration) bool {
	return WaitUntil(ctx, filepath.Dir(path), attempts, interval, func() bool {
		return exists(path)
	})
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
