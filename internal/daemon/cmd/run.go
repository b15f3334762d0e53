package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/engine"
	"github.com/dont-rust-bro/drb/internal/daemon/server"
	"github.com/dont-rust-bro/drb/internal/daemon/tray"
	"github.com/dont-rust-bro/drb/internal/logging"
)

// shutdownGrace bounds how long exit waits for the accept loop to release
// its resources.
const shutdownGrace = 2 * time.Second

func runDaemon(cmd *cobra.Command, args []string) error {
	paths, err := resolvePaths(flagStateDir)
	if err != nil {
		return err
	}
	if err := paths.Ensure(); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	settings, err := config.LoadSettings(paths)
	if err != nil {
		return err
	}

	logger, err := newLogger(paths, settings.LogLevel, flagForeground)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	headless := flagHeadless || !hasDisplay()
	logger.Info("daemon starting",
		zap.Int("pid", os.Getpid()),
		zap.String("state_dir", paths.Dir),
		zap.Bool("headless", headless),
	)

	if headless {
		err = runHeadless(paths, logger)
	} else {
		err = runWithTray(paths, logger)
	}
	if err != nil {
		logger.Error("daemon exited with error", zap.Error(err))
		return err
	}
	logger.Info("daemon stopped")
	return nil
}

func resolvePaths(dir string) (config.Paths, error) {
	if dir == "" {
		def, err := config.DefaultStateDir()
		if err != nil {
			return config.Paths{}, err
		}
		dir = def
	}
	return config.NewPaths(dir)
}

func newLogger(paths config.Paths, level string, foreground bool) (*zap.Logger, error) {
	cfg := logging.DefaultConfig(paths.LogFile())
	if level != "" {
		cfg.Level = level
	}
	if foreground {
		cfg.OutputPaths = append(cfg.OutputPaths, "stdout")
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger.Named("drbd"), nil
}

// hasDisplay reports whether a tray can plausibly be shown.
func hasDisplay() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// runHeadless serves with an in-memory sink until stopped or signalled.
func runHeadless(paths config.Paths, logger *zap.Logger) error {
	eng := engine.New(engine.NewMemorySink(), logger)
	srv, err := server.New(paths, eng, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}

// runWithTray runs the tray on the main goroutine and the socket server in
// the background. Either side shutting down takes the other with it.
func runWithTray(paths config.Paths, logger *zap.Logger) error {
	sink := tray.NewSink()
	eng := engine.New(sink, logger)

	var (
		startErr error
		served   = make(chan error, 1)
	)

	onStart := func() {
		srv, err := server.New(paths, eng, logger)
		if err != nil {
			startErr = err
			tray.Quit()
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		go func() {
			defer stop()
			err := srv.Serve(ctx)
			served <- err
			tray.Quit()
		}()
	}

	onExit := func() {
		eng.Shutdown()
		if startErr != nil {
			return
		}
		select {
		case err := <-served:
			served <- err
		case <-time.After(shutdownGrace):
			logger.Warn("server did not stop in time")
		}
	}

	tray.Run(sink, eng, logger, onStart, onExit)

	if startErr != nil {
		return startErr
	}
	select {
	case err := <-served:
		return err
	default:
		return nil
	}
}

// IsAlreadyRunning reports whether err means another daemon owns the state
// directory.
func IsAlreadyRunning(err error) bool {
	return errors.Is(err, server.ErrAlreadyRunning)
}
