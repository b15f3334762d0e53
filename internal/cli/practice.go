package cli

import (
	"fmt"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/models"
	"github.com/dont-rust-bro/drb/internal/packs"
	"github.com/dont-rust-bro/drb/internal/runner"
)

// newExecutor returns the executor the test runner shells out through.
var newExecutor = func() runner.Executor {
	return runner.ExecExecutor{}
}

// practice bundles what the practice commands need.
type practice struct {
	paths    config.Paths
	settings *models.Settings
	packsDir string
	nav      *packs.Navigator
}

func loadPractice() (*practice, error) {
	paths, settings, err := loadSettings()
	if err != nil {
		return nil, err
	}
	packsDir := config.ResolvePacksDir(paths, settings)
	nav, err := packs.NewNavigator(paths, packsDir)
	if err != nil {
		return nil, fmt.Errorf("%w (see drb packs list)", err)
	}
	return &practice{paths: paths, settings: settings, packsDir: packsDir, nav: nav}, nil
}

func loadSettings() (config.Paths, *models.Settings, error) {
	paths, err := statePaths()
	if err != nil {
		return config.Paths{}, nil, err
	}
	settings, err := config.LoadSettings(paths)
	if err != nil {
		return config.Paths{}, nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return paths, settings, nil
}

// newRunner builds a test runner for the configured or detected engine.
func newRunner(settings *models.Settings) (*runner.Runner, error) {
	engine := settings.Engine
	if engine == "" {
		detected, err := runner.DetectEngine()
		if err != nil {
			return nil, err
		}
		engine = detected
	}
	return runner.New(engine, newExecutor(), nil), nil
}
