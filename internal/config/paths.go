// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// StateDirName is the name of the per-user state directory under $HOME.
	StateDirName = ".dont-rust-bro"

	// PacksDirName is the name of the packs directory inside the state directory.
	PacksDirName = "packs"
)

// File names
const (
	PidFileName      = "daemon.pid"
	SocketFileName   = "daemon.sock"
	LockFileName     = "daemon.lock"
	LogFileName      = "daemon.log"
	SettingsFileName = "settings.yaml"
	StateFileName    = "state.yaml"
)

// Paths resolves every file the daemon and CLI share inside one state directory.
type Paths struct {
	Dir string
}

// DefaultStateDir returns ~/.dont-rust-bro, or DRB_STATE_DIR when set.
func DefaultStateDir() (string, error) {
	env, err := LoadEnv()
	if err != nil {
		return "", err
	}
	if env.StateDir != "" {
		return env.StateDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, StateDirName), nil
}

// NewPaths returns the paths for the given state directory.
// An empty dir resolves to DefaultStateDir.
func NewPaths(dir string) (Paths, error) {
	if dir == "" {
		d, err := DefaultStateDir()
		if err != nil {
			return Paths{}, err
		}
		dir = d
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Paths{}, err
	}
	return Paths{Dir: abs}, nil
}

// PidFile returns the liveness record path.
func (p Paths) PidFile() string { return filepath.Join(p.Dir, PidFileName) }

// SocketFile returns the endpoint descriptor path (the Unix socket itself).
func (p Paths) SocketFile() string { return filepath.Join(p.Dir, SocketFileName) }

// LockFile returns the path of the lock held by the running daemon.
func (p Paths) LockFile() string { return filepath.Join(p.Dir, LockFileName) }

// LogFile returns the daemon log path.
func (p Paths) LogFile() string { return filepath.Join(p.Dir, LogFileName) }

// SettingsFile returns the settings.yaml path.
func (p Paths) SettingsFile() string { return filepath.Join(p.Dir, SettingsFileName) }

// StateFile returns the practice progress path.
func (p Paths) StateFile() string { return filepath.Join(p.Dir, StateFileName) }

// PacksDir returns the default packs directory.
func (p Paths) PacksDir() string { return filepath.Join(p.Dir, PacksDirName) }

// Ensure creates the state directory if it doesn't exist.
func (p Paths) Ensure() error {
	return os.MkdirAll(p.Dir, 0o755)
}
