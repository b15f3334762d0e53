package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dont-rust-bro/drb/internal/models"
)

func TestLoadSettingsDefaults(t *testing.T) {
	p := Paths{Dir: t.TempDir()}

	s, err := LoadSettings(p)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTestTimeout, s.TestTimeout)
	assert.Equal(t, models.DefaultTutorModel, s.Tutor.Model)
	assert.Equal(t, models.DefaultTutorURL, s.Tutor.BaseURL)
	assert.Empty(t, s.Engine)
}

func TestLoadSettingsFromFile(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	yml := "engine: docker\ntest_timeout: 45s\nlog_level: debug\ntutor:\n  model: other/model\n  api_key: sk-file\n"
	require.NoError(t, os.WriteFile(p.SettingsFile(), []byte(yml), 0o644))

	s, err := LoadSettings(p)
	require.NoError(t, err)
	assert.Equal(t, "docker", s.Engine)
	assert.Equal(t, 45*time.Second, s.TestTimeout)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "other/model", s.Tutor.Model)
	assert.Equal(t, "sk-file", s.Tutor.APIKey)
	assert.Equal(t, models.DefaultTutorURL, s.Tutor.BaseURL, "missing fields keep defaults")
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	p := Paths{Dir: t.TempDir()}
	require.NoError(t, SaveSettings(p, &models.Settings{Engine: "docker", Tutor: models.TutorConfig{APIKey: "sk-file"}}))

	t.Setenv("DRB_ENGINE", "podman")
	t.Setenv("DRB_TUTOR_API_KEY", "sk-env")
	t.Setenv("DRB_LOG_LEVEL", "warn")

	s, err := LoadSettings(p)
	require.NoError(t, err)
	assert.Equal(t, "podman", s.Engine)
	assert.Equal(t, "sk-env", s.Tutor.APIKey)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, models.DefaultTestTimeout, s.TestTimeout, "zero timeout falls back to the default")
}

func TestResolvePacksDir(t *testing.T) {
	p := Paths{Dir: "/state"}
	assert.Equal(t, filepath.Join("/state", PacksDirName), ResolvePacksDir(p, nil))
	assert.Equal(t, filepath.Join("/state", PacksDirName), ResolvePacksDir(p, models.NewSettings()))
	assert.Equal(t, "/opt/packs", ResolvePacksDir(p, &models.Settings{PacksDir: "/opt/packs"}))
}

func TestNewPathsIsAbsolute(t *testing.T) {
	p, err := NewPaths("relative/state")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p.Dir))
	assert.Equal(t, filepath.Join(p.Dir, SocketFileName), p.SocketFile())
}
