package config

import (
	"github.com/dont-rust-bro/drb/internal/models"
)

// LoadSettings loads settings.yaml from the state directory and applies
// DRB_* environment overrides. If the file doesn't exist, defaults are used.
func LoadSettings(p Paths) (*models.Settings, error) {
	settings, err := loadYAMLOrDefault(p.SettingsFile(), models.NewSettings)
	if err != nil {
		return nil, err
	}

	env, err := LoadEnv()
	if err != nil {
		return nil, err
	}
	applyEnv(settings, env)

	if settings.TestTimeout <= 0 {
		settings.TestTimeout = models.DefaultTestTimeout
	}
	if settings.Tutor.Model == "" {
		settings.Tutor.Model = models.DefaultTutorModel
	}
	if settings.Tutor.BaseURL == "" {
		settings.Tutor.BaseURL = models.DefaultTutorURL
	}
	return settings, nil
}

// SaveSettings saves settings.yaml to the state directory.
func SaveSettings(p Paths, settings *models.Settings) error {
	return saveYAML(p.SettingsFile(), settings)
}

// ResolvePacksDir returns the packs directory configured in settings, or the
// one inside the state directory.
func ResolvePacksDir(p Paths, settings *models.Settings) string {
	if settings != nil && settings.PacksDir != "" {
		return settings.PacksDir
	}
	return p.PacksDir()
}

func applyEnv(s *models.Settings, env *Env) {
	if env.LogLevel != "" {
		s.LogLevel = env.LogLevel
	}
	if env.Engine != "" {
		s.Engine = env.Engine
	}
	if env.TutorAPIKey != "" {
		s.Tutor.APIKey = env.TutorAPIKey
	}
	if env.TutorModel != "" {
		s.Tutor.Model = env.TutorModel
	}
	if env.TutorBaseURL != "" {
		s.Tutor.BaseURL = env.TutorBaseURL
	}
}
