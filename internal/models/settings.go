package models

import "time"

// Default values for new settings.
const (
	DefaultPack        = "python"
	DefaultTestTimeout = 30 * time.Second
	DefaultTutorModel  = "qwen/qwen3.5-27b"
	DefaultTutorURL    = "https://openrouter.ai/api/v1"
)

// TutorConfig holds settings for the hint/solution client.
type TutorConfig struct {
	Model   string `yaml:"model"`
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url"`
}

// Settings represents global application settings.
// This corresponds to ~/.dont-rust-bro/settings.yaml.
type Settings struct {
	Version     int           `yaml:"version"`
	Engine      string        `yaml:"engine"` // "docker" | "podman" | "" (detect)
	TestTimeout time.Duration `yaml:"test_timeout"`
	PacksDir    string        `yaml:"packs_dir,omitempty"`
	LogLevel    string        `yaml:"log_level"`
	Tutor       TutorConfig   `yaml:"tutor"`
}

// NewSettings creates settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:     1,
		Engine:      "",
		TestTimeout: DefaultTestTimeout,
		LogLevel:    "info",
		Tutor: TutorConfig{
			Model:   DefaultTutorModel,
			BaseURL: DefaultTutorURL,
		},
	}
}
