package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Env holds overrides read from DRB_* environment variables.
type Env struct {
	StateDir     string `envconfig:"STATE_DIR"`
	LogLevel     string `envconfig:"LOG_LEVEL"`
	Engine       string `envconfig:"ENGINE"`
	TutorAPIKey  string `envconfig:"TUTOR_API_KEY"`
	TutorModel   string `envconfig:"TUTOR_MODEL"`
	TutorBaseURL string `envconfig:"TUTOR_BASE_URL"`
}

// LoadEnv reads DRB_* environment variables.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process("drb", &env); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	return &env, nil
}
