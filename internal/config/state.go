package config

import (
	"github.com/dont-rust-bro/drb/internal/models"
)

// LoadPracticeState loads state.yaml, or returns a fresh state if it doesn't exist.
func LoadPracticeState(p Paths) (*models.PracticeState, error) {
	state, err := loadYAMLOrDefault(p.StateFile(), models.NewPracticeState)
	if err != nil {
		return nil, err
	}
	if state.ActivePack == "" {
		state.ActivePack = models.DefaultPack
	}
	if state.ProblemIndex < 0 {
		state.ProblemIndex = 0
	}
	return state, nil
}

// SavePracticeState writes state.yaml.
func SavePracticeState(p Paths, state *models.PracticeState) error {
	return saveYAML(p.StateFile(), state)
}

// ClearCode drops the saved draft, its last test output and the hint
// conversation, then persists the state.
func ClearCode(p Paths, state *models.PracticeState) error {
	state.CurrentCode = ""
	state.LastOutput = ""
	state.Hints = nil
	return SavePracticeState(p, state)
}
