// Package models contains shared data structures used across the application.
package models

// PracticeState is the learner's progress.
// This corresponds to ~/.dont-rust-bro/state.yaml.
type PracticeState struct {
	Version      int           `yaml:"version"`
	ActivePack   string        `yaml:"active_pack"`
	ProblemIndex int           `yaml:"problem_index"`
	CurrentCode  string        `yaml:"current_code"`
	LastOutput   string        `yaml:"last_output,omitempty"`
	Hints        []ChatMessage `yaml:"hints,omitempty"`
}

// ChatMessage is one turn of a tutor conversation.
type ChatMessage struct {
	Role    string `yaml:"role" json:"role"`
	Content string `yaml:"content" json:"content"`
}

// NewPracticeState creates a state positioned at the first problem of the default pack.
func NewPracticeState() *PracticeState {
	return &PracticeState{
		Version:    1,
		ActivePack: DefaultPack,
	}
}
