package packs

import (
	"fmt"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/models"
)

// Navigator moves through the active pack's problems and persists the
// position in the practice state.
type Navigator struct {
	paths    config.Paths
	packsDir string
	state    *models.PracticeState
	pack     *models.Pack
}

// NewNavigator loads the practice state and its active pack.
func NewNavigator(paths config.Paths, packsDir string) (*Navigator, error) {
	state, err := config.LoadPracticeState(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to load practice state: %w", err)
	}
	pack, err := LoadPack(packsDir, state.ActivePack)
	if err != nil {
		return nil, err
	}
	return &Navigator{paths: paths, packsDir: packsDir, state: state, pack: pack}, nil
}

// Pack returns the active pack.
func (n *Navigator) Pack() *models.Pack {
	return n.pack
}

// State returns the practice state.
func (n *Navigator) State() *models.PracticeState {
	return n.state
}

// Index returns the current problem position.
func (n *Navigator) Index() int {
	if len(n.pack.Problems) == 0 {
		return 0
	}
	return wrap(n.state.ProblemIndex, len(n.pack.Problems))
}

// Current loads the problem at the saved position.
func (n *Navigator) Current() (*models.Problem, error) {
	if len(n.pack.Problems) == 0 {
		return nil, fmt.Errorf("%w: pack %s has no problems", ErrProblemNotFound, n.pack.Name)
	}
	return LoadProblem(n.packsDir, n.pack.Name, n.pack.Problems[n.Index()])
}

// Next advances to the following problem, wrapping at the end.
func (n *Navigator) Next() (*models.Problem, error) {
	return n.move(1)
}

// Prev moves to the preceding problem, wrapping at the start.
func (n *Navigator) Prev() (*models.Problem, error) {
	return n.move(-1)
}

func (n *Navigator) move(delta int) (*models.Problem, error) {
	if len(n.pack.Problems) == 0 {
		return nil, fmt.Errorf("%w: pack %s has no problems", ErrProblemNotFound, n.pack.Name)
	}
	n.state.ProblemIndex = wrap(n.Index()+delta, len(n.pack.Problems))
	if err := config.ClearCode(n.paths, n.state); err != nil {
		return nil, fmt.Errorf("failed to save practice state: %w", err)
	}
	return n.Current()
}

// Use switches to another pack, starting at its first problem.
func (n *Navigator) Use(name string) error {
	pack, err := Activate(n.paths, n.packsDir, n.state, name)
	if err != nil {
		return err
	}
	n.pack = pack
	return nil
}

// Activate makes name the active pack in state, resets the position and
// persists it. It does not require the previous pack to exist.
func Activate(paths config.Paths, packsDir string, state *models.PracticeState, name string) (*models.Pack, error) {
	pack, err := LoadPack(packsDir, name)
	if err != nil {
		return nil, err
	}
	state.ActivePack = pack.Name
	state.ProblemIndex = 0
	if err := config.ClearCode(paths, state); err != nil {
		return nil, fmt.Errorf("failed to save practice state: %w", err)
	}
	return pack, nil
}

// SaveCode stores the learner's current draft.
func (n *Navigator) SaveCode(code string) error {
	n.state.CurrentCode = code
	return config.SavePracticeState(n.paths, n.state)
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
