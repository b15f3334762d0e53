package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/tutor"
)

var hintCmd = &cobra.Command{
	Use:   "hint <file>",
	Short: "Ask the tutor for a hint on your current solution",
	Args:  cobra.ExactArgs(1),
	RunE:  runHint,
}

var solutionCmd = &cobra.Command{
	Use:   "solution <file>",
	Short: "Ask the tutor for a fully commented solution",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolution,
}

func newTutor(p *practice) (*tutor.Client, error) {
	c, err := tutor.New(p.settings.Tutor)
	if errors.Is(err, tutor.ErrNoAPIKey) {
		return nil, fmt.Errorf("%w\n  settings file: %s", err, p.paths.SettingsFile())
	}
	return c, err
}

func runHint(cmd *cobra.Command, args []string) error {
	p, err := loadPractice()
	if err != nil {
		return err
	}
	code, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read solution: %w", err)
	}
	problem, err := p.nav.Current()
	if err != nil {
		return err
	}
	t, err := newTutor(p)
	if err != nil {
		return err
	}

	state := p.nav.State()
	// Test output only describes the code it was produced for.
	output := ""
	if state.CurrentCode == string(code) {
		output = state.LastOutput
	}

	hint, history, err := t.Hint(cmd.Context(), problem, string(code), output, state.Hints)
	if err != nil {
		return err
	}
	state.Hints = history
	if err := config.SavePracticeState(p.paths, state); err != nil {
		return fmt.Errorf("failed to save practice state: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", styleWarning.Render("Hint:"), hint)
	return nil
}

func runSolution(cmd *cobra.Command, args []string) error {
	p, err := loadPractice()
	if err != nil {
		return err
	}
	code, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read solution: %w", err)
	}
	problem, err := p.nav.Current()
	if err != nil {
		return err
	}
	t, err := newTutor(p)
	if err != nil {
		return err
	}

	solution, err := t.Solution(cmd.Context(), problem, string(code), p.nav.State().Hints)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), solution)
	return nil
}
