package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/runner"
)

var testCmd = &cobra.Command{
	Use:   "test <file>",
	Short: "Run the current problem's tests against your solution",
	Args:  cobra.ExactArgs(1),
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
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
	r, err := newRunner(p.settings)
	if err != nil {
		return err
	}

	pack := p.nav.Pack()
	if err := r.EnsureImage(cmd.Context(), pack.Image); err != nil {
		return err
	}
	res, err := r.Run(cmd.Context(), runner.Request{
		Image:        pack.Image,
		TestCommand:  pack.TestCommand,
		SolutionFile: pack.SolutionFile,
		TestFile:     pack.TestFile,
		Code:         string(code),
		TestCode:     problem.TestCode,
		Timeout:      p.settings.TestTimeout,
	})
	if err != nil {
		return err
	}

	state := p.nav.State()
	state.CurrentCode = string(code)
	state.LastOutput = res.Output
	if err := config.SavePracticeState(p.paths, state); err != nil {
		return fmt.Errorf("failed to save practice state: %w", err)
	}

	out := cmd.OutOrStdout()
	if res.Output != "" {
		fmt.Fprintln(out, res.Output)
		fmt.Fprintln(out)
	}
	if !res.Passed {
		fmt.Fprintln(out, styleError.Render("✗ Tests failed"))
		return &ExitError{Code: 1}
	}
	fmt.Fprintln(out, styleSuccess.Render("✓ All tests passed"))
	fmt.Fprintln(out, styleHint.Render("Next problem: drb problem next"))
	return nil
}
