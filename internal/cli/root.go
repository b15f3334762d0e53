// Package cli implements the drb CLI commands.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/config"
)

var flagStateDir string

var rootCmd = &cobra.Command{
	Use:   "drb",
	Short: "Practice coding problems while your agent works",
	Long: `dont-rust-bro shows a practice window while a coding agent is busy
and hides it when the agent is done. Agent hooks call drb show and
drb agent-stop; everything else is for you.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// ExitError carries a process exit code for an error that has already been
// reported to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit"
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// IsReported reports whether err was already printed by the command.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

func statePaths() (config.Paths, error) {
	return config.NewPaths(flagStateDir)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "State directory (default $DRB_STATE_DIR or ~/.dont-rust-bro)")

	// Add subcommands (alphabetical)
	rootCmd.AddCommand(agentStopCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(hooksCmd)
	rootCmd.AddCommand(packsCmd)
	rootCmd.AddCommand(problemCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(solutionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)
}
