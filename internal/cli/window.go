package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/daemon/client"
	"github.com/dont-rust-bro/drb/internal/daemon/protocol"
)

const notRunningMessage = "Daemon is not running."

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the practice window (starts the daemon if needed)",
	Long: `Show the practice window. Called by the agent's prompt-submit hook.
Each call counts one working agent session.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide the practice window and reset the session count",
	Args:  cobra.NoArgs,
	RunE:  sendQuietly(protocol.Hide),
}

var agentStopCmd = &cobra.Command{
	Use:   "agent-stop",
	Short: "Mark one agent session finished",
	Long: `Mark one agent session finished. Called by the agent's stop hook.
The practice window hides when no sessions remain.`,
	Args: cobra.NoArgs,
	RunE: sendQuietly(protocol.AgentStop),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show practice window visibility and session count",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func runShow(cmd *cobra.Command, args []string) error {
	paths, err := statePaths()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// A failed launch may still have lost the race to a daemon that is up,
	// so the send decides.
	_, launchErr := EnsureDaemon(ctx, paths)

	resp, err := client.New(paths).Send(ctx, protocol.Show)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), notRunningMessage)
		if launchErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), styleHint.Render(launchErr.Error()))
		}
		return &ExitError{Code: 1}
	}
	if !resp.OK() {
		fmt.Fprintln(cmd.ErrOrStderr(), styleError.Render(resp.Message))
		return &ExitError{Code: 1}
	}
	return nil
}

// sendQuietly sends c and treats an absent daemon as success: there is
// nothing to hide.
func sendQuietly(c protocol.Command) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		paths, err := statePaths()
		if err != nil {
			return err
		}
		resp, err := client.New(paths).Send(cmd.Context(), c)
		if errors.Is(err, client.ErrDaemonNotRunning) {
			return nil
		}
		if err != nil {
			return err
		}
		if !resp.OK() {
			fmt.Fprintln(cmd.ErrOrStderr(), styleError.Render(resp.Message))
			return &ExitError{Code: 1}
		}
		return nil
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	paths, err := statePaths()
	if err != nil {
		return err
	}
	resp, err := client.New(paths).Status(cmd.Context())
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(cmd.ErrOrStderr(), notRunningMessage)
		return &ExitError{Code: 1}
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Visible: %t\n", resp.IsVisible())
	fmt.Fprintf(out, "Agents:  %d\n", resp.AgentCount())
	return nil
}

func runStop(cmd *cobra.Command, args []string) error {
	paths, err := statePaths()
	if err != nil {
		return err
	}
	_, err = client.New(paths).Send(cmd.Context(), protocol.Stop)
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(cmd.OutOrStdout(), notRunningMessage)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Daemon stopped.")
	return nil
}
