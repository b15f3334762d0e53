package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/client"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Manage the drb daemon",
	Long:  `Manage the drb daemon process.`,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStatus,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStart,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Args:  cobra.NoArgs,
	RunE:  runDaemonStop,
}

func init() {
	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
}

func runDaemonStart(cmd *cobra.Command, args []string) error {
	paths, err := statePaths()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if config.IsDaemonRunning(paths) {
		fmt.Fprintf(out, "Daemon is already running (PID %d).\n", config.ReadPid(paths))
		return nil
	}

	fmt.Fprint(out, "Starting daemon...")
	if _, err := EnsureDaemon(cmd.Context(), paths); err != nil {
		fmt.Fprintln(out)
		return err
	}
	fmt.Fprintf(out, " started (PID %d).\n", config.ReadPid(paths))
	return nil
}

func runDaemonStatus(cmd *cobra.Command, args []string) error {
	paths, err := statePaths()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !config.IsDaemonRunning(paths) {
		fmt.Fprintln(out, notRunningMessage)
		return nil
	}
	info := config.LoadDaemonInfo(paths)

	fmt.Fprintln(out, styleSuccess.Render("Daemon is running."))
	fmt.Fprintf(out, "  %s %d\n", styleLabel.Render("PID:       "), info.PID)
	fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Socket:    "), info.Socket)
	if !info.StartedAt.IsZero() {
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Uptime:    "), time.Since(info.StartedAt).Truncate(time.Second))
	}

	resp, err := client.New(paths).Status(cmd.Context())
	if err != nil {
		// Non-fatal: the process is alive but not answering yet.
		fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Socket:    "), styleWarning.Render("not responding"))
		return nil
	}
	fmt.Fprintf(out, "  %s %t\n", styleLabel.Render("Visible:   "), resp.IsVisible())
	fmt.Fprintf(out, "  %s %d\n", styleLabel.Render("Agents:    "), resp.AgentCount())
	fmt.Fprintf(out, "  %s %s\n", styleLabel.Render("Log:       "), paths.LogFile())
	return nil
}

func runDaemonStop(cmd *cobra.Command, args []string) error {
	paths, err := statePaths()
	if err != nil {
		return err
	}
	err = StopDaemon(cmd.Context(), paths)
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
