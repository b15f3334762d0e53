package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/daemon/client"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Stop the daemon and remove drb's state directory and agent hooks",
	Args:  cobra.NoArgs,
	RunE:  runUninstall,
}

func init() {
	uninstallCmd.Flags().StringVar(&flagHooksSettings, "settings", "", "Agent settings file (default ~/.claude/settings.json)")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	paths, err := statePaths()
	if err != nil {
		return err
	}
	if err := checkRemovable(paths.Dir); err != nil {
		return err
	}

	err = StopDaemon(cmd.Context(), paths)
	switch {
	case err == nil:
		fmt.Fprintln(out, "Daemon stopped.")
	case errors.Is(err, client.ErrDaemonNotRunning):
	default:
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	if config.FileExists(paths.Dir) {
		if err := os.RemoveAll(paths.Dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", paths.Dir, err)
		}
		fmt.Fprintf(out, "Removed %s\n", paths.Dir)
	}

	settingsPath, err := hooksSettingsPath()
	if err != nil {
		return err
	}
	removed, err := UninstallHooks(settingsPath)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(out, "Removed drb hooks from %s\n", settingsPath)
	}

	fmt.Fprintln(out, styleSuccess.Render("Uninstall complete."))
	return nil
}

// checkRemovable refuses state directories that are obviously not drb's own.
func checkRemovable(dir string) error {
	clean := filepath.Clean(dir)
	if clean == string(filepath.Separator) {
		return fmt.Errorf("refusing to remove %s", clean)
	}
	if home, err := os.UserHomeDir(); err == nil && clean == filepath.Clean(home) {
		return fmt.Errorf("refusing to remove the home directory %s", clean)
	}
	return nil
}
