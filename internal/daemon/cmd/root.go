// Package cmd implements the drbd daemon command line.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	flagStateDir   string
	flagHeadless   bool
	flagForeground bool
)

var rootCmd = &cobra.Command{
	Use:           "drbd",
	Short:         "dont-rust-bro background daemon",
	Long:          "drbd owns the practice window visibility state and serves drb commands over a Unix socket.",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runDaemon,
}

func init() {
	rootCmd.Flags().StringVar(&flagStateDir, "state-dir", "", "State directory (default $DRB_STATE_DIR or ~/.dont-rust-bro)")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a system tray")
	rootCmd.Flags().BoolVar(&flagForeground, "foreground", false, "Also log to stdout (for development)")
}

// Execute runs the daemon root command.
func Execute() error {
	return rootCmd.Execute()
}
