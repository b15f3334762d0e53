package cli

import (
	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/tui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live view of the daemon's status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := statePaths()
		if err != nil {
			return err
		}
		return tui.Run(paths)
	},
}
