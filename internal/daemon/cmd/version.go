package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/buildinfo"
)

var (
	versionHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "208"})
	versionLabel  = lipgloss.NewStyle().Width(9).Align(lipgloss.Right).Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
)

var flagShortVersion bool

var daemonVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the daemon build version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if flagShortVersion {
			fmt.Fprintln(out, buildinfo.Version)
			return
		}
		fmt.Fprintln(out, versionHeader.Render("drbd "+buildinfo.Version))
		for _, f := range buildinfo.Fields() {
			fmt.Fprintf(out, "%s  %s\n", versionLabel.Render(f.Label), f.Value)
		}
	},
}

func init() {
	daemonVersionCmd.Flags().BoolVar(&flagShortVersion, "short", false, "Print only the version number")
	rootCmd.AddCommand(daemonVersionCmd)
}
