package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/buildinfo"
	"github.com/dont-rust-bro/drb/internal/updater"
)

var (
	flagCheckUpdate bool
	releasesURL     = updater.ReleasesURL
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  %s %s\n", styleBrand.Render("drb"), styleVersion.Render(buildinfo.Version))
		label := styleLabel.Width(9).Align(lipgloss.Right)
		for _, f := range buildinfo.Fields() {
			fmt.Fprintf(out, "%s  %s\n", label.Render(f.Label), styleValue.Render(f.Value))
		}

		if !flagCheckUpdate {
			return nil
		}
		res, err := updater.NewChecker(releasesURL, "drb/"+buildinfo.Version).Check(cmd.Context(), buildinfo.Version)
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}
		fmt.Fprintln(out)
		if res.Available {
			fmt.Fprintf(out, "  %s %s\n", styleWarning.Render("Update available:"), styleVersion.Render(res.LatestVersion))
			if res.ReleaseURL != "" {
				fmt.Fprintf(out, "    %s\n", styleHint.Render(res.ReleaseURL))
			}
			return nil
		}
		fmt.Fprintln(out, "  "+styleSuccess.Render("Up to date"))
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&flagCheckUpdate, "check", false, "Check GitHub for a newer release")
}
