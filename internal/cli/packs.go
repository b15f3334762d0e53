package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/packs"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List and switch problem packs",
	Args:  cobra.NoArgs,
	RunE:  runPacksList,
}

var packsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed packs",
	Args:    cobra.NoArgs,
	RunE:    runPacksList,
}

var packsUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch the active pack",
	Args:  cobra.ExactArgs(1),
	RunE:  runPacksUse,
}

func init() {
	packsCmd.AddCommand(packsListCmd)
	packsCmd.AddCommand(packsUseCmd)
}

func runPacksList(cmd *cobra.Command, args []string) error {
	paths, settings, err := loadSettings()
	if err != nil {
		return err
	}
	packsDir := config.ResolvePacksDir(paths, settings)
	out := cmd.OutOrStdout()

	names, err := packs.List(packsDir)
	if err != nil {
		return fmt.Errorf("failed to list packs: %w", err)
	}
	if len(names) == 0 {
		fmt.Fprintf(out, "No packs installed in %s\n", packsDir)
		return nil
	}

	state, err := config.LoadPracticeState(paths)
	if err != nil {
		return fmt.Errorf("failed to load practice state: %w", err)
	}

	for _, name := range names {
		line := "  " + styleCommand.Render(name)
		if pack, err := packs.LoadPack(packsDir, name); err == nil {
			line += styleHint.Render(fmt.Sprintf("  %s, %d problems", pack.Language, len(pack.Problems)))
			if missing := packs.CheckDeps(pack); len(missing) > 0 {
				line += "  " + styleWarning.Render("missing: "+strings.Join(missing, ", "))
			}
		}
		if name == state.ActivePack {
			line += " " + styleSuccess.Render("(active)")
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runPacksUse(cmd *cobra.Command, args []string) error {
	paths, settings, err := loadSettings()
	if err != nil {
		return err
	}
	packsDir := config.ResolvePacksDir(paths, settings)
	name := args[0]

	pack, err := packs.LoadPack(packsDir, name)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Pack '%s' not found.\n", name)
		return &ExitError{Code: 1}
	}
	if missing := packs.CheckDeps(pack); len(missing) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), styleWarning.Render("Required executables not found: "+strings.Join(missing, ", ")))
	}

	if pack.Image != "" {
		r, err := newRunner(settings)
		if err != nil {
			return err
		}
		if err := r.EnsureImage(cmd.Context(), pack.Image); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to pull image '%s': %v\n", pack.Image, err)
			return &ExitError{Code: 1}
		}
	}

	state, err := config.LoadPracticeState(paths)
	if err != nil {
		return fmt.Errorf("failed to load practice state: %w", err)
	}
	if _, err := packs.Activate(paths, packsDir, state, name); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Switched to pack: %s\n", name)
	return nil
}
