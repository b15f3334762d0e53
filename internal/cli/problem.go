package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dont-rust-bro/drb/internal/config"
	"github.com/dont-rust-bro/drb/internal/models"
)

var (
	flagWriteSkeleton string
	flagForce         bool
)

var problemCmd = &cobra.Command{
	Use:       "problem [next|prev]",
	Short:     "Show the current problem, or move to the next or previous one",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"next", "prev"},
	RunE:      runProblem,
}

func init() {
	problemCmd.Flags().StringVarP(&flagWriteSkeleton, "write", "w", "", "Write the problem skeleton to this file")
	problemCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "Overwrite an existing file with --write")
}

func runProblem(cmd *cobra.Command, args []string) error {
	p, err := loadPractice()
	if err != nil {
		return err
	}

	var problem *models.Problem
	switch {
	case len(args) == 0:
		problem, err = p.nav.Current()
	case args[0] == "next":
		problem, err = p.nav.Next()
	default:
		problem, err = p.nav.Prev()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s %s\n",
		styleLabel.Render(fmt.Sprintf("%s %d/%d", p.nav.Pack().Name, p.nav.Index()+1, len(p.nav.Pack().Problems))),
		styleCommand.Render(problem.Title),
		difficultyBadge(problem.Difficulty),
	)
	if problem.Description != "" {
		fmt.Fprintf(out, "\n%s\n", problem.Description)
	}

	if flagWriteSkeleton == "" {
		file := p.nav.Pack().SolutionFile
		if file == "" {
			file = "<file>"
		}
		fmt.Fprintf(out, "\n%s\n", styleHint.Render("Start with: drb problem --write "+file))
		return nil
	}
	if config.FileExists(flagWriteSkeleton) && !flagForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", flagWriteSkeleton)
	}
	if err := os.WriteFile(flagWriteSkeleton, []byte(problem.Skeleton), 0o644); err != nil {
		return fmt.Errorf("failed to write skeleton: %w", err)
	}
	fmt.Fprintf(out, "\n%s %s\n", styleSuccess.Render("Wrote"), flagWriteSkeleton)
	return nil
}
