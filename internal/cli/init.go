package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/infra/fsworkspace"
	"github.com/varontron/mutation-mapper/internal/infra/logger"
	"github.com/varontron/mutation-mapper/internal/infra/workspacefinder"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

func initCmd() *cobra.Command {
	var path string
	var force bool

	c := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a workspace with a demo dataset and structure mappings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := path
			if len(args) == 1 {
				dir = args[0]
			}
			abs, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("invalid path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer(),
				usecase.WithEnclosingCheck(workspacefinder.NewFinder()),
				usecase.WithInitLogger(logger.L()),
			)
			if err := uc.Execute(abs, force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Workspace ready: %s\n", abs)
			fmt.Fprintln(out, "Try: mutmapper generate -g TP53")
			return nil
		},
	}

	c.Flags().StringVar(&path, "path", ".", "Workspace directory (same as the positional argument)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite existing starter files and allow nesting inside another workspace")
	return c
}
