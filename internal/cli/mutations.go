package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func mutationsCmd(root *rootFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "mutations",
		Short: "Manage mutation files in a workspace",
	}

	c.AddCommand(mutationsListCmd(root))
	return c
}

func mutationsListCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List mutation files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			refs, err := ws.mutations.ListMutationFiles(ws.root)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "(no mutation files found)")
				return nil
			}

			fmt.Fprintf(out, "Workspace: %s\n", ws.root)
			fmt.Fprintf(out, "Default:   %s\n\n", ws.cfg.Defaults.MutationsFile)
			for _, r := range refs {
				fmt.Fprintf(out, "- %s  (%s)\n", r.Name, relPath(ws.root, r.Path))
			}
			return nil
		},
	}
}
