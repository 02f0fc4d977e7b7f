package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/infra/logger"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

func validateCmd(root *rootFlags) *cobra.Command {
	var mutations string
	var structures string
	var strict bool

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check a mutation file against the structure mappings (no script)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			mutationsPath, err := resolveMutationsPath(ws, mutations)
			if err != nil {
				return err
			}
			structuresPath, err := resolveStructuresPath(ws, structures)
			if err != nil {
				return err
			}

			uc := usecase.NewValidateMutations(ws.mutations, ws.structures, logger.Component("usecase"))
			rep, err := uc.Execute(cmd.Context(), usecase.ValidateRequest{
				MutationsPath:  mutationsPath,
				StructuresPath: structuresPath,
			})
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), ws.root, rep)
			if strict && rep.HasIssues() {
				return fmt.Errorf("validation found unplaced mutations")
			}
			return nil
		},
	}

	c.Flags().StringVarP(&mutations, "mutations", "m", "", "Mutation file name or path")
	c.Flags().StringVarP(&structures, "structures", "s", "", "Structure mapping file name or path")
	c.Flags().BoolVar(&strict, "strict", false, "Fail when a gene or mutation cannot be placed")
	return c
}

func printReport(w io.Writer, root string, rep usecase.ValidationReport) {
	fmt.Fprintf(w, "File:      %s\n", relPath(root, rep.Source))
	fmt.Fprintf(w, "Genes:     %d\n", rep.Genes)
	fmt.Fprintf(w, "Mutations: %d\n", rep.Mutations)
	fmt.Fprintf(w, "Samples:   %d\n", rep.Samples)
	fmt.Fprintln(w)

	for _, c := range rep.Coverage {
		fmt.Fprintf(w, "- %s on %s: %d mapped", c.Gene, c.Structure, c.Mapped)
		if n := len(c.Outside); n > 0 {
			fmt.Fprintf(w, ", %d outside segments", n)
		}
		if n := len(c.NoPosition); n > 0 {
			fmt.Fprintf(w, ", %d without position", n)
		}
		fmt.Fprintln(w)

		if len(c.Outside) > 0 {
			labels := make([]string, 0, len(c.Outside))
			for _, m := range c.Outside {
				labels = append(labels, mutationLabel(m))
			}
			fmt.Fprintf(w, "    outside: %s\n", strings.Join(labels, ", "))
		}
	}
	for _, g := range rep.GenesWithoutStructure {
		fmt.Fprintf(w, "- %s: no structure mapping\n", g)
	}

	if !rep.HasIssues() {
		fmt.Fprintln(w, "\nOK")
	}
}
