package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/domain"
)

func stylesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List viewers, render styles and coloring schemes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			printStyles(cmd.OutOrStdout())
			return nil
		},
	}
}

func printStyles(w io.Writer) {
	section := func(title string, names []string) {
		fmt.Fprintf(w, "%s:\n", title)
		for _, n := range names {
			fmt.Fprintf(w, "  - %s\n", n)
		}
	}

	section("Viewers", names(domain.Viewers()))
	section("Render styles (--style)", names(domain.RenderStyles()))
	section("Protein coloring (--protein-coloring)", names(domain.ProteinColorings()))
	section("Mutation coloring (--mutation-coloring)", names(domain.MutationColorings()))
	section("Side chains (--side-chains)", names(domain.SideChainModes()))
}

func names[T ~string](in []T) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}
