package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

func summaryCmd(root *rootFlags) *cobra.Command {
	var mutations string
	var format string
	var top int

	c := &cobra.Command{
		Use:   "summary",
		Short: "Summarize mutations per gene",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "pretty", "json"); err != nil {
				return err
			}

			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}
			path, err := resolveMutationsPath(ws, mutations)
			if err != nil {
				return err
			}

			sums, err := usecase.NewSummarize(ws.mutations, top).Execute(path)
			if err != nil {
				return err
			}
			return printSummary(cmd.OutOrStdout(), sums, format)
		},
	}

	c.Flags().StringVarP(&mutations, "mutations", "m", "", "Mutation file name or path")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().IntVar(&top, "top", 5, "Hotspot positions per gene")
	return c
}

type summaryJSON struct {
	Gene      string         `json:"gene"`
	Mutations int            `json:"mutations"`
	Samples   int            `json:"samples"`
	ByClass   map[string]int `json:"by_class"`
	Hotspots  []hotspotJSON  `json:"hotspots"`
}

type hotspotJSON struct {
	Position int `json:"position"`
	Count    int `json:"count"`
}

func printSummary(w io.Writer, sums []domain.GeneSummary, format string) error {
	if format == "json" {
		out := make([]summaryJSON, 0, len(sums))
		for _, s := range sums {
			js := summaryJSON{
				Gene:      s.Gene,
				Mutations: s.Mutations,
				Samples:   s.Samples,
				ByClass:   map[string]int{},
				Hotspots:  []hotspotJSON{},
			}
			for c, n := range s.ByClass {
				js.ByClass[string(c)] = n
			}
			for _, h := range s.Hotspots {
				js.Hotspots = append(js.Hotspots, hotspotJSON{Position: h.Position, Count: h.Count})
			}
			out = append(out, js)
		}
		return encodeJSON(w, out)
	}

	if len(sums) == 0 {
		fmt.Fprintln(w, "(no mutations found)")
		return nil
	}
	for _, s := range sums {
		fmt.Fprintf(w, "%s: %d mutation(s), %d sample(s)\n", s.Gene, s.Mutations, s.Samples)
		fmt.Fprintf(w, "  classes:  %s\n", formatClasses(s.ByClass))
		fmt.Fprintf(w, "  hotspots: %s\n", formatHotspots(s.Hotspots))
	}
	return nil
}

// formatClasses lists classes in paint order, skipping empty ones.
func formatClasses(by map[domain.MutationClass]int) string {
	var parts []string
	for _, c := range domain.MutationClasses() {
		if n := by[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func formatHotspots(in []domain.PositionCount) string {
	if len(in) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(in))
	for _, h := range in {
		parts = append(parts, fmt.Sprintf("%d(%d)", h.Position, h.Count))
	}
	return strings.Join(parts, " ")
}
