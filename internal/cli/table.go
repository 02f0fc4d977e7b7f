package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/domain"
)

func tableCmd(root *rootFlags) *cobra.Command {
	var mutations string
	var gene string

	c := &cobra.Command{
		Use:   "table",
		Short: "Print the mutation table (optional columns appear when the data has them)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}
			path, err := resolveMutationsPath(ws, mutations)
			if err != nil {
				return err
			}

			set, err := ws.mutations.LoadMutations(path)
			if err != nil {
				return err
			}
			if gene != "" && !set.HasGene(gene) {
				return &domain.OpError{
					Op:   "cli.table",
					Kind: domain.KindNotFound,
					Path: path,
					Err:  fmt.Errorf("gene %s has no mutations: %w", gene, domain.ErrNotFound),
				}
			}

			renderTable(cmd.OutOrStdout(), set, gene, ws.cfg.Display)
			return nil
		},
	}

	c.Flags().StringVarP(&mutations, "mutations", "m", "", "Mutation file name or path")
	c.Flags().StringVarP(&gene, "gene", "g", "", "Only this gene (default: every gene)")
	return c
}

func renderTable(w io.Writer, set domain.MutationSet, gene string, display domain.DisplayOptions) {
	genes := set.Genes
	if gene != "" {
		genes = []string{gene}
	}

	fields := visibleFields(set, genes)

	headers := []string{}
	if gene == "" {
		headers = append(headers, "Gene")
	}
	headers = append(headers, "Sample", "Protein Change", "Type", "Position")
	for _, f := range fields {
		headers = append(headers, f.Label())
	}
	classCol := len(headers) - len(fields) - 2

	var rows [][]string
	var classes []domain.MutationClass
	for _, g := range genes {
		for _, m := range set.ByGene(g) {
			row := []string{}
			if gene == "" {
				row = append(row, m.Gene)
			}
			pos := ""
			if m.ProteinStart > 0 {
				pos = strconv.Itoa(m.ProteinStart)
			}
			row = append(row, m.SampleID, m.ProteinChange, m.MutationType, pos)
			for _, f := range fields {
				row = append(row, m.Value(f))
			}
			rows = append(rows, row)
			classes = append(classes, m.Class())
		}
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col == classCol && row >= 0 && row < len(classes) {
				return cell.Foreground(lipgloss.Color(string(display.ColorFor(classes[row]))))
			}
			return cell
		})

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d mutation(s)\n", len(rows))
}

// visibleFields is the union of the optional columns of genes.
func visibleFields(set domain.MutationSet, genes []string) []domain.Field {
	seen := map[domain.Field]bool{}
	for _, g := range genes {
		for _, f := range set.VisibleFields(g) {
			seen[f] = true
		}
	}
	var out []domain.Field
	for _, f := range domain.OptionalFields() {
		if seen[f] {
			out = append(out, f)
		}
	}
	return out
}
