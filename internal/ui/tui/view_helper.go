package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

const highlightMark = "★"

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// mutationColumns hides the optional columns the gene has no data for.
func mutationColumns(set domain.MutationSet, gene string) []table.Column {
	cols := []table.Column{
		{Title: " ", Width: 1},
		{Title: "Sample", Width: 16},
		{Title: "Protein Change", Width: 14},
		{Title: "Type", Width: 18},
		{Title: "Pos", Width: 5},
	}
	for _, f := range set.VisibleFields(gene) {
		width := 6
		if f == domain.FieldStartPos || f == domain.FieldEndPos {
			width = 10
		}
		cols = append(cols, table.Column{Title: f.Label(), Width: width})
	}
	return cols
}

func mutationRows(set domain.MutationSet, gene string, muts []domain.Mutation, highlighted map[int]bool) []table.Row {
	fields := set.VisibleFields(gene)

	rows := make([]table.Row, 0, len(muts))
	for i, m := range muts {
		mark := ""
		if highlighted[i] {
			mark = highlightMark
		}
		pos := ""
		if m.ProteinStart > 0 {
			pos = strconv.Itoa(m.ProteinStart)
		}
		row := table.Row{
			mark,
			clampString(m.SampleID, 15),
			clampString(m.ProteinChange, 13),
			clampString(m.MutationType, 17),
			pos,
		}
		for _, f := range fields {
			row = append(row, m.Value(f))
		}
		rows = append(rows, row)
	}
	return rows
}

// highlightTokens lists the protein positions of the highlighted rows.
func highlightTokens(muts []domain.Mutation, highlighted map[int]bool) []string {
	var out []string
	for i, m := range muts {
		if highlighted[i] && m.ProteinStart > 0 {
			out = append(out, strconv.Itoa(m.ProteinStart))
		}
	}
	return out
}

func geneDescription(set domain.MutationSet, cat domain.StructureCatalog, gene string) string {
	n := len(set.ByGene(gene))
	sm, ok := cat.Find(gene, "", "")
	if !ok {
		return fmt.Sprintf("%d mutation(s) · no structure", n)
	}
	return fmt.Sprintf("%d mutation(s) · %s", n, sm.Label())
}

func renderResultSummary(res usecase.GenerateResult) string {
	var b strings.Builder

	title := res.Structure.Title
	if title == "" {
		title = "-"
	}
	fmt.Fprintf(&b, "%s on %s (%s)\n", res.Script.Gene, res.Structure.Label(), clampString(title, 48))
	fmt.Fprintf(&b, "Viewer: %s · %d command(s) · %d mapped / %d unmapped\n",
		res.Script.Viewer, len(res.Script.Lines()), len(res.Mapped), len(res.Unmapped))

	if len(res.Unmapped) > 0 {
		labels := make([]string, 0, len(res.Unmapped))
		for _, m := range res.Unmapped {
			labels = append(labels, m.ProteinChange)
		}
		fmt.Fprintf(&b, "Not on structure: %s\n", clampString(strings.Join(labels, ", "), 72))
	}
	if len(res.Highlight) > 0 {
		parts := make([]string, 0, len(res.Highlight))
		for _, r := range res.Highlight {
			parts = append(parts, strconv.Itoa(r))
		}
		fmt.Fprintf(&b, "Highlighted residues: %s\n", strings.Join(parts, ","))
	}
	return b.String()
}
