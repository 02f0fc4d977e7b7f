package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/logger"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

// generateFlags are shared by generate and watch.
type generateFlags struct {
	mutations  string
	structures string

	gene      string
	pdb       string
	chain     string
	viewer    string
	highlight []string
	vars      map[string]string

	style            string
	proteinColoring  string
	mutationColoring string
	sideChains       string
	background       string
	restrictProtein  bool
}

func (f *generateFlags) bind(c *cobra.Command) {
	fl := c.Flags()
	fl.StringVarP(&f.mutations, "mutations", "m", "", "Mutation file name or path (default: defaults.mutations_file)")
	fl.StringVarP(&f.structures, "structures", "s", "", "Structure mapping file name or path (default: defaults.structures_file)")
	fl.StringVarP(&f.gene, "gene", "g", "", "Gene symbol (optional when the file has a single gene)")
	fl.StringVar(&f.pdb, "pdb", "", "PDB id (default: first structure of the gene)")
	fl.StringVar(&f.chain, "chain", "", "Chain id (default: first chain of the structure)")
	fl.StringVar(&f.viewer, "viewer", "", "Viewer: pymol|jmol (default: defaults.viewer)")
	fl.StringSliceVar(&f.highlight, "highlight", nil, "Protein changes or positions to highlight (e.g. V600E,600)")
	fl.StringToStringVar(&f.vars, "var", nil, "Template variable key=value (repeatable)")
	fl.StringVar(&f.style, "style", "", "Render style: "+joinNames(domain.RenderStyles()))
	fl.StringVar(&f.proteinColoring, "protein-coloring", "", "Protein coloring: "+joinNames(domain.ProteinColorings()))
	fl.StringVar(&f.mutationColoring, "mutation-coloring", "", "Mutation coloring: "+joinNames(domain.MutationColorings()))
	fl.StringVar(&f.sideChains, "side-chains", "", "Side chains: "+joinNames(domain.SideChainModes()))
	fl.StringVar(&f.background, "background", "", "Background color (#RRGGBB)")
	fl.BoolVar(&f.restrictProtein, "restrict-protein", false, "Hide ligands, water and other bound molecules")
}

// request builds the usecase request from the workspace config and the
// flags the user changed.
func (f *generateFlags) request(c *cobra.Command, ws *workspaceCtx) (usecase.GenerateRequest, error) {
	mutationsPath, err := resolveMutationsPath(ws, f.mutations)
	if err != nil {
		return usecase.GenerateRequest{}, err
	}
	structuresPath, err := resolveStructuresPath(ws, f.structures)
	if err != nil {
		return usecase.GenerateRequest{}, err
	}

	viewer := ws.cfg.Defaults.Viewer
	if strings.TrimSpace(f.viewer) != "" {
		if viewer, err = domain.ParseViewer(f.viewer); err != nil {
			return usecase.GenerateRequest{}, err
		}
	}

	display, err := f.display(c, ws.cfg.Display)
	if err != nil {
		return usecase.GenerateRequest{}, err
	}

	return usecase.GenerateRequest{
		MutationsPath:  mutationsPath,
		StructuresPath: structuresPath,
		Gene:           f.gene,
		PDBID:          f.pdb,
		Chain:          f.chain,
		Viewer:         viewer,
		Highlight:      f.highlight,
		Display:        display,
		Template:       ws.cfg.Templates[viewer],
		Vars:           domain.Vars(f.vars),
	}, nil
}

func (f *generateFlags) display(c *cobra.Command, base domain.DisplayOptions) (domain.DisplayOptions, error) {
	d := base
	changed := c.Flags().Changed

	var err error
	if changed("style") {
		if d.Style, err = domain.ParseRenderStyle(f.style); err != nil {
			return d, err
		}
	}
	if changed("protein-coloring") {
		if d.ProteinColoring, err = domain.ParseProteinColoring(f.proteinColoring); err != nil {
			return d, err
		}
	}
	if changed("mutation-coloring") {
		if d.MutationColoring, err = domain.ParseMutationColoring(f.mutationColoring); err != nil {
			return d, err
		}
	}
	if changed("side-chains") {
		if d.SideChains, err = domain.ParseSideChainMode(f.sideChains); err != nil {
			return d, err
		}
	}
	if changed("background") {
		if d.BackgroundColor, err = domain.ParseColor(f.background); err != nil {
			return d, err
		}
	}
	if changed("restrict-protein") {
		d.RestrictProtein = f.restrictProtein
	}
	return d, nil
}

func generateCmd(root *rootFlags) *cobra.Command {
	var flags generateFlags
	var all bool
	var noSave bool
	var send bool
	var sendURL string
	var format string
	var output string
	var concurrency int

	c := &cobra.Command{
		Use:   "generate",
		Short: "Generate a viewer script for a gene's mutations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "script", "json"); err != nil {
				return err
			}

			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}

			req, err := flags.request(cmd, ws)
			if err != nil {
				return err
			}
			req.Save = !noSave

			uc := ws.generator(ws.store)
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			if all {
				batch := usecase.NewGenerateAll(uc,
					usecase.WithConcurrency(concurrency),
					usecase.WithBatchLogger(logger.Component("usecase")),
				)
				res, err := batch.Execute(cmd.Context(), usecase.GenerateAllRequest{GenerateRequest: req})
				if err != nil {
					return err
				}
				return printBatch(out, ws, res, format)
			}

			res, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			printWarnings(errOut, res)
			if res.SavedID != "" {
				fmt.Fprintf(errOut, "saved %s\n", relPath(ws.root, ws.store.Path(res.SavedID, res.Script.Viewer)))
			}

			if err := writeResult(out, output, res, format); err != nil {
				return err
			}

			if send {
				return sendScript(cmd.Context(), ws.cfg.Remote, sendURL, res.Script, errOut)
			}
			return nil
		},
	}

	flags.bind(c)
	c.Flags().BoolVar(&all, "all", false, "Generate one script per gene that has a structure")
	c.Flags().IntVar(&concurrency, "concurrency", 4, "Parallel generations with --all")
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save the script under scripts/")
	c.Flags().BoolVar(&send, "send", false, "Send the script to a running PyMOL (pymol -R)")
	c.Flags().StringVar(&sendURL, "url", "", "PyMOL XML-RPC endpoint (default: remote.pymol_url)")
	c.Flags().StringVar(&format, "format", "script", "Output format: script|json")
	c.Flags().StringVarP(&output, "output", "o", "", "Write the script to this file instead of stdout")
	for _, single := range []string{"gene", "pdb", "chain", "highlight", "send", "url", "output"} {
		c.MarkFlagsMutuallyExclusive("all", single)
	}
	return c
}

type scriptJSON struct {
	Gene               string   `json:"gene"`
	Viewer             string   `json:"viewer"`
	PDBID              string   `json:"pdb_id"`
	Chain              string   `json:"chain"`
	Source             string   `json:"source,omitempty"`
	Mapped             int      `json:"mapped"`
	Unmapped           []string `json:"unmapped"`
	Highlight          []int    `json:"highlight,omitempty"`
	UnmappedHighlights []string `json:"unmapped_highlights,omitempty"`
	SavedID            string   `json:"saved_id,omitempty"`
	Commands           []string `json:"commands"`
}

func toJSON(res usecase.GenerateResult) scriptJSON {
	unmapped := make([]string, 0, len(res.Unmapped))
	for _, m := range res.Unmapped {
		unmapped = append(unmapped, mutationLabel(m))
	}
	return scriptJSON{
		Gene:               res.Script.Gene,
		Viewer:             string(res.Script.Viewer),
		PDBID:              res.Script.PDBID,
		Chain:              res.Script.Chain,
		Source:             res.Source,
		Mapped:             len(res.Mapped),
		Unmapped:           unmapped,
		Highlight:          res.Highlight,
		UnmappedHighlights: res.UnmappedHighlights,
		SavedID:            res.SavedID,
		Commands:           res.Script.Commands,
	}
}

func writeResult(w io.Writer, output string, res usecase.GenerateResult, format string) error {
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return &domain.OpError{Op: "cli.generate.output", Kind: domain.KindExecution, Path: output, Err: err}
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		return encodeJSON(w, toJSON(res))
	}
	_, err := io.WriteString(w, res.Script.String())
	return err
}

func printBatch(w io.Writer, ws *workspaceCtx, res usecase.GenerateAllResult, format string) error {
	if format == "json" {
		out := make([]scriptJSON, 0, len(res.Results))
		for _, r := range res.Results {
			out = append(out, toJSON(r))
		}
		return encodeJSON(w, map[string]any{
			"scripts": out,
			"skipped": res.Skipped,
		})
	}

	for _, r := range res.Results {
		line := fmt.Sprintf("- %s  %s  %d mapped / %d unmapped", r.Script.Gene, r.Structure.Label(), len(r.Mapped), len(r.Unmapped))
		if r.SavedID != "" {
			line += "  " + relPath(ws.root, ws.store.Path(r.SavedID, r.Script.Viewer))
		}
		fmt.Fprintln(w, line)
	}
	for _, g := range res.Skipped {
		fmt.Fprintf(w, "- %s  (no structure)\n", g)
	}
	return nil
}

func printWarnings(w io.Writer, res usecase.GenerateResult) {
	if len(res.Unmapped) > 0 {
		labels := make([]string, 0, len(res.Unmapped))
		for _, m := range res.Unmapped {
			labels = append(labels, mutationLabel(m))
		}
		fmt.Fprintf(w, "warning: %d mutation(s) not on %s: %s\n", len(res.Unmapped), res.Structure.Label(), strings.Join(labels, ", "))
	}
	if len(res.UnmappedHighlights) > 0 {
		fmt.Fprintf(w, "warning: highlight not on %s: %s\n", res.Structure.Label(), strings.Join(res.UnmappedHighlights, ", "))
	}
}

func mutationLabel(m domain.Mutation) string {
	if m.ProteinChange != "" {
		return m.ProteinChange
	}
	if m.SampleID != "" {
		return m.SampleID
	}
	return "?"
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported format %q (expected %s)", format, strings.Join(allowed, "|"))
}

func joinNames[T ~string](in []T) string {
	return strings.Join(names(in), "|")
}

func relPath(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil {
		return rel
	}
	return p
}
