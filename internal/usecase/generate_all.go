package usecase

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/varontron/mutation-mapper/internal/domain"
)

const defaultConcurrency = 4

// GenerateAllRequest carries the options shared by every gene. Gene, PDBID,
// Chain and Highlight must be empty.
type GenerateAllRequest struct {
	GenerateRequest
}

type GenerateAllResult struct {
	Results []GenerateResult
	// Skipped lists genes with mutations but no structure mapping.
	Skipped []string
}

type GenerateAll struct {
	gen         *GenerateScript
	concurrency int
	logger      *slog.Logger
}

type GenerateAllOption func(*GenerateAll)

func WithConcurrency(n int) GenerateAllOption {
	return func(uc *GenerateAll) {
		if n > 0 {
			uc.concurrency = n
		}
	}
}

func WithBatchLogger(l *slog.Logger) GenerateAllOption {
	return func(uc *GenerateAll) { uc.logger = l }
}

func NewGenerateAll(gen *GenerateScript, opts ...GenerateAllOption) *GenerateAll {
	uc := &GenerateAll{
		gen:         gen,
		concurrency: defaultConcurrency,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute generates one script per gene that has a structure mapping.
// Results keep the gene order of the mutation file. The first failure
// cancels the remaining genes.
func (uc *GenerateAll) Execute(ctx context.Context, req GenerateAllRequest) (GenerateAllResult, error) {
	if err := ctx.Err(); err != nil {
		return GenerateAllResult{}, err
	}
	if sel := perGeneSelections(req.GenerateRequest); len(sel) > 0 {
		return GenerateAllResult{}, domain.InvalidArgument("usecase.generate_all",
			"%s select a single script and cannot apply to every gene", strings.Join(sel, ", "))
	}

	set, cat, err := uc.gen.Load(req.MutationsPath, req.StructuresPath)
	if err != nil {
		return GenerateAllResult{}, err
	}

	var genes, skipped []string
	for _, g := range set.Genes {
		if _, ok := cat.Find(g, "", ""); ok {
			genes = append(genes, g)
		} else {
			skipped = append(skipped, g)
		}
	}

	uc.logger.Info("script.generate_all.start", "genes", len(genes), "skipped", len(skipped), "concurrency", uc.concurrency)

	results := make([]GenerateResult, len(genes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)

	for i, gene := range genes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			r := req.GenerateRequest
			r.Gene = gene

			res, err := uc.gen.Build(set, cat, r)
			if err != nil {
				uc.logger.Error("script.generate_all.gene_failed", "gene", gene, "err", err)
				return err
			}
			if req.Save {
				if err := uc.gen.Save(&res); err != nil {
					return err
				}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return GenerateAllResult{}, err
	}

	uc.logger.Info("script.generate_all.done", "scripts", len(results))
	return GenerateAllResult{Results: results, Skipped: skipped}, nil
}

func perGeneSelections(req GenerateRequest) []string {
	var sel []string
	if req.Gene != "" {
		sel = append(sel, "gene")
	}
	if req.PDBID != "" {
		sel = append(sel, "pdb id")
	}
	if req.Chain != "" {
		sel = append(sel, "chain")
	}
	if len(req.Highlight) > 0 {
		sel = append(sel, "highlights")
	}
	return sel
}

// Genes returns the genes of the result in order.
func (r GenerateAllResult) Genes() []string {
	out := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, res.Script.Gene)
	}
	return out
}
