package usecase

import (
	"context"
	"log/slog"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

type ValidateRequest struct {
	MutationsPath  string
	StructuresPath string
}

// GeneCoverage describes how the mutations of one gene land on its
// preferred structure.
type GeneCoverage struct {
	Gene       string
	Structure  string
	Mapped     int
	NoPosition []domain.Mutation
	Outside    []domain.Mutation
}

type ValidationReport struct {
	Source    string
	Genes     int
	Mutations int
	Samples   int

	GenesWithoutStructure []string
	Coverage              []GeneCoverage
}

// HasIssues reports whether any gene or mutation could not be placed.
func (r ValidationReport) HasIssues() bool {
	if len(r.GenesWithoutStructure) > 0 {
		return true
	}
	for _, c := range r.Coverage {
		if len(c.NoPosition) > 0 || len(c.Outside) > 0 {
			return true
		}
	}
	return false
}

type ValidateMutations struct {
	mutations  ports.MutationLoader
	structures ports.StructureLoader
	logger     *slog.Logger
}

func NewValidateMutations(ml ports.MutationLoader, sl ports.StructureLoader, logger *slog.Logger) *ValidateMutations {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ValidateMutations{mutations: ml, structures: sl, logger: logger}
}

// Execute loads both inputs and checks every mutation against the first
// structure of its gene. Load errors are returned; placement problems are
// reported.
func (uc *ValidateMutations) Execute(ctx context.Context, req ValidateRequest) (ValidationReport, error) {
	if err := ctx.Err(); err != nil {
		return ValidationReport{}, err
	}

	set, err := uc.mutations.LoadMutations(req.MutationsPath)
	if err != nil {
		return ValidationReport{}, err
	}
	cat, err := uc.structures.LoadStructures(req.StructuresPath)
	if err != nil {
		return ValidationReport{}, err
	}

	rep := ValidationReport{
		Source:    set.Source,
		Genes:     len(set.Genes),
		Mutations: len(set.Mutations),
		Samples:   len(set.Samples),
	}

	for _, gene := range set.Genes {
		sm, ok := cat.Find(gene, "", "")
		if !ok {
			rep.GenesWithoutStructure = append(rep.GenesWithoutStructure, gene)
			continue
		}

		mapped, unmapped := domain.MapMutations(set.ByGene(gene), sm)
		cov := GeneCoverage{Gene: gene, Structure: sm.Label(), Mapped: len(mapped)}
		for _, m := range unmapped {
			if m.ProteinStart <= 0 {
				cov.NoPosition = append(cov.NoPosition, m)
			} else {
				cov.Outside = append(cov.Outside, m)
			}
		}
		rep.Coverage = append(rep.Coverage, cov)
	}

	uc.logger.Info("mutations.validate.done",
		"source", rep.Source,
		"genes", rep.Genes,
		"without_structure", len(rep.GenesWithoutStructure),
		"issues", rep.HasIssues(),
	)
	return rep, nil
}
