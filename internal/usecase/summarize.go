package usecase

import (
	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

const defaultHotspots = 5

type Summarize struct {
	mutations ports.MutationLoader
	top       int
}

// NewSummarize keeps the top positions of each gene; top <= 0 uses 5.
func NewSummarize(ml ports.MutationLoader, top int) *Summarize {
	if top <= 0 {
		top = defaultHotspots
	}
	return &Summarize{mutations: ml, top: top}
}

func (uc *Summarize) Execute(path string) ([]domain.GeneSummary, error) {
	set, err := uc.mutations.LoadMutations(path)
	if err != nil {
		return nil, err
	}
	return SummarizeSet(set, uc.top), nil
}

// SummarizeSet aggregates set per gene, in the gene order of the file.
func SummarizeSet(set domain.MutationSet, top int) []domain.GeneSummary {
	out := make([]domain.GeneSummary, 0, len(set.Genes))
	for _, gene := range set.Genes {
		muts := set.ByGene(gene)

		sum := domain.GeneSummary{
			Gene:      gene,
			Mutations: len(muts),
			ByClass:   map[domain.MutationClass]int{},
		}

		samples := map[string]bool{}
		positions := map[int]int{}
		for _, m := range muts {
			sum.ByClass[m.Class()]++
			if m.SampleID != "" {
				samples[m.SampleID] = true
			}
			if m.ProteinStart > 0 {
				positions[m.ProteinStart]++
			}
		}
		sum.Samples = len(samples)

		counts := make([]domain.PositionCount, 0, len(positions))
		for pos, n := range positions {
			counts = append(counts, domain.PositionCount{Position: pos, Count: n})
		}
		domain.SortPositionCounts(counts)
		if top > 0 && len(counts) > top {
			counts = counts[:top]
		}
		sum.Hotspots = counts

		out = append(out, sum)
	}
	return out
}
