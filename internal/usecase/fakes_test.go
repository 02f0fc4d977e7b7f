package usecase

import (
	"errors"
	"sync"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/scriptgen"
	"github.com/varontron/mutation-mapper/internal/ports"
)

type fakeMutationLoader struct {
	set domain.MutationSet
	err error
}

func (f fakeMutationLoader) LoadMutations(path string) (domain.MutationSet, error) {
	if f.err != nil {
		return domain.MutationSet{}, f.err
	}
	set := f.set
	set.Source = path
	return set, nil
}

func (f fakeMutationLoader) ListMutationFiles(string) ([]domain.MutationFileRef, error) {
	return nil, errors.New("not implemented")
}

type fakeStructureLoader struct {
	cat domain.StructureCatalog
	err error
}

func (f fakeStructureLoader) LoadStructures(string) (domain.StructureCatalog, error) {
	return f.cat, f.err
}

type fakeStore struct {
	mu    sync.Mutex
	saved []domain.ScriptArtifact
	err   error
}

func (s *fakeStore) SaveScript(art domain.ScriptArtifact) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.saved = append(s.saved, art)
	return art.Script.Gene + "-" + art.Script.PDBID, nil
}

type fakeInitializer struct {
	spec  domain.WorkspaceSpec
	force bool
	calls int
	err   error
}

func (f *fakeInitializer) Init(spec domain.WorkspaceSpec, force bool) error {
	f.spec, f.force = spec, force
	f.calls++
	return f.err
}

var (
	_ ports.MutationLoader       = fakeMutationLoader{}
	_ ports.StructureLoader      = fakeStructureLoader{}
	_ ports.ScriptStore          = (*fakeStore)(nil)
	_ ports.WorkspaceInitializer = (*fakeInitializer)(nil)
)

func mut(gene, sample, change, typ string) domain.Mutation {
	m := domain.Mutation{Gene: gene, SampleID: sample, ProteinChange: change, MutationType: typ}
	if s, e, ok := domain.ParseProteinChange(change); ok {
		m.ProteinStart, m.ProteinEnd = s, e
	}
	return m
}

func demoSet() domain.MutationSet {
	return domain.NewMutationSet("", []domain.Mutation{
		mut("TP53", "S1", "R273H", "Missense_Mutation"),
		mut("TP53", "S2", "R248Q", "Missense_Mutation"),
		mut("TP53", "S3", "R273C", "Missense_Mutation"),
		mut("TP53", "S4", "Q331*", "Nonsense_Mutation"),
		mut("BRAF", "S1", "V600E", "Missense_Mutation"),
		mut("BRAF", "S5", "K601del", "In_Frame_Del"),
		mut("MYC", "S6", "T58A", "Missense_Mutation"),
	})
}

func demoCatalog() domain.StructureCatalog {
	return domain.StructureCatalog{
		"TP53": {
			{PDBID: "1TUP", Chain: "B", Segments: []domain.Segment{{UniprotFrom: 94, UniprotTo: 312, PDBFrom: 94}}},
			{PDBID: "2OCJ", Chain: "A", Segments: []domain.Segment{{UniprotFrom: 94, UniprotTo: 312, PDBFrom: 94}}},
		},
		"BRAF": {
			{PDBID: "1UWH", Chain: "A", Segments: []domain.Segment{{UniprotFrom: 448, UniprotTo: 723, PDBFrom: 1448}}},
		},
	}
}

func newGenerate(store ports.ScriptStore) *GenerateScript {
	opts := []GenerateOption{}
	if store != nil {
		opts = append(opts, WithStore(store))
	}
	return NewGenerateScript(
		fakeMutationLoader{set: demoSet()},
		fakeStructureLoader{cat: demoCatalog()},
		scriptgen.For,
		opts...,
	)
}
