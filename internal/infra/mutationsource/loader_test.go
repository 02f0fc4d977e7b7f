package mutationsource

import (
	"errors"
	"testing"

	"github.com/varontron/mutation-mapper/internal/domain"
)

type stubLoader struct {
	name    string
	refs    []domain.MutationFileRef
	listErr error
	loaded  []string
}

func (s *stubLoader) LoadMutations(path string) (domain.MutationSet, error) {
	s.loaded = append(s.loaded, path)
	return domain.MutationSet{Source: s.name}, nil
}

func (s *stubLoader) ListMutationFiles(string) ([]domain.MutationFileRef, error) {
	return s.refs, s.listErr
}

func TestLoadMutations_DispatchesOnExtension(t *testing.T) {
	table := &stubLoader{name: "table"}
	doc := &stubLoader{name: "json"}
	l := New(table, doc)

	for path, want := range map[string]string{
		"m/demo.txt":   "table",
		"m/cohort.MAF": "table",
		"m/api.json":   "json",
		"m/API.JSON":   "json",
	} {
		set, err := l.LoadMutations(path)
		if err != nil {
			t.Fatalf("LoadMutations(%s): %v", path, err)
		}
		if set.Source != want {
			t.Fatalf("LoadMutations(%s) used %s loader, want %s", path, set.Source, want)
		}
	}
}

func TestListMutationFiles_Merges(t *testing.T) {
	table := &stubLoader{refs: []domain.MutationFileRef{{Name: "demo.txt"}}}
	doc := &stubLoader{refs: []domain.MutationFileRef{{Name: "api.json"}}}

	refs, err := New(table, doc).ListMutationFiles("/ws")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 || refs[0].Name != "api.json" || refs[1].Name != "demo.txt" {
		t.Fatalf("unexpected refs: %+v", refs)
	}
}

func TestListMutationFiles_BothFail(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&stubLoader{listErr: boom}, &stubLoader{listErr: boom}).ListMutationFiles("/ws")
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
