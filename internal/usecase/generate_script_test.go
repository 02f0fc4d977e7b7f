package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/scriptgen"
)

func TestGenerateScript_MapsAndComposes(t *testing.T) {
	uc := newGenerate(nil)

	res, err := uc.Execute(context.Background(), GenerateRequest{
		MutationsPath: "mutations/demo.txt",
		Gene:          "tp53",
		Viewer:        domain.ViewerPyMOL,
		Highlight:     []string{"R273H", "320"},
		Display:       domain.DefaultDisplayOptions(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Structure.Label() != "1TUP:B" {
		t.Fatalf("expected first structure, got %s", res.Structure.Label())
	}
	if len(res.Mapped) != 3 || len(res.Unmapped) != 1 {
		t.Fatalf("expected 3 mapped and 1 unmapped, got %d/%d", len(res.Mapped), len(res.Unmapped))
	}
	if res.Unmapped[0].ProteinChange != "Q331*" {
		t.Fatalf("unexpected unmapped mutation: %+v", res.Unmapped[0])
	}
	if !slices.Equal(res.Highlight, []int{273}) || !slices.Equal(res.UnmappedHighlights, []string{"320"}) {
		t.Fatalf("unexpected highlights: %v missed=%v", res.Highlight, res.UnmappedHighlights)
	}
	if res.Source != "mutations/demo.txt" || res.SavedID != "" {
		t.Fatalf("unexpected result metadata: source=%q saved=%q", res.Source, res.SavedID)
	}

	text := res.Script.String()
	if !strings.Contains(text, "fetch 1TUP, async=0;") || !strings.Contains(text, "select (resi 248,273) and (chain B);") {
		t.Fatalf("unexpected script:\n%s", text)
	}
	if res.Script.Gene != "TP53" {
		t.Fatalf("expected canonical gene name, got %q", res.Script.Gene)
	}
}

func TestGenerateScript_SegmentOffsetAndJmol(t *testing.T) {
	uc := newGenerate(nil)

	res, err := uc.Execute(context.Background(), GenerateRequest{
		Gene:    "BRAF",
		Viewer:  domain.ViewerJmol,
		Display: domain.DefaultDisplayOptions(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Script.Viewer != domain.ViewerJmol {
		t.Fatalf("expected jmol script, got %s", res.Script.Viewer)
	}

	var residues []int
	for _, m := range res.Mapped {
		residues = append(residues, m.Residue)
	}
	if !slices.Equal(residues, []int{1600, 1601}) {
		t.Fatalf("expected offset residues, got %v", residues)
	}
	if !strings.Contains(res.Script.String(), "load=1UWH;") {
		t.Fatalf("unexpected script:\n%s", res.Script.String())
	}
}

func TestGenerateScript_ExplicitStructure(t *testing.T) {
	uc := newGenerate(nil)

	res, err := uc.Execute(context.Background(), GenerateRequest{
		Gene:    "TP53",
		PDBID:   "2ocj",
		Display: domain.DefaultDisplayOptions(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Structure.Label() != "2OCJ:A" {
		t.Fatalf("expected 2OCJ:A, got %s", res.Structure.Label())
	}
}

func TestGenerateScript_GeneSelectionErrors(t *testing.T) {
	uc := newGenerate(nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, GenerateRequest{Display: domain.DefaultDisplayOptions()})
	if !domain.IsKind(err, domain.KindInvalidArgument) {
		t.Fatalf("expected invalid argument for missing gene, got %v", err)
	}

	_, err = uc.Execute(ctx, GenerateRequest{Gene: "EGFR", Display: domain.DefaultDisplayOptions()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown gene, got %v", err)
	}

	_, err = uc.Execute(ctx, GenerateRequest{Gene: "MYC", Display: domain.DefaultDisplayOptions()})
	if !errors.Is(err, domain.ErrNotFound) || !strings.Contains(err.Error(), "no structure for gene MYC") {
		t.Fatalf("expected missing structure error, got %v", err)
	}

	_, err = uc.Execute(ctx, GenerateRequest{Gene: "TP53", Chain: "Z", Display: domain.DefaultDisplayOptions()})
	if err == nil || !strings.Contains(err.Error(), "with chain Z") {
		t.Fatalf("expected chain filter in error, got %v", err)
	}
}

func TestGenerateScript_SingleGeneIsImplicit(t *testing.T) {
	uc := NewGenerateScript(
		fakeMutationLoader{set: domain.NewMutationSet("", []domain.Mutation{mut("BRAF", "S1", "V600E", "Missense_Mutation")})},
		fakeStructureLoader{cat: demoCatalog()},
		newGenerate(nil).generators,
	)

	res, err := uc.Execute(context.Background(), GenerateRequest{Display: domain.DefaultDisplayOptions()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Script.Gene != "BRAF" {
		t.Fatalf("expected BRAF, got %q", res.Script.Gene)
	}
}

func TestGenerateScript_SaveUsesStore(t *testing.T) {
	store := &fakeStore{}
	fixed := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	uc := newGenerate(store)
	uc.now = func() time.Time { return fixed }

	res, err := uc.Execute(context.Background(), GenerateRequest{
		MutationsPath: "demo.txt",
		Gene:          "BRAF",
		Display:       domain.DefaultDisplayOptions(),
		Save:          true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.SavedID != "BRAF-1UWH" {
		t.Fatalf("unexpected saved id %q", res.SavedID)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one saved artifact, got %d", len(store.saved))
	}
	art := store.saved[0]
	if art.Source != "demo.txt" || art.Mapped != 2 || art.Unmapped != 0 || !art.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected artifact: %+v", art)
	}
}

func TestGenerateScript_SaveWithoutStore(t *testing.T) {
	uc := newGenerate(nil)

	_, err := uc.Execute(context.Background(), GenerateRequest{Gene: "BRAF", Display: domain.DefaultDisplayOptions(), Save: true})
	if !domain.IsKind(err, domain.KindUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

func TestGenerateScript_LoadErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	uc := NewGenerateScript(fakeMutationLoader{err: boom}, fakeStructureLoader{}, newGenerate(nil).generators)

	if _, err := uc.Execute(context.Background(), GenerateRequest{}); !errors.Is(err, boom) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestGenerateScript_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newGenerate(nil).Execute(ctx, GenerateRequest{Gene: "TP53"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMapHighlights(t *testing.T) {
	sm := domain.StructureMapping{PDBID: "1UWH", Chain: "A", Segments: []domain.Segment{{UniprotFrom: 448, UniprotTo: 723, PDBFrom: 1448}}}

	got, missed, err := MapHighlights([]string{" V600E ", "", "601", "p.G12D"}, sm)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(got, []int{1600, 1601}) || !slices.Equal(missed, []string{"p.G12D"}) {
		t.Fatalf("unexpected mapping: got=%v missed=%v", got, missed)
	}

	for _, bad := range []string{"abc", "-3", "0"} {
		if _, _, err := MapHighlights([]string{bad}, sm); !domain.IsKind(err, domain.KindInvalidArgument) {
			t.Fatalf("%q: expected invalid argument, got %v", bad, err)
		}
	}
}

func TestGenerateScript_NegativeStructureNumbering(t *testing.T) {
	set := domain.NewMutationSet("", []domain.Mutation{
		mut("KRAS", "S1", "M3V", "Missense_Mutation"),
		mut("KRAS", "S2", "G12D", "Missense_Mutation"),
	})
	cat := domain.StructureCatalog{
		"KRAS": {{PDBID: "4OBE", Chain: "A", Segments: []domain.Segment{{UniprotFrom: 1, UniprotTo: 50, PDBFrom: -9}}}},
	}
	uc := NewGenerateScript(fakeMutationLoader{set: set}, fakeStructureLoader{cat: cat}, scriptgen.For)

	for _, c := range []struct {
		viewer domain.Viewer
		want   string
	}{
		{domain.ViewerPyMOL, `select (resi \-7,2) and (chain A);`},
		{domain.ViewerJmol, "select (resno=-7, 2) and :A;"},
	} {
		res, err := uc.Execute(context.Background(), GenerateRequest{
			Gene:    "KRAS",
			Viewer:  c.viewer,
			Display: domain.DefaultDisplayOptions(),
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.viewer, err)
		}
		if text := res.Script.String(); !strings.Contains(text, c.want) {
			t.Fatalf("%s: expected %q in script:\n%s", c.viewer, c.want, text)
		}
	}
}
