package tui

import (
	"errors"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/scriptgen"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

type fakeMutations struct{ set domain.MutationSet }

func (f fakeMutations) LoadMutations(string) (domain.MutationSet, error) { return f.set, nil }
func (f fakeMutations) ListMutationFiles(string) ([]domain.MutationFileRef, error) {
	return nil, nil
}

type fakeStructures struct{ cat domain.StructureCatalog }

func (f fakeStructures) LoadStructures(string) (domain.StructureCatalog, error) { return f.cat, nil }

type fakeStore struct{ saved int }

func (s *fakeStore) SaveScript(art domain.ScriptArtifact) (string, error) {
	s.saved++
	return "ts_" + art.Script.Gene, nil
}

type fakeInitializer struct{ root string }

func (f *fakeInitializer) Init(spec domain.WorkspaceSpec, _ bool) error {
	f.root = spec.Root
	return nil
}

func testSession(store *fakeStore) (Session, domain.MutationSet, domain.StructureCatalog) {
	set := domain.NewMutationSet("demo.txt", []domain.Mutation{
		{Gene: "BRAF", SampleID: "S1", ProteinChange: "V600E", MutationType: "Missense_Mutation", ProteinStart: 600, ProteinEnd: 600, Chromosome: "7"},
		{Gene: "BRAF", SampleID: "S2", ProteinChange: "G469A", MutationType: "Missense_Mutation", ProteinStart: 469, ProteinEnd: 469},
		{Gene: "EGFR", SampleID: "S3", ProteinChange: "L858R", MutationType: "Missense_Mutation", ProteinStart: 858, ProteinEnd: 858},
	})
	cat := domain.StructureCatalog{"BRAF": {{PDBID: "1UWH", Chain: "A"}}}

	gen := usecase.NewGenerateScript(fakeMutations{set}, fakeStructures{cat}, scriptgen.For, usecase.WithStore(store))
	return Session{
		Root:           "/ws",
		Config:         domain.DefaultConfig(),
		MutationsPath:  "/ws/mutations/demo.txt",
		StructuresPath: "/ws/structures/mappings.yaml",
		Mutations:      fakeMutations{set},
		Generate:       gen,
	}, set, cat
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return mm, cmd
}

func loadedModel(t *testing.T, store *fakeStore) model {
	t.Helper()
	s, set, cat := testSession(store)
	m := newModel(Deps{StartDir: "/ws"})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, sessionLoadedMsg{session: s, set: set, catalog: cat})
	return m
}

func TestModel_NoWorkspaceOffersInit(t *testing.T) {
	initializer := &fakeInitializer{}
	m := newModel(Deps{StartDir: "/tmp/ws", WorkspaceInitializer: initializer})

	m, _ = update(t, m, workspaceResolvedMsg{err: errors.New("not found")})
	if m.scr != screenNoWorkspace {
		t.Fatalf("expected no-workspace screen, got %v", m.scr)
	}
	if !strings.Contains(m.View(), "No workspace found") {
		t.Fatalf("unexpected view:\n%s", m.View())
	}

	m, cmd := update(t, m, key("i"))
	if cmd == nil {
		t.Fatalf("expected init command")
	}
	msg, ok := cmd().(initWorkspaceDoneMsg)
	if !ok || msg.err != nil || initializer.root != "/tmp/ws" {
		t.Fatalf("unexpected init result: %+v (root=%q)", msg, initializer.root)
	}

	_, cmd = update(t, m, msg)
	if cmd == nil {
		t.Fatalf("expected session to be opened after init")
	}
}

func TestModel_GeneListShowsStructures(t *testing.T) {
	m := loadedModel(t, &fakeStore{})

	if m.scr != screenGenes || len(m.genes.Items()) != 2 {
		t.Fatalf("expected 2 genes on the gene screen, got scr=%v items=%d", m.scr, len(m.genes.Items()))
	}
	braf := m.genes.Items()[0].(geneItem)
	egfr := m.genes.Items()[1].(geneItem)
	if braf.desc != "2 mutation(s) · 1UWH:A" || egfr.desc != "1 mutation(s) · no structure" {
		t.Fatalf("unexpected descriptions: %q / %q", braf.desc, egfr.desc)
	}
}

func TestModel_HighlightPreviewAndSave(t *testing.T) {
	store := &fakeStore{}
	m := loadedModel(t, store)

	m, _ = update(t, m, key("enter"))
	if m.scr != screenMutations || m.gene != "BRAF" || len(m.muts) != 2 {
		t.Fatalf("expected BRAF mutation table, got scr=%v gene=%q", m.scr, m.gene)
	}
	if cols := m.table.Columns(); cols[len(cols)-1].Title != "Chr" {
		t.Fatalf("expected the Chr column to be visible, got %+v", cols)
	}

	m, _ = update(t, m, key(" "))
	if !m.highlighted[0] {
		t.Fatalf("expected first row highlighted")
	}
	if got := highlightTokens(m.muts, m.highlighted); !slices.Equal(got, []string{"600"}) {
		t.Fatalf("unexpected highlight tokens %v", got)
	}

	m, cmd := update(t, m, key("g"))
	if cmd == nil || !m.busy {
		t.Fatalf("expected preview command")
	}
	m, _ = update(t, m, cmd())
	if m.scr != screenPreview || m.result == nil {
		t.Fatalf("expected preview screen, err=%q", m.err)
	}
	if !slices.Equal(m.result.Highlight, []int{600}) {
		t.Fatalf("unexpected highlighted residues %v", m.result.Highlight)
	}
	if !strings.Contains(m.View(), "BRAF on 1UWH:A") {
		t.Fatalf("unexpected preview view:\n%s", m.View())
	}

	m, cmd = update(t, m, key("s"))
	if cmd == nil {
		t.Fatalf("expected save command")
	}
	m, _ = update(t, m, cmd())
	if store.saved != 1 || m.toast != "Saved ts_BRAF" || m.result.SavedID != "ts_BRAF" {
		t.Fatalf("unexpected save state: saved=%d toast=%q", store.saved, m.toast)
	}

	m, _ = update(t, m, key("esc"))
	if m.scr != screenMutations {
		t.Fatalf("expected esc to go back to the table, got %v", m.scr)
	}
}

func TestModel_ViewerSwitchRegeneratesPreview(t *testing.T) {
	m := loadedModel(t, &fakeStore{})
	m, _ = update(t, m, key("enter"))
	m, cmd := update(t, m, key("g"))
	m, _ = update(t, m, cmd())

	m, cmd = update(t, m, key("v"))
	if m.viewer != domain.ViewerJmol || cmd == nil {
		t.Fatalf("expected jmol regeneration, viewer=%s", m.viewer)
	}
	m, _ = update(t, m, cmd())
	if m.result.Script.Viewer != domain.ViewerJmol || !strings.Contains(m.result.Script.String(), "load=1UWH;") {
		t.Fatalf("expected jmol script:\n%s", m.result.Script.String())
	}
}

func TestModel_PreviewErrorIsShown(t *testing.T) {
	m := loadedModel(t, &fakeStore{})
	m.genes.Select(1)
	m, _ = update(t, m, key("enter"))
	if m.gene != "EGFR" {
		t.Fatalf("expected EGFR, got %q", m.gene)
	}

	m, cmd := update(t, m, key("g"))
	m, _ = update(t, m, cmd())
	if m.scr != screenMutations || m.err != "No structure for gene EGFR" {
		t.Fatalf("unexpected error state: scr=%v err=%q", m.scr, m.err)
	}
}

func TestSafeModel_PassesThrough(t *testing.T) {
	s := wrapSafe(newModel(Deps{}), nil)

	next, _ := s.Update(workspaceResolvedMsg{err: errors.New("nope")})
	sm, ok := next.(safeModel)
	if !ok || sm.m.scr != screenNoWorkspace {
		t.Fatalf("expected wrapped model on no-workspace screen, got %T", next)
	}
	if !strings.Contains(sm.View(), "No workspace found") {
		t.Fatalf("unexpected view:\n%s", sm.View())
	}
}

func TestFallbackScreen(t *testing.T) {
	m := newModel(Deps{})
	if got := fallbackScreen(m); got != screenNoWorkspace {
		t.Fatalf("empty model: got %v", got)
	}

	m.set = domain.NewMutationSet("demo.txt", []domain.Mutation{{Gene: "TP53", ProteinChange: "R248Q"}})
	m.scr = screenMutations
	if got := fallbackScreen(m); got != screenGenes {
		t.Fatalf("mutations screen: got %v", got)
	}

	m.scr, m.gene = screenPreview, "TP53"
	if got := fallbackScreen(m); got != screenMutations {
		t.Fatalf("preview screen: got %v", got)
	}
}
