package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
	"github.com/varontron/mutation-mapper/internal/usecase/compose"
)

// GeneratorFor returns the script generator of a viewer.
type GeneratorFor func(domain.Viewer) (ports.ScriptGenerator, error)

// GenerateRequest selects what to draw. Empty Gene picks the only gene in
// the file; empty PDBID/Chain pick the first matching structure. Highlight
// tokens are protein changes (V600E) or protein positions (600).
type GenerateRequest struct {
	MutationsPath  string
	StructuresPath string

	Gene      string
	PDBID     string
	Chain     string
	Viewer    domain.Viewer
	Highlight []string

	Display  domain.DisplayOptions
	Template domain.ScriptTemplate
	Vars     domain.Vars

	Save bool
}

type GenerateResult struct {
	Script    domain.Script
	Source    string
	Structure domain.StructureMapping

	Mapped   []domain.MappedMutation
	Unmapped []domain.Mutation

	Highlight          []int
	UnmappedHighlights []string
	SavedID            string
}

type GenerateScript struct {
	mutations  ports.MutationLoader
	structures ports.StructureLoader
	generators GeneratorFor
	store      ports.ScriptStore
	resolver   *domain.VarResolver
	logger     *slog.Logger
	now        func() time.Time
}

type GenerateOption func(*GenerateScript)

// WithStore enables GenerateRequest.Save.
func WithStore(s ports.ScriptStore) GenerateOption {
	return func(uc *GenerateScript) { uc.store = s }
}

func WithLogger(l *slog.Logger) GenerateOption {
	return func(uc *GenerateScript) { uc.logger = l }
}

// WithResolver overrides the template resolver (useful for tests).
func WithResolver(r *domain.VarResolver) GenerateOption {
	return func(uc *GenerateScript) { uc.resolver = r }
}

// WithClock is useful for tests.
func WithClock(now func() time.Time) GenerateOption {
	return func(uc *GenerateScript) { uc.now = now }
}

func NewGenerateScript(ml ports.MutationLoader, sl ports.StructureLoader, gens GeneratorFor, opts ...GenerateOption) *GenerateScript {
	uc := &GenerateScript{
		mutations:  ml,
		structures: sl,
		generators: gens,
		resolver:   domain.NewVarResolver(),
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Load reads both inputs.
func (uc *GenerateScript) Load(mutationsPath, structuresPath string) (domain.MutationSet, domain.StructureCatalog, error) {
	set, err := uc.mutations.LoadMutations(mutationsPath)
	if err != nil {
		return domain.MutationSet{}, nil, err
	}
	cat, err := uc.structures.LoadStructures(structuresPath)
	if err != nil {
		return domain.MutationSet{}, nil, err
	}
	return set, cat, nil
}

// Execute loads the inputs, builds the script and saves it when asked.
func (uc *GenerateScript) Execute(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if err := ctx.Err(); err != nil {
		return GenerateResult{}, err
	}

	uc.logger.Info("script.generate.start", "mutations", req.MutationsPath, "structures", req.StructuresPath, "gene", req.Gene, "viewer", req.Viewer)

	set, cat, err := uc.Load(req.MutationsPath, req.StructuresPath)
	if err != nil {
		uc.logger.Error("script.generate.load_failed", "err", err)
		return GenerateResult{}, err
	}

	res, err := uc.Build(set, cat, req)
	if err != nil {
		uc.logger.Error("script.generate.failed", "gene", req.Gene, "err", err)
		return GenerateResult{}, err
	}

	if req.Save {
		if err := uc.Save(&res); err != nil {
			return res, err
		}
	}

	uc.logger.Info("script.generate.done",
		"gene", res.Script.Gene,
		"structure", res.Structure.Label(),
		"mapped", len(res.Mapped),
		"unmapped", len(res.Unmapped),
		"saved", res.SavedID,
	)
	return res, nil
}

// Build composes the script from already loaded inputs.
func (uc *GenerateScript) Build(set domain.MutationSet, cat domain.StructureCatalog, req GenerateRequest) (GenerateResult, error) {
	const op = "usecase.generate_script"

	gene, err := pickGene(set, req.Gene)
	if err != nil {
		return GenerateResult{}, err
	}

	sm, ok := cat.Find(gene, req.PDBID, req.Chain)
	if !ok {
		return GenerateResult{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("no structure for gene %s%s: %w", gene, describeFilter(req.PDBID, req.Chain), domain.ErrNotFound),
		}
	}

	viewer := req.Viewer
	if viewer == "" {
		viewer = domain.ViewerPyMOL
	}
	gen, err := uc.generators(viewer)
	if err != nil {
		return GenerateResult{}, err
	}

	mapped, unmapped := domain.MapMutations(set.ByGene(gene), sm)
	hl, missed, err := MapHighlights(req.Highlight, sm)
	if err != nil {
		return GenerateResult{}, err
	}

	script, err := compose.New(gen, compose.WithResolver(uc.resolver)).Compose(compose.Request{
		Gene:      gene,
		Structure: sm,
		Mutations: mapped,
		Highlight: hl,
		Display:   req.Display,
		Template:  req.Template,
		Vars:      req.Vars,
	})
	if err != nil {
		return GenerateResult{}, err
	}

	return GenerateResult{
		Script:             script,
		Source:             set.Source,
		Structure:          sm,
		Mapped:             mapped,
		Unmapped:           unmapped,
		Highlight:          hl,
		UnmappedHighlights: missed,
	}, nil
}

// Save persists res.Script and records the id in res.SavedID.
func (uc *GenerateScript) Save(res *GenerateResult) error {
	if uc.store == nil {
		return domain.Unsupported("usecase.generate_script", "saving scripts without a store")
	}
	id, err := uc.store.SaveScript(domain.ScriptArtifact{
		Script:    res.Script,
		Source:    res.Source,
		Mapped:    len(res.Mapped),
		Unmapped:  len(res.Unmapped),
		CreatedAt: uc.now(),
	})
	if err != nil {
		return err
	}
	res.SavedID = id
	return nil
}

// MapHighlights converts highlight tokens to residues of sm. Tokens that
// parse but fall outside the structure are returned in missed.
func MapHighlights(tokens []string, sm domain.StructureMapping) (residues []int, missed []string, err error) {
	for _, raw := range tokens {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			continue
		}
		pos, perr := strconv.Atoi(tok)
		if perr != nil {
			start, _, ok := domain.ParseProteinChange(tok)
			if !ok {
				return nil, nil, domain.InvalidArgument("usecase.highlight", "cannot read a protein position from %q", tok)
			}
			pos = start
		}
		if pos <= 0 {
			return nil, nil, domain.InvalidArgument("usecase.highlight", "position %q must be positive", tok)
		}

		res, ok := sm.MapPosition(pos)
		if !ok {
			missed = append(missed, tok)
			continue
		}
		residues = append(residues, res)
	}
	return residues, missed, nil
}

func pickGene(set domain.MutationSet, gene string) (string, error) {
	const op = "usecase.generate_script"

	gene = strings.TrimSpace(gene)
	if gene == "" {
		if len(set.Genes) == 1 {
			return set.Genes[0], nil
		}
		return "", domain.InvalidArgument(op, "gene is required (%d genes in %s)", len(set.Genes), set.Source)
	}
	for _, g := range set.Genes {
		if strings.EqualFold(g, gene) {
			return g, nil
		}
	}
	return "", &domain.OpError{
		Op:   op,
		Kind: domain.KindNotFound,
		Path: set.Source,
		Err:  fmt.Errorf("gene %s has no mutations: %w", gene, domain.ErrNotFound),
	}
}

func describeFilter(pdbID, chain string) string {
	switch {
	case pdbID != "" && chain != "":
		return " matching " + pdbID + ":" + chain
	case pdbID != "":
		return " matching " + pdbID
	case chain != "":
		return " with chain " + chain
	default:
		return ""
	}
}
