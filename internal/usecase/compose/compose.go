// Package compose turns mapped mutations and display options into a full
// viewer script using a ports.ScriptGenerator.
package compose

import (
	"sort"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

// Request is everything needed to draw one structure.
// Highlight holds residue numbers of the structure chain.
type Request struct {
	Gene      string
	Structure domain.StructureMapping
	Mutations []domain.MappedMutation
	Highlight []int
	Display   domain.DisplayOptions
	Template  domain.ScriptTemplate
	Vars      domain.Vars
}

// Group is a set of residues painted with one color.
type Group struct {
	Class    domain.MutationClass
	Color    domain.Color
	Residues []int
}

type Composer struct {
	gen      ports.ScriptGenerator
	resolver *domain.VarResolver
}

type Option func(*Composer)

// WithResolver overrides the template resolver (useful for tests).
func WithResolver(r *domain.VarResolver) Option {
	return func(c *Composer) { c.resolver = r }
}

func New(gen ports.ScriptGenerator, opts ...Option) *Composer {
	c := &Composer{
		gen:      gen,
		resolver: domain.NewVarResolver(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose builds the script. The first invalid argument aborts composition.
func (c *Composer) Compose(req Request) (domain.Script, error) {
	g := c.gen
	sm := req.Structure
	opts := req.Display

	tmpl, err := c.resolveTemplate(req)
	if err != nil {
		return domain.Script{}, err
	}

	b := &builder{}

	// structure
	b.add(g.Reinitialize())
	b.try(g.BackgroundColor(opts.BackgroundColor))
	b.try(g.LoadStructure(sm.PDBID))
	if opts.RestrictProtein {
		b.add(g.HideBoundMolecules())
	}
	b.add(tmpl.Preamble)

	// style
	b.add(g.SelectAll())
	b.try(g.SetRenderStyle(opts.Style))
	b.try(g.SetColor(opts.DefaultColor))
	b.try(g.SetTransparency(opts.DefaultTransparency))

	b.try(g.SelectChain(sm.Chain))
	b.try(g.SetColor(opts.ChainColor))
	b.try(g.SetTransparency(opts.ChainTransparency))

	switch opts.ProteinColoring {
	case domain.ProteinUniform, "":
	case domain.ProteinBySecondaryStructure:
		b.try(g.SelectAlphaHelix(sm.Chain))
		b.try(g.SetColor(opts.HelixColor))
		b.try(g.SelectBetaSheet(sm.Chain))
		b.try(g.SetColor(opts.SheetColor))
	case domain.ProteinByChain:
		b.try(g.RainbowColor(sm.Chain))
	case domain.ProteinByAtomType:
		b.try(g.CPKColor(sm.Chain))
	default:
		b.fail(domain.Unsupported("compose.protein_coloring", "protein coloring %q", opts.ProteinColoring))
	}

	// mutations
	withSideChains := opts.SideChains == domain.SideChainsAll
	groups, err := Groups(req.Mutations, opts)
	b.fail(err)
	for _, grp := range groups {
		b.paint(g, grp.Residues, sm.Chain, grp.Color, withSideChains)
	}

	// highlight
	if hl := sortedUnique(req.Highlight); len(hl) > 0 {
		side := opts.SideChains == domain.SideChainsHighlighted || opts.SideChains == domain.SideChainsAll
		b.paint(g, hl, sm.Chain, opts.HighlightColor, side)
	}

	b.add(tmpl.Postamble)

	if b.err != nil {
		return domain.Script{}, b.err
	}
	return domain.Script{
		Viewer:   g.Viewer(),
		Gene:     req.Gene,
		PDBID:    sm.PDBID,
		Chain:    sm.Chain,
		Commands: b.cmds,
	}, nil
}

// Groups splits mapped mutations into paint groups. With per-type coloring
// the groups follow domain.MutationClasses order and empty classes are
// dropped. Residues are sorted and unique within a group.
func Groups(muts []domain.MappedMutation, opts domain.DisplayOptions) ([]Group, error) {
	switch opts.MutationColoring {
	case domain.MutationsNone:
		return nil, nil
	case domain.MutationsUniform:
		all := make([]int, 0, len(muts))
		for _, m := range muts {
			all = append(all, m.Residue)
		}
		if len(all) == 0 {
			return nil, nil
		}
		return []Group{{Color: opts.MutationColor, Residues: sortedUnique(all)}}, nil
	case domain.MutationsByType, "":
		byClass := map[domain.MutationClass][]int{}
		for _, m := range muts {
			cl := m.Mutation.Class()
			byClass[cl] = append(byClass[cl], m.Residue)
		}
		var out []Group
		for _, cl := range domain.MutationClasses() {
			res := byClass[cl]
			if len(res) == 0 {
				continue
			}
			out = append(out, Group{Class: cl, Color: opts.ColorFor(cl), Residues: sortedUnique(res)})
		}
		return out, nil
	default:
		return nil, domain.Unsupported("compose.mutation_coloring", "mutation coloring %q", opts.MutationColoring)
	}
}

func (c *Composer) resolveTemplate(req Request) (domain.ScriptTemplate, error) {
	if req.Template.Preamble == "" && req.Template.Postamble == "" {
		return domain.ScriptTemplate{}, nil
	}

	vars := domain.Vars{}
	for k, v := range req.Vars {
		vars[k] = v
	}
	vars["pdb_id"] = req.Structure.PDBID
	vars["chain"] = req.Structure.Chain
	vars["gene"] = req.Gene
	vars["viewer"] = string(c.gen.Viewer())

	rt, err := c.resolver.NewRuntime(vars)
	if err != nil {
		return domain.ScriptTemplate{}, err
	}
	return rt.ResolveTemplate(req.Template)
}

type builder struct {
	cmds []string
	err  error
}

func (b *builder) add(cmd string) {
	if b.err != nil || cmd == "" {
		return
	}
	b.cmds = append(b.cmds, cmd)
}

func (b *builder) try(cmd string, err error) {
	b.fail(err)
	b.add(cmd)
}

func (b *builder) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func (b *builder) paint(g ports.ScriptGenerator, residues []int, chain string, color domain.Color, sideChains bool) {
	b.try(g.SelectPositions(residues, chain))
	b.try(g.SetColor(color))
	if sideChains {
		b.try(g.SelectSideChains(residues, chain))
		b.add(g.EnableBallAndStick())
	}
}

func sortedUnique(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	out := append([]int(nil), in...)
	sort.Ints(out)
	n := 1
	for i := 1; i < len(out); i++ {
		if out[i] != out[n-1] {
			out[n] = out[i]
			n++
		}
	}
	return out[:n]
}
