package domain

// ProteinColoring selects how the chain of interest is colored.
type ProteinColoring string

const (
	ProteinUniform              ProteinColoring = "uniform"
	ProteinBySecondaryStructure ProteinColoring = "bySecondaryStructure"
	ProteinByChain              ProteinColoring = "byChain"
	ProteinByAtomType           ProteinColoring = "byAtomType"
)

// MutationColoring selects how mutated residues are colored.
type MutationColoring string

const (
	MutationsByType  MutationColoring = "byMutationType"
	MutationsUniform MutationColoring = "uniform"
	MutationsNone    MutationColoring = "none"
)

// SideChainMode selects which residues show their side chains.
type SideChainMode string

const (
	SideChainsNone        SideChainMode = "none"
	SideChainsHighlighted SideChainMode = "highlighted"
	SideChainsAll         SideChainMode = "all"
)

// DisplayOptions drive script composition. Transparency values use the
// 0-10 scale.
type DisplayOptions struct {
	BackgroundColor Color
	DefaultColor    Color
	ChainColor      Color
	HelixColor      Color
	SheetColor      Color
	MutationColor   Color
	HighlightColor  Color

	MutationTypeColors map[MutationClass]Color

	Style            RenderStyle
	ProteinColoring  ProteinColoring
	MutationColoring MutationColoring
	SideChains       SideChainMode

	RestrictProtein     bool
	DefaultTransparency int
	ChainTransparency   int
}

// DefaultDisplayOptions mirrors the portal's 3D view defaults.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{
		BackgroundColor: "#FFFFFF",
		DefaultColor:    "#DDDDDD",
		ChainColor:      "#888888",
		HelixColor:      "#FFA500",
		SheetColor:      "#0000FF",
		MutationColor:   "#8A2BE2",
		HighlightColor:  "#FFDD00",
		MutationTypeColors: map[MutationClass]Color{
			ClassMissense:   "#008000",
			ClassInframe:    "#8B4513",
			ClassTruncating: "#000000",
			ClassOther:      "#8B00C9",
		},
		Style:               StyleCartoon,
		ProteinColoring:     ProteinUniform,
		MutationColoring:    MutationsByType,
		SideChains:          SideChainsHighlighted,
		RestrictProtein:     false,
		DefaultTransparency: 0,
		ChainTransparency:   0,
	}
}

// ColorFor returns the color of a mutation class, falling back to
// MutationColor.
func (o DisplayOptions) ColorFor(c MutationClass) Color {
	if col, ok := o.MutationTypeColors[c]; ok && col != "" {
		return col
	}
	return o.MutationColor
}

// ProteinColorings lists the protein coloring schemes.
func ProteinColorings() []ProteinColoring {
	return []ProteinColoring{ProteinUniform, ProteinBySecondaryStructure, ProteinByChain, ProteinByAtomType}
}

func MutationColorings() []MutationColoring {
	return []MutationColoring{MutationsByType, MutationsUniform, MutationsNone}
}

func SideChainModes() []SideChainMode {
	return []SideChainMode{SideChainsNone, SideChainsHighlighted, SideChainsAll}
}

// ParseProteinColoring validates a protein coloring name.
func ParseProteinColoring(s string) (ProteinColoring, error) {
	switch ProteinColoring(s) {
	case ProteinUniform, ProteinBySecondaryStructure, ProteinByChain, ProteinByAtomType:
		return ProteinColoring(s), nil
	}
	return "", Unsupported("domain.protein_coloring", "protein coloring %q", s)
}

// ParseMutationColoring validates a mutation coloring name.
func ParseMutationColoring(s string) (MutationColoring, error) {
	switch MutationColoring(s) {
	case MutationsByType, MutationsUniform, MutationsNone:
		return MutationColoring(s), nil
	}
	return "", Unsupported("domain.mutation_coloring", "mutation coloring %q", s)
}

// ParseSideChainMode validates a side chain mode name.
func ParseSideChainMode(s string) (SideChainMode, error) {
	switch SideChainMode(s) {
	case SideChainsNone, SideChainsHighlighted, SideChainsAll:
		return SideChainMode(s), nil
	}
	return "", Unsupported("domain.side_chains", "side chain mode %q", s)
}
