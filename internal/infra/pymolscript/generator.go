// Package pymolscript generates command strings for the PyMOL console.
package pymolscript

import (
	"strconv"
	"strings"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

// styleScripts are the predefined render style commands. PyMOL has no trace
// representation, ribbon is the closest one.
var styleScripts = map[domain.RenderStyle]string{
	domain.StyleBallAndStick: "hide everything; show spheres; show sticks; alter all, vdw=0.50",
	domain.StyleSpaceFilling: "hide everything; show spheres;",
	domain.StyleRibbon:       "hide everything; show ribbon;",
	domain.StyleCartoon:      "hide everything; show cartoon;",
	domain.StyleTrace:        "hide everything; show ribbon;",
}

// standardResidues restricts the scene to protein.
var standardResidues = []string{
	"asp", "glu", "arg", "lys", "his", "asn", "thr", "cys", "gln", "tyr",
	"ser", "gly", "ala", "leu", "val", "ile", "met", "trp", "phe", "pro",
}

// Generator is the PyMOL flavored script generator.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

var _ ports.ScriptGenerator = (*Generator)(nil)

func (g *Generator) Viewer() domain.Viewer { return domain.ViewerPyMOL }

func (g *Generator) Reinitialize() string {
	return "reinitialize;"
}

func (g *Generator) SelectAll() string {
	return "select all;"
}

func (g *Generator) LoadStructure(pdbID string) (string, error) {
	if err := domain.ValidateStructureID("pymolscript.load_structure", pdbID); err != nil {
		return "", err
	}
	return "fetch " + pdbID + ", async=0;", nil
}

func (g *Generator) BackgroundColor(color domain.Color) (string, error) {
	c, err := formatColor("pymolscript.background_color", color)
	if err != nil {
		return "", err
	}
	return "bg_color " + c + ";", nil
}

func (g *Generator) SetColor(color domain.Color) (string, error) {
	c, err := formatColor("pymolscript.set_color", color)
	if err != nil {
		return "", err
	}
	return "color " + c + ", sele;", nil
}

func (g *Generator) SetRenderStyle(style domain.RenderStyle) (string, error) {
	s, ok := styleScripts[style]
	if !ok {
		return "", domain.Unsupported("pymolscript.set_render_style", "render style %q", style)
	}
	return s, nil
}

func (g *Generator) SelectChain(chainID string) (string, error) {
	if err := domain.ValidateChainID("pymolscript.select_chain", chainID); err != nil {
		return "", err
	}
	return "select chain " + chainID + ";", nil
}

func (g *Generator) SelectAlphaHelix(chainID string) (string, error) {
	if err := domain.ValidateChainID("pymolscript.select_alpha_helix", chainID); err != nil {
		return "", err
	}
	return "select (chain " + chainID + ") and (ss h);", nil
}

func (g *Generator) SelectBetaSheet(chainID string) (string, error) {
	if err := domain.ValidateChainID("pymolscript.select_beta_sheet", chainID); err != nil {
		return "", err
	}
	return "select (chain " + chainID + ") and (ss s);", nil
}

func (g *Generator) SelectPositions(positions []int, chainID string) (string, error) {
	const op = "pymolscript.select_positions"
	if err := validateResidues(op, positions, chainID); err != nil {
		return "", err
	}
	return "select (resi " + resiList(positions) + ") and (chain " + chainID + ");", nil
}

func (g *Generator) SelectSideChains(positions []int, chainID string) (string, error) {
	const op = "pymolscript.select_side_chains"
	if err := validateResidues(op, positions, chainID); err != nil {
		return "", err
	}
	return "select ((resi " + resiList(positions) + ") and (chain " + chainID + ") and (not name c+n+o));", nil
}

// SetTransparency scales the level to PyMOL's 0-1 range for every
// representation. cartoon_transparency is ignored by PyMOL for chain or
// residue selections (sourceforge pymol bug 129).
func (g *Generator) SetTransparency(level int) (string, error) {
	if err := domain.ValidateTransparency("pymolscript.set_transparency", level); err != nil {
		return "", err
	}
	v := scale(level)
	return "set transparency, " + v + ", sele;\n" +
		"set cartoon_transparency, " + v + ", sele;\n" +
		"set sphere_transparency, " + v + ", sele;\n" +
		"set stick_transparency, " + v + ", sele;", nil
}

func (g *Generator) EnableBallAndStick() string {
	return "show spheres, sele; show sticks, sele; alter sele, vdw=0.50;"
}

func (g *Generator) DisableBallAndStick() string {
	return "hide spheres, sele; hide sticks, sele;"
}

// RainbowColor colors the current selection; callers select the chain first.
func (g *Generator) RainbowColor(chainID string) (string, error) {
	if err := domain.ValidateChainID("pymolscript.rainbow_color", chainID); err != nil {
		return "", err
	}
	return "spectrum count, rainbow_rev, sele", nil
}

// CPKColor colors the current selection; callers select the chain first.
func (g *Generator) CPKColor(chainID string) (string, error) {
	if err := domain.ValidateChainID("pymolscript.cpk_color", chainID); err != nil {
		return "", err
	}
	return "util.cbaw sele;", nil
}

func (g *Generator) HideBoundMolecules() string {
	return "hide everything," +
		"not resn " + strings.Join(standardResidues, "+")
}

// formatColor turns #RRGGBB into PyMOL's 0xRRGGBB literal.
func formatColor(op string, color domain.Color) (string, error) {
	if err := domain.ValidateColor(op, color); err != nil {
		return "", err
	}
	return "0x" + color.Hex(), nil
}

func validateResidues(op string, positions []int, chainID string) error {
	if err := domain.ValidatePositions(op, positions); err != nil {
		return err
	}
	return domain.ValidateChainID(op, chainID)
}

// resiList renders residue numbers for a resi selector. A bare minus is
// PyMOL's range operator, so negative numbers are escaped.
func resiList(in []int) string {
	parts := make([]string, len(in))
	for i, v := range in {
		parts[i] = strconv.Itoa(v)
		if v < 0 {
			parts[i] = `\` + parts[i]
		}
	}
	return strings.Join(parts, ",")
}

func scale(level int) string {
	return strconv.FormatFloat(float64(level)/10, 'f', -1, 64)
}
