// Package jmolscript generates Jmol/JSmol script commands.
package jmolscript

import (
	"strconv"
	"strings"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

// styleScripts switch off every other representation before enabling the
// requested one, so styles can be changed without reloading.
var styleScripts = map[domain.RenderStyle]string{
	domain.StyleBallAndStick: "cartoon OFF; ribbon OFF; trace OFF; wireframe ON; spacefill 20%;",
	domain.StyleSpaceFilling: "cartoon OFF; ribbon OFF; trace OFF; wireframe OFF; spacefill 100%;",
	domain.StyleRibbon:       "cartoon OFF; trace OFF; wireframe OFF; spacefill OFF; ribbon ON;",
	domain.StyleCartoon:      "ribbon OFF; trace OFF; wireframe OFF; spacefill OFF; cartoon ON;",
	domain.StyleTrace:        "cartoon OFF; ribbon OFF; wireframe OFF; spacefill OFF; trace 0.3;",
}

// Generator is the Jmol flavored script generator.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

var _ ports.ScriptGenerator = (*Generator)(nil)

func (g *Generator) Viewer() domain.Viewer { return domain.ViewerJmol }

func (g *Generator) Reinitialize() string {
	return "zap;"
}

func (g *Generator) SelectAll() string {
	return "select all;"
}

func (g *Generator) LoadStructure(pdbID string) (string, error) {
	if err := domain.ValidateStructureID("jmolscript.load_structure", pdbID); err != nil {
		return "", err
	}
	return "load=" + pdbID + ";", nil
}

func (g *Generator) BackgroundColor(color domain.Color) (string, error) {
	c, err := formatColor("jmolscript.background_color", color)
	if err != nil {
		return "", err
	}
	return "background " + c + ";", nil
}

func (g *Generator) SetColor(color domain.Color) (string, error) {
	c, err := formatColor("jmolscript.set_color", color)
	if err != nil {
		return "", err
	}
	return "color [" + c + "];", nil
}

func (g *Generator) SetRenderStyle(style domain.RenderStyle) (string, error) {
	s, ok := styleScripts[style]
	if !ok {
		return "", domain.Unsupported("jmolscript.set_render_style", "render style %q", style)
	}
	return s, nil
}

func (g *Generator) SelectChain(chainID string) (string, error) {
	if err := domain.ValidateChainID("jmolscript.select_chain", chainID); err != nil {
		return "", err
	}
	return "select " + chainExpr(chainID) + ";", nil
}

func (g *Generator) SelectAlphaHelix(chainID string) (string, error) {
	if err := domain.ValidateChainID("jmolscript.select_alpha_helix", chainID); err != nil {
		return "", err
	}
	return "select " + chainExpr(chainID) + " and helix;", nil
}

func (g *Generator) SelectBetaSheet(chainID string) (string, error) {
	if err := domain.ValidateChainID("jmolscript.select_beta_sheet", chainID); err != nil {
		return "", err
	}
	return "select " + chainExpr(chainID) + " and sheet;", nil
}

func (g *Generator) SelectPositions(positions []int, chainID string) (string, error) {
	const op = "jmolscript.select_positions"
	if err := validateResidues(op, positions, chainID); err != nil {
		return "", err
	}
	return "select (" + joinInts(positions) + ") and " + chainExpr(chainID) + ";", nil
}

// SelectSideChains keeps the alpha carbon so the side chain stays attached
// to the backbone trace.
func (g *Generator) SelectSideChains(positions []int, chainID string) (string, error) {
	const op = "jmolscript.select_side_chains"
	if err := validateResidues(op, positions, chainID); err != nil {
		return "", err
	}
	res := "(" + joinInts(positions) + ")"
	chain := chainExpr(chainID)
	return "select (" + res + " and " + chain + " and sidechain) or " +
		"(" + res + " and " + chain + " and *.CA);", nil
}

func (g *Generator) SetTransparency(level int) (string, error) {
	if err := domain.ValidateTransparency("jmolscript.set_transparency", level); err != nil {
		return "", err
	}
	if level == 0 {
		return "color opaque;", nil
	}
	return "color translucent " + strconv.FormatFloat(float64(level)/10, 'f', -1, 64) + ";", nil
}

func (g *Generator) EnableBallAndStick() string {
	return "wireframe 0.15; spacefill 25%;"
}

func (g *Generator) DisableBallAndStick() string {
	return "wireframe OFF; spacefill OFF;"
}

func (g *Generator) RainbowColor(chainID string) (string, error) {
	if err := domain.ValidateChainID("jmolscript.rainbow_color", chainID); err != nil {
		return "", err
	}
	return "select " + chainExpr(chainID) + "; color group;", nil
}

func (g *Generator) CPKColor(chainID string) (string, error) {
	if err := domain.ValidateChainID("jmolscript.cpk_color", chainID); err != nil {
		return "", err
	}
	return "select " + chainExpr(chainID) + "; color cpk;", nil
}

func (g *Generator) HideBoundMolecules() string {
	return "restrict protein;"
}

// formatColor turns #RRGGBB into Jmol's xRRGGBB literal.
func formatColor(op string, color domain.Color) (string, error) {
	if err := domain.ValidateColor(op, color); err != nil {
		return "", err
	}
	return "x" + color.Hex(), nil
}

func validateResidues(op string, positions []int, chainID string) error {
	if err := domain.ValidatePositions(op, positions); err != nil {
		return err
	}
	return domain.ValidateChainID(op, chainID)
}

// chainExpr is the chain atom expression. The bare :X form reads one
// character, so longer ids are braced.
func chainExpr(chainID string) string {
	if len(chainID) > 1 {
		return ":{" + chainID + "}"
	}
	return ":" + chainID
}

// joinInts lists residue numbers. A leading minus would read as a range, so
// negative numbers use the resno comparison.
func joinInts(in []int) string {
	parts := make([]string, len(in))
	for i, v := range in {
		parts[i] = strconv.Itoa(v)
		if v < 0 {
			parts[i] = "resno=" + parts[i]
		}
	}
	return strings.Join(parts, ", ")
}
