package ports

import "github.com/varontron/mutation-mapper/internal/domain"

// ScriptGenerator translates the abstract visualization vocabulary into the
// command syntax of one viewer. Implementations are stateless: every call is
// a pure function of its arguments, and invalid arguments are reported as
// domain.KindInvalidArgument or domain.KindUnsupported errors.
type ScriptGenerator interface {
	Viewer() domain.Viewer

	Reinitialize() string
	SelectAll() string
	LoadStructure(pdbID string) (string, error)

	BackgroundColor(color domain.Color) (string, error)
	SetColor(color domain.Color) (string, error)
	SetRenderStyle(style domain.RenderStyle) (string, error)

	SelectChain(chainID string) (string, error)
	SelectAlphaHelix(chainID string) (string, error)
	SelectBetaSheet(chainID string) (string, error)
	SelectPositions(positions []int, chainID string) (string, error)
	SelectSideChains(positions []int, chainID string) (string, error)

	// SetTransparency takes a level on the 0-10 scale.
	SetTransparency(level int) (string, error)
	EnableBallAndStick() string
	DisableBallAndStick() string

	RainbowColor(chainID string) (string, error)
	CPKColor(chainID string) (string, error)
	HideBoundMolecules() string
}
