package domain

import "strings"

// RenderStyle is one of the standard molecular rendering styles.
type RenderStyle string

const (
	StyleBallAndStick RenderStyle = "ballAndStick"
	StyleSpaceFilling RenderStyle = "spaceFilling"
	StyleRibbon       RenderStyle = "ribbon"
	StyleCartoon      RenderStyle = "cartoon"
	StyleTrace        RenderStyle = "trace"
)

// RenderStyles lists every supported style in display order.
func RenderStyles() []RenderStyle {
	return []RenderStyle{
		StyleBallAndStick,
		StyleSpaceFilling,
		StyleRibbon,
		StyleCartoon,
		StyleTrace,
	}
}

// ParseRenderStyle matches s case-insensitively against the supported styles.
func ParseRenderStyle(s string) (RenderStyle, error) {
	in := strings.TrimSpace(s)
	for _, st := range RenderStyles() {
		if strings.EqualFold(in, string(st)) {
			return st, nil
		}
	}
	return "", Unsupported("domain.render_style", "render style %q", s)
}
