package domain

import "strings"

// Color is a hex RGB color in the #RRGGBB form used by the portal UI.
type Color string

// ParseColor validates s and returns it as a Color. Surrounding whitespace is
// ignored; the case of the hex digits is preserved.
func ParseColor(s string) (Color, error) {
	c := Color(strings.TrimSpace(s))
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate reports whether c is exactly '#' followed by six hex digits.
func (c Color) Validate() error {
	return ValidateColor("domain.color", c)
}

// ValidateColor is Validate with the caller's operation name in the error.
func ValidateColor(op string, c Color) error {
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return InvalidArgument(op, "color %q must look like #RRGGBB", s)
	}
	for i := 1; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return InvalidArgument(op, "color %q must look like #RRGGBB", s)
		}
	}
	return nil
}

// Hex returns the six hex digits without the leading '#'.
func (c Color) Hex() string {
	return strings.TrimPrefix(string(c), "#")
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
