package scriptgen

import (
	"testing"

	"github.com/varontron/mutation-mapper/internal/domain"
)

func TestFor(t *testing.T) {
	for _, v := range domain.Viewers() {
		g, err := For(v)
		if err != nil {
			t.Fatalf("For(%q): %v", v, err)
		}
		if g.Viewer() != v {
			t.Fatalf("For(%q) returned %q generator", v, g.Viewer())
		}
	}

	if _, err := For("chimera"); !domain.IsKind(err, domain.KindUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

func TestForName(t *testing.T) {
	g, err := ForName("PyMOL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Reinitialize() != "reinitialize;" {
		t.Fatalf("expected the pymol generator")
	}
	if _, err := ForName(""); !domain.IsKind(err, domain.KindUnsupported) {
		t.Fatalf("expected unsupported, got %v", err)
	}
}
