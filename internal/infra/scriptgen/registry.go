// Package scriptgen selects the script generator for a viewer.
package scriptgen

import (
	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/jmolscript"
	"github.com/varontron/mutation-mapper/internal/infra/pymolscript"
	"github.com/varontron/mutation-mapper/internal/ports"
)

// For returns the generator for v.
func For(v domain.Viewer) (ports.ScriptGenerator, error) {
	switch v {
	case domain.ViewerPyMOL:
		return pymolscript.New(), nil
	case domain.ViewerJmol:
		return jmolscript.New(), nil
	default:
		return nil, domain.Unsupported("scriptgen.for", "viewer %q", v)
	}
}

// ForName parses name and returns its generator.
func ForName(name string) (ports.ScriptGenerator, error) {
	v, err := domain.ParseViewer(name)
	if err != nil {
		return nil, err
	}
	return For(v)
}
