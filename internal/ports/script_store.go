package ports

import "github.com/varontron/mutation-mapper/internal/domain"

// ScriptStore persists generated scripts so they can be replayed in a viewer.
// Implementations must be safe for concurrent use.
type ScriptStore interface {
	SaveScript(art domain.ScriptArtifact) (id string, err error)
}
