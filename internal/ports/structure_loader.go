package ports

import "github.com/varontron/mutation-mapper/internal/domain"

// StructureLoader loads the gene → structure catalog.
type StructureLoader interface {
	LoadStructures(path string) (domain.StructureCatalog, error)
}
