package ports

import "github.com/varontron/mutation-mapper/internal/domain"

// MutationLoader loads mutation tables from a source (e.g., filesystem).
type MutationLoader interface {
	LoadMutations(path string) (domain.MutationSet, error)
	ListMutationFiles(root string) ([]domain.MutationFileRef, error)
}
