package ports

import "github.com/varontron/mutation-mapper/internal/domain"

// WorkspaceInitializer creates the workspace layout and starter files.
type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
