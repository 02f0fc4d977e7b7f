package tui

import (
	"log/slog"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

type Deps struct {
	// StartDir is where the workspace search begins; Workspace, when set,
	// is used as the root directly.
	StartDir  string
	Workspace string

	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer

	// Open wires a workspace root into a Session.
	Open func(root string) (Session, error)

	Logger *slog.Logger
	Debug  bool
}

// Session is an opened workspace.
type Session struct {
	Root   string
	Config domain.Config

	MutationsPath  string
	StructuresPath string

	Mutations ports.MutationLoader
	Generate  *usecase.GenerateScript
}
