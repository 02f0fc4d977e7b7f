package tui

import (
	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

type workspaceResolvedMsg struct {
	root string
	err  error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type sessionLoadedMsg struct {
	session Session
	set     domain.MutationSet
	catalog domain.StructureCatalog
	err     error
}

type previewMsg struct {
	res usecase.GenerateResult
	err error
}

type savedMsg struct {
	id  string
	err error
}
