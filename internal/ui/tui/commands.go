package tui

import (
	"errors"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

func cmdResolveWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		if w := strings.TrimSpace(deps.Workspace); w != "" {
			abs, err := filepath.Abs(w)
			return workspaceResolvedMsg{root: abs, err: err}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceResolvedMsg{err: errors.New("WorkspaceLocator is nil")}
		}

		root, err := deps.WorkspaceLocator.FindRoot(deps.StartDir)
		return workspaceResolvedMsg{root: root, err: err}
	}
}

func cmdInitWorkspace(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}
		err := usecase.NewInitWorkspace(deps.WorkspaceInitializer, usecase.WithInitLogger(deps.Logger)).Execute(root, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

// cmdOpenSession opens the workspace and loads both inputs once; previews
// reuse them.
func cmdOpenSession(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.Open == nil {
			return sessionLoadedMsg{err: errors.New("Open is nil")}
		}
		s, err := deps.Open(root)
		if err != nil {
			return sessionLoadedMsg{err: err}
		}
		set, cat, err := s.Generate.Load(s.MutationsPath, s.StructuresPath)
		return sessionLoadedMsg{session: s, set: set, catalog: cat, err: err}
	}
}

func cmdPreview(s Session, set domain.MutationSet, cat domain.StructureCatalog, req usecase.GenerateRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := s.Generate.Build(set, cat, req)
		return previewMsg{res: res, err: err}
	}
}

func cmdSave(s Session, res usecase.GenerateResult) tea.Cmd {
	return func() tea.Msg {
		err := s.Generate.Save(&res)
		return savedMsg{id: res.SavedID, err: err}
	}
}
