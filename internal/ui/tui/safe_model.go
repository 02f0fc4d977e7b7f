package tui

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicMessage = "Unexpected error (see logs)"

// safeModel keeps the program alive when Update or View panics: the panic
// is logged and the user lands one screen back from where it happened.
type safeModel struct {
	m   model
	log *slog.Logger
}

func wrapSafe(m model, log *slog.Logger) safeModel {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return safeModel{m: m, log: log}
}

func (s safeModel) Init() tea.Cmd { return s.m.Init() }

func (s safeModel) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("update", r)
			s.m.scr = fallbackScreen(s.m)
			s.m.busy = false
			s.m.err = panicMessage
			next, cmd = s, nil
		}
	}()

	inner, c := s.m.Update(msg)
	switch v := inner.(type) {
	case model:
		s.m = v
	case safeModel:
		s = v
	}
	return s, c
}

func (s safeModel) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			s.logPanic("view", r)
			out = panicMessage
		}
	}()
	return s.m.View()
}

func (s safeModel) logPanic(where string, r any) {
	s.log.Error("tui.panic",
		"where", where,
		"screen", int(s.m.scr),
		"gene", s.m.gene,
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

func fallbackScreen(m model) screen {
	switch {
	case m.scr == screenPreview && m.gene != "":
		return screenMutations
	case len(m.set.Genes) > 0:
		return screenGenes
	default:
		return screenNoWorkspace
	}
}

var _ tea.Model = safeModel{}
