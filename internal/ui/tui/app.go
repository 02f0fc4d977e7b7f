package tui

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

type screen int

const (
	screenLoading screen = iota
	screenNoWorkspace
	screenGenes
	screenMutations
	screenPreview
)

type geneItem struct {
	gene string
	desc string
}

func (g geneItem) Title() string       { return g.gene }
func (g geneItem) Description() string { return g.desc }
func (g geneItem) FilterValue() string { return g.gene }

type model struct {
	theme Theme
	deps  Deps
	log   *slog.Logger

	scr           screen
	width, height int

	root    string
	session Session
	set     domain.MutationSet
	catalog domain.StructureCatalog
	viewer  domain.Viewer

	genes list.Model

	gene        string
	muts        []domain.Mutation
	highlighted map[int]bool
	table       table.Model

	preview viewport.Model
	result  *usecase.GenerateResult

	busy  bool
	toast string
	err   string
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(wrapSafe(m, m.log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Genes"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	t := table.New(table.WithFocused(true), table.WithHeight(12))

	return model{
		theme:       DefaultTheme(),
		deps:        deps,
		log:         log,
		scr:         screenLoading,
		viewer:      domain.ViewerPyMOL,
		genes:       l,
		highlighted: map[int]bool{},
		table:       t,
		preview:     viewport.New(80, 20),
	}
}

func (m model) Init() tea.Cmd { return cmdResolveWorkspace(m.deps) }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.genes.SetSize(msg.Width-8, msg.Height-10)
		m.table.SetHeight(max(msg.Height-14, 3))
		m.preview.Width = max(msg.Width-8, 20)
		m.preview.Height = max(msg.Height-16, 3)
		return m, nil

	case workspaceResolvedMsg:
		if msg.err != nil {
			m.log.Info("tui.workspace.not_found", "start", m.deps.StartDir, "err", msg.err)
			m.scr = screenNoWorkspace
			return m, nil
		}
		m.root = msg.root
		m.busy = true
		return m, cmdOpenSession(m.deps, msg.root)

	case initWorkspaceDoneMsg:
		if msg.err != nil {
			m.log.Error("tui.workspace.init_failed", "root", msg.root, "err", msg.err)
			m.err = userMessage(msg.err)
			return m, nil
		}
		m.root = msg.root
		m.busy = true
		m.toast = "Workspace created"
		return m, cmdOpenSession(m.deps, msg.root)

	case sessionLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Error("tui.session.load_failed", "root", m.root, "err", msg.err)
			m.err = userMessage(msg.err)
			m.scr = screenNoWorkspace
			return m, nil
		}
		m.session, m.set, m.catalog = msg.session, msg.set, msg.catalog
		if v := msg.session.Config.Defaults.Viewer; v != "" {
			m.viewer = v
		}
		m.genes.SetItems(geneItems(m.set, m.catalog))
		m.scr = screenGenes
		m.err = ""
		return m, nil

	case previewMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Warn("tui.preview.failed", "gene", m.gene, "err", msg.err)
			m.err = userMessage(msg.err)
			return m, nil
		}
		res := msg.res
		m.result = &res
		m.preview.SetContent(res.Script.String())
		m.preview.GotoTop()
		m.scr = screenPreview
		m.err = ""
		return m, nil

	case savedMsg:
		m.busy = false
		if msg.err != nil {
			m.log.Error("tui.save.failed", "gene", m.gene, "err", msg.err)
			m.err = userMessage(msg.err)
			return m, nil
		}
		if m.result != nil {
			m.result.SavedID = msg.id
		}
		m.toast = "Saved " + msg.id
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.scr == screenGenes && m.genes.FilterState() == list.Filtering {
			break
		}
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}
	}

	var cmd tea.Cmd
	switch m.scr {
	case screenGenes:
		m.genes, cmd = m.genes.Update(msg)
	case screenMutations:
		m.table, cmd = m.table.Update(msg)
	case screenPreview:
		m.preview, cmd = m.preview.Update(msg)
	}
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	key := msg.String()

	switch m.scr {
	case screenNoWorkspace:
		switch key {
		case "q", "esc":
			return m, tea.Quit, true
		case "i":
			root := m.deps.StartDir
			if root == "" {
				root = "."
			}
			m.err = ""
			return m, cmdInitWorkspace(m.deps, root), true
		}

	case screenGenes:
		switch key {
		case "q":
			return m, tea.Quit, true
		case "v":
			m = m.toggleViewer()
			return m, nil, true
		case "enter":
			it, ok := m.genes.SelectedItem().(geneItem)
			if !ok {
				return m, nil, true
			}
			m = m.openGene(it.gene)
			return m, nil, true
		}

	case screenMutations:
		switch key {
		case "esc", "q":
			m.scr = screenGenes
			m.toast, m.err = "", ""
			return m, nil, true
		case " ", "space":
			i := m.table.Cursor()
			if i < 0 || i >= len(m.muts) {
				return m, nil, true
			}
			m.highlighted[i] = !m.highlighted[i]
			m.table.SetRows(mutationRows(m.set, m.gene, m.muts, m.highlighted))
			return m, nil, true
		case "v":
			m = m.toggleViewer()
			return m, nil, true
		case "g", "enter":
			m.busy = true
			return m, cmdPreview(m.session, m.set, m.catalog, m.request()), true
		}

	case screenPreview:
		switch key {
		case "esc", "q":
			m.scr = screenMutations
			m.toast, m.err = "", ""
			return m, nil, true
		case "v":
			m = m.toggleViewer()
			m.busy = true
			return m, cmdPreview(m.session, m.set, m.catalog, m.request()), true
		case "s":
			if m.result == nil || m.busy {
				return m, nil, true
			}
			m.busy = true
			return m, cmdSave(m.session, *m.result), true
		}
	}
	return m, nil, false
}

func (m model) openGene(gene string) model {
	m.gene = gene
	m.muts = m.set.ByGene(gene)
	m.highlighted = map[int]bool{}
	m.result = nil

	m.table.SetRows(nil)
	m.table.SetColumns(mutationColumns(m.set, gene))
	m.table.SetRows(mutationRows(m.set, gene, m.muts, m.highlighted))
	m.table.SetCursor(0)

	m.scr = screenMutations
	m.toast, m.err = "", ""
	return m
}

func (m model) toggleViewer() model {
	if m.viewer == domain.ViewerPyMOL {
		m.viewer = domain.ViewerJmol
	} else {
		m.viewer = domain.ViewerPyMOL
	}
	m.toast = "Viewer: " + string(m.viewer)
	return m
}

func (m model) request() usecase.GenerateRequest {
	cfg := m.session.Config
	return usecase.GenerateRequest{
		MutationsPath:  m.session.MutationsPath,
		StructuresPath: m.session.StructuresPath,
		Gene:           m.gene,
		Viewer:         m.viewer,
		Highlight:      highlightTokens(m.muts, m.highlighted),
		Display:        cfg.Display,
		Template:       cfg.Templates[m.viewer],
	}
}

func geneItems(set domain.MutationSet, cat domain.StructureCatalog) []list.Item {
	items := make([]list.Item, 0, len(set.Genes))
	for _, g := range set.Genes {
		items = append(items, geneItem{gene: g, desc: geneDescription(set, cat, g)})
	}
	return items
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("mutmapper") + "\n" +
		m.theme.Subtitle.Render("Mutations on 3D structures · viewer: "+string(m.viewer)) + "\n"

	var status string
	switch {
	case m.err != "":
		status = m.theme.Error.Render("✗ " + m.err)
	case m.busy:
		status = m.theme.Help.Render("working…")
	case m.toast != "":
		status = m.theme.Toast.Render(m.toast)
	}

	var body, help string
	switch m.scr {
	case screenLoading:
		body = "Looking for a workspace…"

	case screenNoWorkspace:
		dir := m.deps.StartDir
		if dir == "" {
			dir = "."
		}
		body = m.theme.Card.Render(fmt.Sprintf("⚠ No workspace found.\n\nPress i to create one in %s.", dir))
		help = "i init • q quit"

	case screenGenes:
		ws := m.theme.Help.Render(fmt.Sprintf("Workspace: %s · %s", m.root, filepath.Base(m.session.MutationsPath)))
		body = ws + "\n\n" + m.theme.Card.Render(m.genes.View())
		help = "↑/↓ navigate • enter mutations • / search • v viewer • q quit"

	case screenMutations:
		title := m.theme.Title.Render(fmt.Sprintf("%s · %d mutation(s)", m.gene, len(m.muts)))
		body = title + "\n\n" + m.table.View()
		help = "space highlight (" + m.theme.Highlight.Render(highlightMark) + ") • g preview • v viewer • esc back"

	case screenPreview:
		summary := ""
		if m.result != nil {
			summary = renderResultSummary(*m.result)
		}
		body = summary + "\n" + m.theme.Card.Render(m.preview.View())
		help = "↑/↓ scroll • s save • v viewer • esc back"

	default:
		body = "unknown state"
	}

	out := header + "\n" + body + "\n"
	if status != "" {
		out += status + "\n"
	}
	if help != "" {
		out += m.theme.Help.Render(help)
	}
	return wrap.Render(out)
}
