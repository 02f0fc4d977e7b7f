package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/config"
	"github.com/varontron/mutation-mapper/internal/infra/jsonmutations"
	"github.com/varontron/mutation-mapper/internal/infra/logger"
	"github.com/varontron/mutation-mapper/internal/infra/mutationsource"
	"github.com/varontron/mutation-mapper/internal/infra/scriptgen"
	"github.com/varontron/mutation-mapper/internal/infra/scriptstore"
	"github.com/varontron/mutation-mapper/internal/infra/tsvmutations"
	"github.com/varontron/mutation-mapper/internal/infra/workspacefinder"
	"github.com/varontron/mutation-mapper/internal/infra/yamlstructure"
	"github.com/varontron/mutation-mapper/internal/ports"
	"github.com/varontron/mutation-mapper/internal/ui/tui"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

var (
	mutationExts  = []string{".txt", ".tsv", ".maf", ".json"}
	structureExts = []string{".yaml", ".yml"}
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	mutations  ports.MutationLoader
	structures ports.StructureLoader
	store      *scriptstore.FileStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}
	return openWorkspace(root)
}

func openWorkspace(root string) (*workspaceCtx, error) {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		if !domain.IsKind(err, domain.KindNotFound) {
			return nil, err
		}
		logger.L().Warn("config.missing", "root", root, "err", err)
	}

	table := tsvmutations.NewLoader(tsvmutations.WithMutationsDir(cfg.Paths.MutationsDir))
	jsonLoader := jsonmutations.NewLoader(
		jsonmutations.WithMutationsDir(cfg.Paths.MutationsDir),
		jsonmutations.WithImport(cfg.JSONImport),
	)

	return &workspaceCtx{
		root:       root,
		cfg:        cfg,
		mutations:  mutationsource.New(table, jsonLoader),
		structures: yamlstructure.NewLoader(),
		store:      scriptstore.NewFileStore(root, cfg, scriptstore.WithIndex(true)),
	}, nil
}

// generator wires the generate usecase to this workspace. A nil store
// disables saving.
func (ws *workspaceCtx) generator(store ports.ScriptStore) *usecase.GenerateScript {
	opts := []usecase.GenerateOption{usecase.WithLogger(logger.Component("usecase"))}
	if store != nil {
		opts = append(opts, usecase.WithStore(store))
	}
	return usecase.NewGenerateScript(ws.mutations, ws.structures, scriptgen.For, opts...)
}

// openSession adapts a workspace for the TUI.
func openSession(root string) (tui.Session, error) {
	ws, err := openWorkspace(root)
	if err != nil {
		return tui.Session{}, err
	}
	mutationsPath, err := resolveMutationsPath(ws, "")
	if err != nil {
		return tui.Session{}, err
	}
	structuresPath, err := resolveStructuresPath(ws, "")
	if err != nil {
		return tui.Session{}, err
	}
	return tui.Session{
		Root:           ws.root,
		Config:         ws.cfg,
		MutationsPath:  mutationsPath,
		StructuresPath: structuresPath,
		Mutations:      ws.mutations,
		Generate:       ws.generator(ws.store),
	}, nil
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `mutmapper init`): %w", wd, err)
	}
	return root, nil
}

// resolveMutationsPath accepts a path, a file name under the mutations dir
// or a bare name ("demo"). Empty uses defaults.mutations_file.
func resolveMutationsPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		in = ws.cfg.Defaults.MutationsFile
	}
	return resolveInDir(ws.root, ws.cfg.Paths.MutationsDir, in, mutationExts, "mutation file")
}

func resolveStructuresPath(ws *workspaceCtx, arg string) (string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		in = ws.cfg.Defaults.StructuresFile
	}
	return resolveInDir(ws.root, ws.cfg.Paths.StructuresDir, in, structureExts, "structure file")
}

func resolveInDir(root, dir, in string, exts []string, what string) (string, error) {
	if in == "" {
		return "", fmt.Errorf("%s is required", what)
	}

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		return filepath.Clean(p), nil
	}

	base := filepath.Join(root, dir)
	if p := filepath.Join(base, in); fileExists(p) {
		return p, nil
	}
	for _, ext := range exts {
		if p := filepath.Join(base, in+ext); fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%s %q not found in %q", what, in, base)
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
