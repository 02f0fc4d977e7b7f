package fsworkspace

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

const gitignoreHeader = "# mutmapper"

// Initializer lays out a workspace on disk and seeds it with the embedded
// demo dataset, structure mappings and config.
type Initializer struct {
	paths domain.PathsConfig
}

func NewInitializer() *Initializer {
	return &Initializer{paths: domain.DefaultConfig().Paths}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init never overwrites an existing starter file unless force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	if strings.TrimSpace(spec.Root) == "" {
		return &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindInvalidArgument, Err: errors.New("workspace root is empty")}
	}
	root := filepath.Clean(spec.Root)

	for _, d := range []string{i.paths.MutationsDir, i.paths.StructuresDir, i.paths.ScriptsDir, filepath.Join(".mutmapper", "logs")} {
		dir := filepath.Join(root, d)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return initErr(dir, err)
		}
	}

	gi := filepath.Join(root, ".gitignore")
	if err := mergeGitignore(gi, []string{i.paths.ScriptsDir + "/", ".mutmapper/"}); err != nil {
		return initErr(gi, err)
	}

	files, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return initErr(root, err)
	}
	return fs.WalkDir(files, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		dst := filepath.Join(root, filepath.FromSlash(i.destination(p)))
		if _, statErr := os.Stat(dst); statErr == nil && !force {
			return nil
		}
		body, err := fs.ReadFile(files, p)
		if err != nil {
			return initErr(dst, err)
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return initErr(dst, err)
		}
		if err := os.WriteFile(dst, body, 0o644); err != nil {
			return initErr(dst, err)
		}
		return nil
	})
}

// destination maps an embedded starter file onto the configured layout.
func (i *Initializer) destination(p string) string {
	dir, name := path.Split(p)
	switch strings.TrimSuffix(dir, "/") {
	case "mutations":
		return path.Join(filepath.ToSlash(i.paths.MutationsDir), name)
	case "structures":
		return path.Join(filepath.ToSlash(i.paths.StructuresDir), name)
	default:
		return p
	}
}

func initErr(path string, err error) error {
	return &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: path, Err: err}
}

// mergeGitignore appends the entries (and a header) that the file lacks.
// A complete file is left untouched.
func mergeGitignore(path string, entries []string) error {
	b, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	existing := string(b)

	var present []string
	for _, line := range strings.Split(existing, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			present = append(present, l)
		}
	}

	var add []string
	for _, e := range entries {
		if !slices.Contains(present, e) {
			add = append(add, e)
		}
	}
	if len(add) == 0 {
		return nil
	}
	if !slices.Contains(present, gitignoreHeader) {
		add = append([]string{gitignoreHeader}, add...)
	}

	var out strings.Builder
	if existing != "" {
		out.WriteString(strings.TrimRight(existing, "\n"))
		out.WriteString("\n\n")
	}
	out.WriteString(strings.Join(add, "\n"))
	out.WriteByte('\n')
	return os.WriteFile(path, []byte(out.String()), 0o644)
}
