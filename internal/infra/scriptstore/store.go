// Package scriptstore writes generated scripts under the workspace scripts
// directory with a JSONL index.
package scriptstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

const (
	defaultScriptsDir = "scripts"
	indexFile         = "index.jsonl"
)

type FileStore struct {
	rootDir    string
	scriptsDir string
	writeIndex bool
	now        func() time.Time

	mu sync.Mutex
}

type Option func(*FileStore)

// WithIndex toggles scripts/index.jsonl (on by default).
func WithIndex(enabled bool) Option {
	return func(s *FileStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *FileStore) { s.now = now }
}

func NewFileStore(root string, cfg domain.Config, opts ...Option) *FileStore {
	dir := cfg.Paths.ScriptsDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultScriptsDir
	}

	s := &FileStore{
		rootDir:    root,
		scriptsDir: dir,
		writeIndex: true,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ScriptStore = (*FileStore)(nil)

// IndexEntry is one line of index.jsonl.
type IndexEntry struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Viewer    string    `json:"viewer"`
	Gene      string    `json:"gene"`
	PDBID     string    `json:"pdb_id"`
	Chain     string    `json:"chain"`
	Source    string    `json:"source,omitempty"`
	Mapped    int       `json:"mapped"`
	Unmapped  int       `json:"unmapped"`
	Commands  int       `json:"commands"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveScript writes the script and returns its id (the file name without
// extension). Names that already exist get a numeric suffix.
func (s *FileStore) SaveScript(art domain.ScriptArtifact) (string, error) {
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "scriptstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := art.CreatedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	sc := art.Script
	ext := sc.Viewer.ScriptExt()
	base := fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug(sc))

	s.mu.Lock()
	defer s.mu.Unlock()

	id := base
	for n := 2; exists(filepath.Join(dir, id+ext)); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	filename := id + ext
	path := filepath.Join(dir, filename)

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sc.String()), 0o644); err != nil {
		return "", &domain.OpError{
			Op:   "scriptstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "scriptstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		entry := IndexEntry{
			ID:        id,
			File:      filename,
			Viewer:    string(sc.Viewer),
			Gene:      sc.Gene,
			PDBID:     sc.PDBID,
			Chain:     sc.Chain,
			Source:    art.Source,
			Mapped:    art.Mapped,
			Unmapped:  art.Unmapped,
			Commands:  len(sc.Lines()),
			CreatedAt: ts,
		}
		if err := appendIndex(filepath.Join(dir, indexFile), entry); err != nil {
			return id, &domain.OpError{
				Op:   "scriptstore.index",
				Kind: domain.KindExecution,
				Path: filepath.Join(dir, indexFile),
				Err:  err,
			}
		}
	}

	return id, nil
}

// Dir is the absolute scripts directory.
func (s *FileStore) Dir() string {
	return filepath.Join(s.rootDir, s.scriptsDir)
}

// Path returns the file path of a saved script id.
func (s *FileStore) Path(id string, v domain.Viewer) string {
	return filepath.Join(s.Dir(), id+v.ScriptExt())
}

func appendIndex(path string, entry IndexEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func slug(sc domain.Script) string {
	var parts []string
	for _, p := range []string{sc.Gene, sc.PDBID, sc.Chain} {
		if s := slugify(p); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "script"
	}
	return strings.Join(parts, "-")
}

// slugify keeps letters and digits (case preserved) and collapses the rest
// into single dashes.
func slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
