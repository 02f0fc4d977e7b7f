// Package jsonmutations imports mutation records from JSON documents using
// JSONPath expressions for the record list and each field.
package jsonmutations

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

type Loader struct {
	mutationsDir string
	cfg          domain.JSONImportConfig
}

type Option func(*Loader)

func WithMutationsDir(dir string) Option {
	return func(l *Loader) { l.mutationsDir = dir }
}

// WithImport overrides the JSONPath expressions. Fields missing from cfg
// keep their defaults.
func WithImport(cfg domain.JSONImportConfig) Option {
	return func(l *Loader) {
		if strings.TrimSpace(cfg.Records) != "" {
			l.cfg.Records = cfg.Records
		}
		for k, v := range cfg.Fields {
			l.cfg.Fields[k] = v
		}
	}
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		mutationsDir: "mutations",
		cfg:          domain.DefaultJSONImport(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.MutationLoader = (*Loader)(nil)

func (l *Loader) LoadMutations(path string) (domain.MutationSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.MutationSet{}, &domain.OpError{
			Op:   "jsonmutations.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	muts, err := l.Decode(b)
	if err != nil {
		return domain.MutationSet{}, &domain.OpError{
			Op:   "jsonmutations.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return domain.NewMutationSet(path, muts), nil
}

func (l *Loader) ListMutationFiles(root string) ([]domain.MutationFileRef, error) {
	dir := filepath.Join(root, l.mutationsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "jsonmutations.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.MutationFileRef
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}
		refs = append(refs, domain.MutationFileRef{Name: e.Name(), Path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Decode extracts mutations from a JSON document.
func (l *Loader) Decode(body []byte) ([]domain.Mutation, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	switch doc.(type) {
	case []any, map[string]any:
	default:
		return nil, fmt.Errorf("expected a JSON array or object, got %T", doc)
	}

	v, err := jsonpath.Get(l.cfg.Records, doc)
	if err != nil {
		return nil, fmt.Errorf("records (%s): %w", l.cfg.Records, err)
	}

	var records []any
	switch t := v.(type) {
	case []any:
		records = t
	case map[string]any:
		records = []any{t}
	default:
		return nil, fmt.Errorf("records (%s): expected objects, got %T", l.cfg.Records, v)
	}

	out := make([]domain.Mutation, 0, len(records))
	for i, rec := range records {
		m, err := l.decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (l *Loader) decodeRecord(rec any) (domain.Mutation, error) {
	str := func(f domain.JSONField) string {
		s, _ := l.lookup(rec, f)
		return s
	}
	num := func(f domain.JSONField) (int64, error) {
		s, ok := l.lookup(rec, f)
		if !ok || s == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%s %q is not a number", f, s)
		}
		return n, nil
	}

	m := domain.Mutation{
		Gene:            str(domain.JSONGene),
		SampleID:        str(domain.JSONSampleID),
		ProteinChange:   str(domain.JSONProteinChange),
		MutationType:    str(domain.JSONMutationType),
		Chromosome:      str(domain.JSONChromosome),
		ReferenceAllele: str(domain.JSONReferenceAllele),
		VariantAllele:   str(domain.JSONVariantAllele),
	}
	if m.Gene == "" {
		return domain.Mutation{}, fmt.Errorf("gene (%s) not found", l.cfg.Fields[domain.JSONGene])
	}

	var err error
	if m.StartPos, err = num(domain.JSONStartPos); err != nil {
		return domain.Mutation{}, err
	}
	if m.EndPos, err = num(domain.JSONEndPos); err != nil {
		return domain.Mutation{}, err
	}
	start, err := num(domain.JSONProteinStart)
	if err != nil {
		return domain.Mutation{}, err
	}
	end, err := num(domain.JSONProteinEnd)
	if err != nil {
		return domain.Mutation{}, err
	}
	m.ProteinStart, m.ProteinEnd = int(start), int(end)

	if m.ProteinStart == 0 {
		if s, e, ok := domain.ParseProteinChange(m.ProteinChange); ok {
			m.ProteinStart, m.ProteinEnd = s, e
		}
	}
	if m.ProteinEnd < m.ProteinStart {
		m.ProteinEnd = m.ProteinStart
	}
	return m, nil
}

// lookup evaluates the field expression. Unknown keys and nulls are
// reported as absent.
func (l *Loader) lookup(rec any, f domain.JSONField) (string, bool) {
	expr := strings.TrimSpace(l.cfg.Fields[f])
	if expr == "" {
		return "", false
	}
	v, err := jsonpath.Get(expr, rec)
	if err != nil || v == nil {
		return "", false
	}
	return toString(v)
}

func toString(v any) (string, bool) {
	if arr, ok := v.([]any); ok {
		if len(arr) != 1 {
			return "", false
		}
		return toString(arr[0])
	}

	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
