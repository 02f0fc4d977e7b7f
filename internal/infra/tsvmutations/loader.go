// Package tsvmutations reads tab-delimited mutation tables (portal input
// format and MAF).
package tsvmutations

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

type column int

const (
	colGene column = iota
	colSample
	colProteinChange
	colMutationType
	colChromosome
	colStartPos
	colEndPos
	colRefAllele
	colVarAllele
	colProteinStart
	colProteinEnd
)

// headerAliases are normalized with domain.NormalizeHeader.
var headerAliases = map[string]column{
	"hugosymbol":            colGene,
	"gene":                  colGene,
	"genesymbol":            colGene,
	"hugogenesymbol":        colGene,
	"tumorsamplebarcode":    colSample,
	"sampleid":              colSample,
	"sample":                colSample,
	"caseid":                colSample,
	"proteinchange":         colProteinChange,
	"aminoacidchange":       colProteinChange,
	"hgvspshort":            colProteinChange,
	"hgvsp":                 colProteinChange,
	"variantclassification": colMutationType,
	"mutationtype":          colMutationType,
	"chromosome":            colChromosome,
	"chr":                   colChromosome,
	"startposition":         colStartPos,
	"startpos":              colStartPos,
	"endposition":           colEndPos,
	"endpos":                colEndPos,
	"referenceallele":       colRefAllele,
	"refallele":             colRefAllele,
	"tumorseqallele2":       colVarAllele,
	"variantallele":         colVarAllele,
	"varallele":             colVarAllele,
	"proteinposstart":       colProteinStart,
	"proteinstart":          colProteinStart,
	"proteinposend":         colProteinEnd,
	"proteinend":            colProteinEnd,
}

var extensions = map[string]bool{".txt": true, ".tsv": true, ".maf": true}

const maxLineBytes = 1024 * 1024

type Loader struct {
	mutationsDir string
}

type Option func(*Loader)

func WithMutationsDir(dir string) Option {
	return func(l *Loader) { l.mutationsDir = dir }
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{mutationsDir: "mutations"}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ ports.MutationLoader = (*Loader)(nil)

func (l *Loader) LoadMutations(path string) (domain.MutationSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.MutationSet{}, &domain.OpError{
			Op:   "tsvmutations.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	defer f.Close()

	muts, err := Parse(f)
	if err != nil {
		return domain.MutationSet{}, &domain.OpError{
			Op:   "tsvmutations.load",
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
			Op:   "tsvmutations.list",
			Kind: domain.KindNotFound,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.MutationFileRef
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		refs = append(refs, domain.MutationFileRef{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}

// Parse reads a mutation table. Errors carry the 1-based line number.
func Parse(r io.Reader) ([]domain.Mutation, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		index  map[column]int
		out    = []domain.Mutation{}
		lineNo int
	)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cells := strings.Split(line, "\t")

		if index == nil {
			idx, err := indexHeader(cells)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			index = idx
			continue
		}

		m, err := parseRow(index, cells)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if index == nil {
		return nil, fmt.Errorf("missing header row")
	}
	return out, nil
}

func indexHeader(cells []string) (map[column]int, error) {
	idx := map[column]int{}
	for i, c := range cells {
		col, ok := headerAliases[domain.NormalizeHeader(c)]
		if !ok {
			continue
		}
		if _, dup := idx[col]; !dup {
			idx[col] = i
		}
	}
	if _, ok := idx[colGene]; !ok {
		return nil, fmt.Errorf("header has no gene column (Hugo_Symbol)")
	}
	return idx, nil
}

func parseRow(index map[column]int, cells []string) (domain.Mutation, error) {
	get := func(c column) string {
		i, ok := index[c]
		if !ok || i >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[i])
	}

	m := domain.Mutation{
		Gene:            get(colGene),
		SampleID:        get(colSample),
		ProteinChange:   get(colProteinChange),
		MutationType:    get(colMutationType),
		Chromosome:      get(colChromosome),
		ReferenceAllele: get(colRefAllele),
		VariantAllele:   get(colVarAllele),
	}
	if m.Gene == "" {
		return domain.Mutation{}, fmt.Errorf("gene is required")
	}

	var err error
	if m.StartPos, err = parseInt64(get(colStartPos), "start position"); err != nil {
		return domain.Mutation{}, err
	}
	if m.EndPos, err = parseInt64(get(colEndPos), "end position"); err != nil {
		return domain.Mutation{}, err
	}

	start, err := parseInt64(get(colProteinStart), "protein start")
	if err != nil {
		return domain.Mutation{}, err
	}
	end, err := parseInt64(get(colProteinEnd), "protein end")
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

func parseInt64(s, field string) (int64, error) {
	switch s {
	case "", "NA", "-", ".":
		return 0, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s %q is not a number", field, s)
	}
	return v, nil
}
