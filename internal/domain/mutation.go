package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Mutation is a single row of the mutation table.
// Genomic fields are optional; an empty string or zero means "not provided".
type Mutation struct {
	Gene          string
	SampleID      string
	ProteinChange string
	MutationType  string

	Chromosome      string
	StartPos        int64
	EndPos          int64
	ReferenceAllele string
	VariantAllele   string

	// ProteinStart/ProteinEnd are 1-based residue positions on the canonical
	// protein. Loaders fill them from explicit columns or from ProteinChange.
	ProteinStart int
	ProteinEnd   int
}

// Class returns the coarse mutation class derived from MutationType.
func (m Mutation) Class() MutationClass {
	return ClassifyMutationType(m.MutationType)
}

// Field names an optional column of the mutation table.
type Field string

const (
	FieldChromosome      Field = "chr"
	FieldStartPos        Field = "startPos"
	FieldEndPos          Field = "endPos"
	FieldReferenceAllele Field = "referenceAllele"
	FieldVariantAllele   Field = "variantAllele"
)

// OptionalFields lists the columns whose visibility depends on the data.
func OptionalFields() []Field {
	return []Field{
		FieldChromosome,
		FieldStartPos,
		FieldEndPos,
		FieldReferenceAllele,
		FieldVariantAllele,
	}
}

// Label is the column header of f.
func (f Field) Label() string {
	switch f {
	case FieldChromosome:
		return "Chr"
	case FieldStartPos:
		return "Start"
	case FieldEndPos:
		return "End"
	case FieldReferenceAllele:
		return "Ref"
	case FieldVariantAllele:
		return "Var"
	default:
		return string(f)
	}
}

// Value renders f for display; missing values are empty.
func (m Mutation) Value(f Field) string {
	if !m.Has(f) {
		return ""
	}
	switch f {
	case FieldChromosome:
		return m.Chromosome
	case FieldStartPos:
		return strconv.FormatInt(m.StartPos, 10)
	case FieldEndPos:
		return strconv.FormatInt(m.EndPos, 10)
	case FieldReferenceAllele:
		return m.ReferenceAllele
	case FieldVariantAllele:
		return m.VariantAllele
	default:
		return ""
	}
}

// Has reports whether m carries a value for f.
func (m Mutation) Has(f Field) bool {
	switch f {
	case FieldChromosome:
		return strings.TrimSpace(m.Chromosome) != ""
	case FieldStartPos:
		return m.StartPos > 0
	case FieldEndPos:
		return m.EndPos > 0
	case FieldReferenceAllele:
		return strings.TrimSpace(m.ReferenceAllele) != ""
	case FieldVariantAllele:
		return strings.TrimSpace(m.VariantAllele) != ""
	default:
		return false
	}
}

// MutationSet is a parsed mutation table.
// Genes and Samples keep first-seen order.
type MutationSet struct {
	Source    string
	Mutations []Mutation
	Genes     []string
	Samples   []string
}

// NewMutationSet builds the gene and sample lists from muts.
func NewMutationSet(source string, muts []Mutation) MutationSet {
	set := MutationSet{
		Source:    source,
		Mutations: muts,
		Genes:     []string{},
		Samples:   []string{},
	}

	seenGene := map[string]bool{}
	seenSample := map[string]bool{}
	for _, m := range muts {
		if m.Gene != "" && !seenGene[m.Gene] {
			seenGene[m.Gene] = true
			set.Genes = append(set.Genes, m.Gene)
		}
		if m.SampleID != "" && !seenSample[m.SampleID] {
			seenSample[m.SampleID] = true
			set.Samples = append(set.Samples, m.SampleID)
		}
	}
	return set
}

// ByGene returns the mutations of a gene (case-insensitive match).
func (s MutationSet) ByGene(gene string) []Mutation {
	var out []Mutation
	for _, m := range s.Mutations {
		if strings.EqualFold(m.Gene, gene) {
			out = append(out, m)
		}
	}
	return out
}

// HasGene reports whether any mutation belongs to gene.
func (s MutationSet) HasGene(gene string) bool {
	for _, g := range s.Genes {
		if strings.EqualFold(g, gene) {
			return true
		}
	}
	return false
}

// HasField reports whether at least one mutation of gene carries f.
// The mutation table hides a column when this is false.
func (s MutationSet) HasField(gene string, f Field) bool {
	for _, m := range s.ByGene(gene) {
		if m.Has(f) {
			return true
		}
	}
	return false
}

// VisibleFields returns the optional columns to show for gene.
func (s MutationSet) VisibleFields(gene string) []Field {
	var out []Field
	for _, f := range OptionalFields() {
		if s.HasField(gene, f) {
			out = append(out, f)
		}
	}
	return out
}

// MutationClass groups mutation types the way the portal colors them.
type MutationClass string

const (
	ClassMissense   MutationClass = "missense"
	ClassInframe    MutationClass = "inframe"
	ClassTruncating MutationClass = "truncating"
	ClassOther      MutationClass = "other"
)

// MutationClasses returns the classes in paint order: later classes are
// drawn over earlier ones when they share a residue.
func MutationClasses() []MutationClass {
	return []MutationClass{ClassOther, ClassInframe, ClassMissense, ClassTruncating}
}

// ClassifyMutationType maps a MAF Variant_Classification (or a free-form
// portal mutation type) to a MutationClass.
func ClassifyMutationType(t string) MutationClass {
	k := normalizeKey(t)
	switch k {
	case "missensemutation", "missense", "missensevariant":
		return ClassMissense
	case "inframedel", "inframeins", "inframe", "inframedeletion", "inframeinsertion",
		"inframedelins":
		return ClassInframe
	case "nonsensemutation", "nonsense", "frameshiftdel", "frameshiftins", "frameshift",
		"frameshiftdeletion", "frameshiftinsertion", "framedel", "frameins",
		"splicesite", "splice", "nonstopmutation", "nonstop", "translationstartsite",
		"stopgained", "truncating":
		return ClassTruncating
	default:
		return ClassOther
	}
}

var reProteinChange = regexp.MustCompile(`^(?:p\.)?\(?[A-Z*]?[a-z]{0,2}(\d+)(?:_[A-Z*]?[a-z]{0,2}(\d+))?`)

// ParseProteinChange extracts the residue range from a protein change such as
// V600E, p.R248*, E746_A750del or X125_splice. ok is false when no position
// can be found.
func ParseProteinChange(change string) (start, end int, ok bool) {
	m := reProteinChange.FindStringSubmatch(strings.TrimSpace(change))
	if m == nil {
		return 0, 0, false
	}

	s, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	e := s
	if m[2] != "" {
		if v, err := strconv.Atoi(m[2]); err == nil && v >= s {
			e = v
		}
	}
	return s, e, true
}

// PositionCount is a residue position and how many mutations hit it.
type PositionCount struct {
	Position int
	Count    int
}

// GeneSummary aggregates the mutations of one gene.
type GeneSummary struct {
	Gene      string
	Mutations int
	Samples   int
	ByClass   map[MutationClass]int
	Hotspots  []PositionCount
}

// SortPositionCounts orders by count descending, then position ascending.
func SortPositionCounts(in []PositionCount) {
	sort.Slice(in, func(i, j int) bool {
		if in[i].Count != in[j].Count {
			return in[i].Count > in[j].Count
		}
		return in[i].Position < in[j].Position
	})
}

// MutationFileRef is a lightweight reference to a mutation file on disk.
type MutationFileRef struct {
	Name string
	Path string
}

func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case '_', '-', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeHeader lowercases s and drops '_', '-', '.' and spaces so that
// "Hugo_Symbol" and "hugo symbol" compare equal.
func NormalizeHeader(s string) string {
	return normalizeKey(s)
}
