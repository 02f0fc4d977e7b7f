package domain

import "testing"

func TestParseProteinChange(t *testing.T) {
	cases := []struct {
		in         string
		start, end int
		ok         bool
	}{
		{"V600E", 600, 600, true},
		{"p.R248*", 248, 248, true},
		{"E746_A750del", 746, 750, true},
		{"X125_splice", 125, 125, true},
		{"p.Val600Glu", 600, 600, true},
		{"*394Lext*?", 394, 394, true},
		{"MUTATED", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		s, e, ok := ParseProteinChange(c.in)
		if ok != c.ok || s != c.start || e != c.end {
			t.Errorf("ParseProteinChange(%q) = %d, %d, %v; want %d, %d, %v", c.in, s, e, ok, c.start, c.end, c.ok)
		}
	}
}

func TestClassifyMutationType(t *testing.T) {
	cases := map[string]MutationClass{
		"Missense_Mutation":      ClassMissense,
		"missense":               ClassMissense,
		"In_Frame_Del":           ClassInframe,
		"In_Frame_Ins":           ClassInframe,
		"Nonsense_Mutation":      ClassTruncating,
		"Frame_Shift_Del":        ClassTruncating,
		"Splice_Site":            ClassTruncating,
		"Nonstop_Mutation":       ClassTruncating,
		"Translation_Start_Site": ClassTruncating,
		"Silent":                 ClassOther,
		"":                       ClassOther,
	}
	for in, want := range cases {
		if got := ClassifyMutationType(in); got != want {
			t.Errorf("ClassifyMutationType(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMutationSetListsAndVisibility(t *testing.T) {
	set := NewMutationSet("demo", []Mutation{
		{Gene: "TP53", SampleID: "S1", ProteinChange: "R248Q", Chromosome: "17", StartPos: 7577538},
		{Gene: "BRAF", SampleID: "S2", ProteinChange: "V600E"},
		{Gene: "TP53", SampleID: "S2", ProteinChange: "R273H"},
		{Gene: "tp53", SampleID: "S1", ProteinChange: "R175H"},
	})

	if len(set.Genes) != 3 || set.Genes[0] != "TP53" || set.Genes[1] != "BRAF" {
		t.Fatalf("unexpected genes %v", set.Genes)
	}
	if len(set.Samples) != 2 || set.Samples[0] != "S1" {
		t.Fatalf("unexpected samples %v", set.Samples)
	}
	if got := len(set.ByGene("TP53")); got != 3 {
		t.Fatalf("expected 3 TP53 mutations, got %d", got)
	}
	if !set.HasGene("braf") {
		t.Fatalf("expected case-insensitive gene lookup")
	}

	if !set.HasField("TP53", FieldChromosome) || !set.HasField("TP53", FieldStartPos) {
		t.Fatalf("expected TP53 genomic columns visible")
	}
	if set.HasField("TP53", FieldEndPos) {
		t.Fatalf("expected TP53 end position hidden")
	}
	if got := set.VisibleFields("BRAF"); len(got) != 0 {
		t.Fatalf("expected no optional BRAF columns, got %v", got)
	}
}

func TestSortPositionCounts(t *testing.T) {
	in := []PositionCount{{Position: 273, Count: 2}, {Position: 175, Count: 2}, {Position: 248, Count: 5}}
	SortPositionCounts(in)
	if in[0].Position != 248 || in[1].Position != 175 || in[2].Position != 273 {
		t.Fatalf("unexpected order %v", in)
	}
}

func TestMutationValueAndLabels(t *testing.T) {
	m := Mutation{Chromosome: "7", StartPos: 140453136, ReferenceAllele: "A", VariantAllele: "T"}

	cases := []struct {
		f     Field
		label string
		value string
	}{
		{FieldChromosome, "Chr", "7"},
		{FieldStartPos, "Start", "140453136"},
		{FieldEndPos, "End", ""},
		{FieldReferenceAllele, "Ref", "A"},
		{FieldVariantAllele, "Var", "T"},
	}
	for _, c := range cases {
		if got := c.f.Label(); got != c.label {
			t.Fatalf("%s: label %q, want %q", c.f, got, c.label)
		}
		if got := m.Value(c.f); got != c.value {
			t.Fatalf("%s: value %q, want %q", c.f, got, c.value)
		}
	}
}
