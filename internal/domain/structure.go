package domain

import "strings"

// Segment aligns a contiguous stretch of the canonical protein (UniProt
// numbering) onto residue numbers of a structure chain.
type Segment struct {
	UniprotFrom int
	UniprotTo   int
	PDBFrom     int
}

// Contains reports whether the protein position falls inside the segment.
func (s Segment) Contains(pos int) bool {
	return pos >= s.UniprotFrom && pos <= s.UniprotTo
}

// StructureMapping links a gene to one chain of a 3D structure.
type StructureMapping struct {
	PDBID    string
	Chain    string
	Title    string
	Segments []Segment
}

// MapPosition converts a protein position to a residue number of the chain.
// A mapping without segments uses the protein numbering unchanged.
func (sm StructureMapping) MapPosition(pos int) (int, bool) {
	if len(sm.Segments) == 0 {
		return pos, pos > 0
	}
	for _, seg := range sm.Segments {
		if seg.Contains(pos) {
			return seg.PDBFrom + (pos - seg.UniprotFrom), true
		}
	}
	return 0, false
}

// Label renders "1TUP:A".
func (sm StructureMapping) Label() string {
	return sm.PDBID + ":" + sm.Chain
}

// StructureCatalog maps a gene symbol to its candidate structures in
// preference order.
type StructureCatalog map[string][]StructureMapping

// ForGene looks up a gene case-insensitively.
func (c StructureCatalog) ForGene(gene string) []StructureMapping {
	if v, ok := c[gene]; ok {
		return v
	}
	for k, v := range c {
		if strings.EqualFold(k, gene) {
			return v
		}
	}
	return nil
}

// Find picks the mapping for gene matching pdbID and chain. Empty pdbID or
// chain match anything; the first candidate wins.
func (c StructureCatalog) Find(gene, pdbID, chain string) (StructureMapping, bool) {
	for _, sm := range c.ForGene(gene) {
		if pdbID != "" && !strings.EqualFold(sm.PDBID, pdbID) {
			continue
		}
		if chain != "" && sm.Chain != chain {
			continue
		}
		return sm, true
	}
	return StructureMapping{}, false
}

// MappedMutation is a mutation placed on a structure residue.
type MappedMutation struct {
	Mutation Mutation
	Residue  int
}

// MapMutations places every mutation of muts on sm. Mutations without a
// protein position or outside the aligned segments are returned as unmapped.
func MapMutations(muts []Mutation, sm StructureMapping) (mapped []MappedMutation, unmapped []Mutation) {
	mapped = []MappedMutation{}
	unmapped = []Mutation{}
	for _, m := range muts {
		if m.ProteinStart <= 0 {
			unmapped = append(unmapped, m)
			continue
		}
		res, ok := sm.MapPosition(m.ProteinStart)
		if !ok {
			unmapped = append(unmapped, m)
			continue
		}
		mapped = append(mapped, MappedMutation{Mutation: m, Residue: res})
	}
	return mapped, unmapped
}
