// Package yamlstructure loads the gene to structure catalog from YAML.
package yamlstructure

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

var _ ports.StructureLoader = (*Loader)(nil)

func (l *Loader) LoadStructures(path string) (domain.StructureCatalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "yamlstructure.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yc yamlCatalog
	if err := yaml.Unmarshal(b, &yc); err != nil {
		return nil, &domain.OpError{
			Op:   "yamlstructure.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yc)
}

type yamlCatalog struct {
	Structures map[string][]yamlMapping `yaml:"structures"`
}

type yamlMapping struct {
	PDBID    string        `yaml:"pdb_id"`
	Chain    string        `yaml:"chain"`
	Title    string        `yaml:"title"`
	Segments []yamlSegment `yaml:"segments"`
}

type yamlSegment struct {
	UniprotFrom int `yaml:"uniprot_from"`
	UniprotTo   int `yaml:"uniprot_to"`
	PDBFrom     int `yaml:"pdb_from"`
}

func mapAndValidate(path string, yc yamlCatalog) (domain.StructureCatalog, error) {
	if len(yc.Structures) == 0 {
		return nil, invalidField(path, "structures", "at least one gene is required")
	}

	genes := make([]string, 0, len(yc.Structures))
	for g := range yc.Structures {
		genes = append(genes, g)
	}
	sort.Strings(genes) // report the same first error on every run

	cat := domain.StructureCatalog{}
	for _, gene := range genes {
		prefix := "structures." + gene
		if strings.TrimSpace(gene) == "" {
			return nil, invalidField(path, "structures", "gene symbol is required")
		}

		list := yc.Structures[gene]
		if len(list) == 0 {
			return nil, invalidField(path, prefix, "at least one structure is required")
		}

		out := make([]domain.StructureMapping, 0, len(list))
		for i, m := range list {
			field := fmt.Sprintf("%s[%d]", prefix, i)
			sm, err := mapMapping(m)
			if err != nil {
				return nil, invalidField(path, field+err.field, err.msg)
			}
			out = append(out, sm)
		}
		cat[gene] = out
	}
	return cat, nil
}

type fieldError struct {
	field string
	msg   string
}

func mapMapping(m yamlMapping) (domain.StructureMapping, *fieldError) {
	pdb := strings.TrimSpace(m.PDBID)
	if err := domain.ValidateStructureID("yamlstructure.validate", pdb); err != nil {
		return domain.StructureMapping{}, &fieldError{".pdb_id", fmt.Sprintf("invalid pdb id %q", m.PDBID)}
	}
	chain := strings.TrimSpace(m.Chain)
	if err := domain.ValidateChainID("yamlstructure.validate", chain); err != nil {
		return domain.StructureMapping{}, &fieldError{".chain", fmt.Sprintf("invalid chain %q", m.Chain)}
	}

	sm := domain.StructureMapping{
		PDBID:    pdb,
		Chain:    chain,
		Title:    strings.TrimSpace(m.Title),
		Segments: make([]domain.Segment, 0, len(m.Segments)),
	}
	for j, s := range m.Segments {
		field := fmt.Sprintf(".segments[%d]", j)
		if s.UniprotFrom < 1 {
			return domain.StructureMapping{}, &fieldError{field + ".uniprot_from", "must be >= 1"}
		}
		if s.UniprotTo < s.UniprotFrom {
			return domain.StructureMapping{}, &fieldError{field + ".uniprot_to", "must be >= uniprot_from"}
		}
		seg := domain.Segment{UniprotFrom: s.UniprotFrom, UniprotTo: s.UniprotTo, PDBFrom: s.PDBFrom}
		for k, prev := range sm.Segments {
			if seg.UniprotFrom <= prev.UniprotTo && prev.UniprotFrom <= seg.UniprotTo {
				return domain.StructureMapping{}, &fieldError{field, fmt.Sprintf("overlaps segments[%d]", k)}
			}
		}
		sm.Segments = append(sm.Segments, seg)
	}
	return sm, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlstructure.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s", field, msg),
	}
}
