// Package mutationsource picks the mutation reader from the file extension.
package mutationsource

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/ports"
)

// Loader reads .json files with the JSON loader and everything else with
// the table loader.
type Loader struct {
	table ports.MutationLoader
	json  ports.MutationLoader
}

func New(table, json ports.MutationLoader) *Loader {
	return &Loader{table: table, json: json}
}

var _ ports.MutationLoader = (*Loader)(nil)

func (l *Loader) LoadMutations(path string) (domain.MutationSet, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return l.json.LoadMutations(path)
	}
	return l.table.LoadMutations(path)
}

// ListMutationFiles merges both listings. A missing directory is only an
// error when neither loader can list it.
func (l *Loader) ListMutationFiles(root string) ([]domain.MutationFileRef, error) {
	tables, errT := l.table.ListMutationFiles(root)
	docs, errJ := l.json.ListMutationFiles(root)
	if errT != nil && errJ != nil {
		return nil, errT
	}

	refs := append(tables, docs...)
	sort.Slice(refs, func(i, j int) bool { return refs[i].Name < refs[j].Name })
	return refs, nil
}
