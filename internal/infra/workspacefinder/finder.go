// Package workspacefinder walks up from a directory to the nearest
// mutmapper.yaml.
package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/config"
	"github.com/varontron/mutation-mapper/internal/ports"
)

type Finder struct {
	marker string
	stopAt string
}

type Option func(*Finder)

// WithMarker changes the file that identifies a workspace root.
func WithMarker(name string) Option {
	return func(f *Finder) { f.marker = name }
}

// WithStopAt bounds the search: dir is the last directory inspected.
func WithStopAt(dir string) Option {
	return func(f *Finder) { f.stopAt = filepath.Clean(dir) }
}

func NewFinder(opts ...Option) *Finder {
	f := &Finder{marker: config.FileName}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	const op = "workspacefinder.findroot"
	if startDir == "" {
		return "", &domain.OpError{Op: op, Kind: domain.KindInvalidConfig, Err: errors.New("start directory is empty")}
	}

	start, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{Op: op, Kind: domain.KindExecution, Path: startDir, Err: err}
	}
	if info, err := os.Stat(start); err == nil && !info.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := filepath.Clean(start); ; dir = filepath.Dir(dir) {
		if f.hasMarker(dir) {
			return dir, nil
		}
		if dir == f.stopAt || filepath.Dir(dir) == dir {
			break
		}
	}
	return "", &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: start, Err: domain.ErrNotFound}
}

func (f *Finder) hasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, f.marker))
	return err == nil && info.Mode().IsRegular()
}
