// Package watch reports changes to a fixed set of files, debounced so that an
// editor save triggers one callback.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/varontron/mutation-mapper/internal/domain"
)

// ChangeFunc receives the changed files (absolute, sorted).
type ChangeFunc func(ctx context.Context, changed []string)

type Watcher struct {
	files    map[string]bool
	onChange ChangeFunc
	debounce time.Duration
	logger   *slog.Logger
	ready    chan struct{}
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

func New(paths []string, onChange ChangeFunc, opts ...Option) *Watcher {
	w := &Watcher{
		files:    map[string]bool{},
		onChange: onChange,
		debounce: 300 * time.Millisecond,
		logger:   slog.New(slog.DiscardHandler),
		ready:    make(chan struct{}),
	}
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			w.files[filepath.Clean(abs)] = true
		}
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once every directory is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is done. The parent directories are watched rather
// than the files, so replace-on-save editors keep working.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return &domain.OpError{Op: "watch.start", Kind: domain.KindExecution, Err: err}
	}
	defer fw.Close()

	dirs := map[string]bool{}
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for d := range dirs {
		if err := fw.Add(d); err != nil {
			return &domain.OpError{Op: "watch.start", Kind: domain.KindNotFound, Path: d, Err: err}
		}
	}
	w.logger.Info("watch.started", "files", len(w.files), "dirs", len(dirs))
	close(w.ready)

	pending := map[string]bool{}
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !w.files[name] || !relevant(ev) {
				continue
			}
			w.logger.Debug("watch.event", "path", name, "op", ev.Op.String())
			pending[name] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch.error", "err", err)

		case <-timerC:
			timerC = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			sort.Strings(changed)
			pending = map[string]bool{}
			w.onChange(ctx, changed)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
