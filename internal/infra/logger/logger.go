// Package logger owns the process-wide slog logger. Until Setup runs every
// record is discarded.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Config struct {
	Root  string
	Debug bool
	// Output replaces the log file when set (tests).
	Output io.Writer
}

var (
	mu      sync.RWMutex
	global  = discard()
	logFile *os.File
	logPath string
	ready   bool
)

// Setup routes logs to <root>/.mutmapper/logs/mutmapper.log. The returned
// cleanup closes the file and restores the discard logger.
func Setup(cfg Config) (func() error, error) {
	out := cfg.Output
	var (
		f    *os.File
		path string
	)
	if out == nil {
		root := filepath.Clean(cfg.Root)
		dir := filepath.Join(root, ".mutmapper", "logs")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			reset()
			return nil, err
		}

		path = filepath.Join(dir, "mutmapper.log")
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			reset()
			return nil, err
		}
		out = f
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.Debug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	})
	l := slog.New(h).With("app", "mutmapper")

	mu.Lock()
	global = l
	logFile = f
	logPath = path
	ready = true
	mu.Unlock()

	l.Info("logger.initialized", "path", path, "debug", cfg.Debug)

	cleanup := func() error {
		mu.Lock()
		defer mu.Unlock()

		var cerr error
		if logFile != nil {
			cerr = logFile.Close()
		}
		logFile = nil
		logPath = ""
		ready = false
		global = discard()
		return cerr
	}
	return cleanup, nil
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Component returns L() tagged with a component attribute.
func Component(name string) *slog.Logger {
	return L().With("component", name)
}

func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return logPath
}

func IsReady() error {
	mu.RLock()
	defer mu.RUnlock()
	if !ready {
		return errors.New("logger not initialized")
	}
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func reset() {
	mu.Lock()
	defer mu.Unlock()
	global = discard()
	logFile = nil
	logPath = ""
	ready = false
}
