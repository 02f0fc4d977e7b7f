package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestRun_DebouncesWritesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	muts := filepath.Join(dir, "demo.txt")
	other := filepath.Join(dir, "notes.md")
	for _, p := range []string{muts, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	calls := make(chan []string, 4)
	w := New([]string{muts}, func(_ context.Context, changed []string) {
		calls <- changed
	}, WithDebounce(50*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatalf("watcher not ready")
	}

	if err := os.WriteFile(other, []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(muts, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	select {
	case changed := <-calls:
		abs, _ := filepath.Abs(muts)
		if len(changed) != 1 || changed[0] != abs {
			t.Fatalf("expected only %s, got %v", abs, changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("expected a change callback")
	}

	select {
	case extra := <-calls:
		t.Fatalf("expected writes to be debounced, got extra callback %v", extra)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestRun_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := New([]string{filepath.Join(t.TempDir(), "missing", "demo.txt")}, func(context.Context, []string) {})
	if err := w.Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
