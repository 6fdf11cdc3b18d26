package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Load(_ context.Context, _ string) error {
	r.calls.Add(1)
	return nil
}

func TestWatcher_ReloadsOnceForBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "news.csv")
	if err := os.WriteFile(path, []byte("title\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	rl := &countingReloader{}
	w, err := NewWatcher([]string{path}, rl, 100*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for i := range 5 {
		body := []byte("title\nrow " + string(rune('a'+i)) + "\n")
		if err := os.WriteFile(path, body, 0o600); err != nil {
			t.Fatal(err)
		}
	}
	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for rl.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(250 * time.Millisecond)
	w.Stop()

	if got := rl.calls.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1", got)
	}
}

func TestWatcher_StopsOnContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	w, err := NewWatcher([]string{filepath.Join(dir, "corp.csv")}, &countingReloader{}, 0, nil)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	cancel()
	w.Stop()
}
