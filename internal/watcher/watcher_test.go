package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	root := t.TempDir()
	w, err := New(root, 30*time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, root
}

func TestWatcherCoalescesBurstIntoOneBatch(t *testing.T) {
	w, root := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	for i := 0; i < 10; i++ {
		path := filepath.Join(root, "a.txt")
		if err := os.WriteFile(path, []byte("burst"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case batch := <-w.Batches():
		if len(batch.Paths) == 0 {
			t.Fatal("expected at least one dirty path in the batch")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a batch")
	}

	// The burst must coalesce into exactly one batch, not one per write.
	select {
	case batch := <-w.Batches():
		t.Fatalf("expected the burst to coalesce into one batch, got a second: %+v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcherBatchPathsAreSorted(t *testing.T) {
	w, _ := newTestWatcher(t)
	w.markDirty("z.go")
	w.markDirty("a.go")
	w.markDirty("m.go")
	w.drain()

	select {
	case batch := <-w.Batches():
		want := []string{"a.go", "m.go", "z.go"}
		if len(batch.Paths) != len(want) {
			t.Fatalf("expected %d paths, got %d", len(want), len(batch.Paths))
		}
		for i, p := range want {
			if batch.Paths[i] != p {
				t.Errorf("paths[%d] = %q, want %q", i, batch.Paths[i], p)
			}
		}
	default:
		t.Fatal("expected a batch to be ready")
	}
}

func TestWatcherDrainIsNoopWhenClean(t *testing.T) {
	w, _ := newTestWatcher(t)
	w.drain()
	select {
	case batch := <-w.Batches():
		t.Fatalf("expected no batch, got %+v", batch)
	default:
	}
}

func TestWatcherWakeupNeverBlocksDuringStorm(t *testing.T) {
	w, _ := newTestWatcher(t)
	// Saturate the bounded(1) wakeup channel, then keep marking dirty: none
	// of these sends may block the caller (spec.md §4.7 backpressure).
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			w.markDirty("storm.go")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("markDirty blocked during a storm")
	}
}

func TestWatcherRunStopsOnCancel(t *testing.T) {
	w, _ := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
}

func TestWatcherPicksUpNewDirectory(t *testing.T) {
	w, root := newTestWatcher(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	subdir := filepath.Join(root, "sub")
	if err := os.Mkdir(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond) // let handleEvent register the new watch
	if err := os.WriteFile(filepath.Join(subdir, "new.go"), []byte("package sub\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case batch := <-w.Batches():
		if len(batch.Paths) == 0 {
			t.Fatal("expected a dirty path for the new subdirectory's file")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a batch from the new subdirectory")
	}
}
