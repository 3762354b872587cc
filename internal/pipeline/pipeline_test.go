package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oldnordic/magellan/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunBaselineScanReconcilesFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package main\n\nfunc A() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "b.go"), []byte("package main\n\nfunc B() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	res, err := Run(ctx, Config{
		Root:        root,
		ModuleRoot:  "proj",
		Store:       s,
		Tool:        "magellan-test",
		ScanInitial: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Scanned != 2 {
		t.Fatalf("expected 2 scanned files, got %d", res.Scanned)
	}
	if res.Reconciled != 2 {
		t.Fatalf("expected 2 reconciled outcomes, got %d", res.Reconciled)
	}
	if res.ExecutionID == "" {
		t.Fatal("expected a non-empty execution id")
	}

	entry, err := s.FindExecution(res.ExecutionID)
	if err != nil {
		t.Fatalf("FindExecution: %v", err)
	}
	if entry == nil {
		t.Fatal("expected an execution log row for this run")
	}
	if entry.FinishedAt == "" {
		t.Fatal("expected FinishedAt to be set")
	}
}

func TestRunSkipsBaselineScanWhenWatchOnly(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := Run(ctx, Config{
		Root:       root,
		ModuleRoot: "proj",
		Store:      s,
		Tool:       "magellan-test",
		WatchOnly:  true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Scanned != 0 {
		t.Fatalf("expected no baseline scan, got %d scanned", res.Scanned)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	root := t.TempDir()
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_, _ = Run(ctx, Config{Root: root, ModuleRoot: "proj", Store: s, Tool: "magellan-test", ScanInitial: true})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRunErrorBudgetZeroMeansUnlimited(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newTestStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := Run(ctx, Config{
		Root:        root,
		ModuleRoot:  "proj",
		Store:       s,
		Tool:        "magellan-test",
		ScanInitial: true,
		ErrorBudget: 0,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ErrorBudgetExceeded {
		t.Fatal("expected error budget not to trip with a clean scan")
	}
}
