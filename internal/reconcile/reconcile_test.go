package reconcile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oldnordic/magellan/internal/lang"
	"github.com/oldnordic/magellan/internal/store"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newReconciler(t *testing.T) (*Reconciler, string) {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	root := t.TempDir()
	return New(s, "proj", root), root
}

const barSource = `package main

func Bar() {}

func Baz() {
	Bar()
}
`

func TestReconcileFilePathFirstIndex(t *testing.T) {
	r, root := newReconciler(t)
	writeFile(t, root, "bar.go", barSource)

	outcome, err := r.ReconcileFilePath("bar.go", lang.Go)
	if err != nil {
		t.Fatalf("ReconcileFilePath: %v", err)
	}
	if outcome.Kind != Reindexed {
		t.Fatalf("expected Reindexed, got %s", outcome.Kind)
	}
	if outcome.Symbols != 2 {
		t.Fatalf("expected 2 symbols, got %d", outcome.Symbols)
	}

	syms, err := r.Store.EntitiesByKind("Symbol")
	if err != nil {
		t.Fatalf("EntitiesByKind: %v", err)
	}
	if len(syms) != 2 {
		t.Fatalf("expected 2 Symbol entities in store, got %d", len(syms))
	}
}

func TestReconcileFilePathUnchangedOnSecondCall(t *testing.T) {
	r, root := newReconciler(t)
	writeFile(t, root, "bar.go", barSource)

	if _, err := r.ReconcileFilePath("bar.go", lang.Go); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	outcome, err := r.ReconcileFilePath("bar.go", lang.Go)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if outcome.Kind != Unchanged {
		t.Fatalf("expected Unchanged, got %s", outcome.Kind)
	}
}

func TestReconcileFilePathReindexesOnContentChange(t *testing.T) {
	r, root := newReconciler(t)
	writeFile(t, root, "bar.go", barSource)
	if _, err := r.ReconcileFilePath("bar.go", lang.Go); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}

	writeFile(t, root, "bar.go", barSource+"\nfunc Extra() {}\n")
	outcome, err := r.ReconcileFilePath("bar.go", lang.Go)
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if outcome.Kind != Reindexed {
		t.Fatalf("expected Reindexed after content change, got %s", outcome.Kind)
	}
	if outcome.Symbols != 3 {
		t.Fatalf("expected 3 symbols after content change, got %d", outcome.Symbols)
	}

	syms, err := r.Store.EntitiesByKind("Symbol")
	if err != nil {
		t.Fatalf("EntitiesByKind: %v", err)
	}
	if len(syms) != 3 {
		t.Fatalf("expected stale symbols replaced, got %d total", len(syms))
	}
}

func TestReconcileFilePathDeletesWhenFileRemoved(t *testing.T) {
	r, root := newReconciler(t)
	writeFile(t, root, "bar.go", barSource)
	if _, err := r.ReconcileFilePath("bar.go", lang.Go); err != nil {
		t.Fatalf("first reconcile: %v", err)
	}

	if err := os.Remove(filepath.Join(root, "bar.go")); err != nil {
		t.Fatal(err)
	}
	outcome, err := r.ReconcileFilePath("bar.go", lang.Go)
	if err != nil {
		t.Fatalf("delete reconcile: %v", err)
	}
	if outcome.Kind != Deleted {
		t.Fatalf("expected Deleted, got %s", outcome.Kind)
	}

	remaining, err := r.Store.EntitiesByFile("bar.go")
	if err != nil {
		t.Fatalf("EntitiesByFile: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected no entities left for deleted file, got %d", len(remaining))
	}
}

func TestReconcileFilePathResolvesCallWithinFile(t *testing.T) {
	r, root := newReconciler(t)
	writeFile(t, root, "bar.go", barSource)
	if _, err := r.ReconcileFilePath("bar.go", lang.Go); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	calls, err := r.Store.EntitiesByKind("Call")
	if err != nil {
		t.Fatalf("EntitiesByKind Call: %v", err)
	}
	var sawResolvedCall bool
	for _, c := range calls {
		edges, err := r.Store.EdgesFrom(c.ID, "CALLS")
		if err != nil {
			t.Fatalf("EdgesFrom: %v", err)
		}
		if len(edges) > 0 {
			sawResolvedCall = true
		}
	}
	if !sawResolvedCall {
		t.Fatal("expected the call to Bar to resolve to a CALLS edge")
	}
}

func TestReconcileFilePathDeletingAbsentFileIsNoop(t *testing.T) {
	r, _ := newReconciler(t)
	outcome, err := r.ReconcileFilePath("never-existed.go", lang.Go)
	if err != nil {
		t.Fatalf("ReconcileFilePath: %v", err)
	}
	if outcome.Kind != Deleted {
		t.Fatalf("expected Deleted for never-seen absent path, got %s", outcome.Kind)
	}
}
