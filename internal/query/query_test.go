package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oldnordic/magellan/internal/lang"
	"github.com/oldnordic/magellan/internal/reconcile"
	"github.com/oldnordic/magellan/internal/store"
)

const sampleSource = `package main

func Bar() {}

func Baz() {
	Bar()
}
`

func newTestSurface(t *testing.T) (*Surface, string) {
	t.Helper()
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	root := t.TempDir()
	writeFile(t, root, "bar.go", sampleSource)

	r := reconcile.New(s, "proj", root)
	if _, err := r.ReconcileFilePath("bar.go", lang.Go); err != nil {
		t.Fatalf("ReconcileFilePath: %v", err)
	}
	return New(s), root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSymbolsInFile(t *testing.T) {
	q, _ := newTestSurface(t)
	matches, err := q.SymbolsInFile("bar.go", "")
	if err != nil {
		t.Fatalf("SymbolsInFile: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 symbols, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].ByteStart > matches[i].ByteStart {
			t.Fatalf("expected sorted by byte_start, got %+v", matches)
		}
	}
}

func TestFindByName(t *testing.T) {
	q, _ := newTestSurface(t)
	matches, err := q.Find("Bar", "")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(matches) != 1 || matches[0].Name != "Bar" {
		t.Fatalf("expected exactly one match for Bar, got %+v", matches)
	}
}

func TestFindByGlob(t *testing.T) {
	q, _ := newTestSurface(t)
	matches, err := q.Find("Ba*", "")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected both Bar and Baz to match Ba*, got %+v", matches)
	}
}

func TestFindBySymbolID(t *testing.T) {
	q, _ := newTestSurface(t)
	all, err := q.Find("Bar", "")
	if err != nil || len(all) != 1 {
		t.Fatalf("setup Find by name failed: %v %+v", err, all)
	}
	matches, err := q.Find(all[0].SymbolID, "")
	if err != nil {
		t.Fatalf("Find by symbol id: %v", err)
	}
	if len(matches) != 1 || matches[0].SymbolID != all[0].SymbolID {
		t.Fatalf("expected one match by symbol id, got %+v", matches)
	}
}

func TestCallersOf(t *testing.T) {
	q, _ := newTestSurface(t)
	callers, err := q.CallersOf("Bar", "bar.go")
	if err != nil {
		t.Fatalf("CallersOf: %v", err)
	}
	if len(callers) != 1 {
		t.Fatalf("expected 1 caller of Bar, got %+v", callers)
	}
}

func TestCalleesOf(t *testing.T) {
	q, _ := newTestSurface(t)
	callees, err := q.CalleesOf("Baz", "bar.go")
	if err != nil {
		t.Fatalf("CalleesOf: %v", err)
	}
	if len(callees) != 1 || callees[0].SymbolID == "" {
		t.Fatalf("expected 1 resolved callee of Baz, got %+v", callees)
	}
}

func TestStatus(t *testing.T) {
	q, _ := newTestSurface(t)
	counts, err := q.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if counts.Files != 1 || counts.Symbols != 2 || counts.Calls != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestFiles(t *testing.T) {
	q, _ := newTestSurface(t)
	files, err := q.Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 1 || files[0] != "bar.go" {
		t.Fatalf("expected [bar.go], got %+v", files)
	}
}

func TestCollisionsNoneByDefault(t *testing.T) {
	q, _ := newTestSurface(t)
	groups, err := q.Collisions("display_fqn")
	if err != nil {
		t.Fatalf("Collisions: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("expected no collisions for distinct names, got %+v", groups)
	}
}

func TestExportGraphFiltersByPath(t *testing.T) {
	q, _ := newTestSurface(t)
	records, err := q.ExportGraph(ExportFilters{Kind: "Symbol", Path: "bar.go"})
	if err != nil {
		t.Fatalf("ExportGraph: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 symbol records, got %+v", records)
	}
}
