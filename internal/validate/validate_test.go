package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oldnordic/magellan/internal/identity"
	"github.com/oldnordic/magellan/internal/lang"
	"github.com/oldnordic/magellan/internal/reconcile"
	"github.com/oldnordic/magellan/internal/store"
)

func TestPreChecksRootExists(t *testing.T) {
	root := t.TempDir()
	report := Pre(root, nil)
	if !report.Passed {
		t.Fatalf("expected a clean pre-check to pass, got %+v", report)
	}
}

func TestPreChecksMissingRootFails(t *testing.T) {
	report := Pre(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	if report.Passed {
		t.Fatal("expected pre-check to fail for a missing root")
	}
}

func TestPreChecksOpenErrorFails(t *testing.T) {
	root := t.TempDir()
	report := Pre(root, os.ErrPermission)
	if report.Passed {
		t.Fatal("expected pre-check to fail when the store could not be opened")
	}
}

func TestPostChecksCleanGraphPasses(t *testing.T) {
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	root := t.TempDir()
	source := "package main\n\nfunc Bar() {}\n"
	if err := os.WriteFile(filepath.Join(root, "bar.go"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	executionID := identity.NewExecutionID()
	if err := s.BeginExecution(executionID, "magellan-test", root, nil); err != nil {
		t.Fatalf("BeginExecution: %v", err)
	}

	r := reconcile.New(s, "proj", root)
	if _, err := r.ReconcileFilePath("bar.go", lang.Go); err != nil {
		t.Fatalf("ReconcileFilePath: %v", err)
	}
	if err := s.FinishExecution(executionID, map[string]int{"reconciled": 1}); err != nil {
		t.Fatalf("FinishExecution: %v", err)
	}

	report, err := Post(s, root, executionID)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !report.Passed {
		t.Fatalf("expected a clean graph to pass post-checks, got %+v", report)
	}
	if len(report.Warnings) != 0 {
		t.Fatalf("expected no warnings for an up-to-date file, got %+v", report.Warnings)
	}
}

func TestPostChecksMissingExecutionLogFails(t *testing.T) {
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	report, err := Post(s, t.TempDir(), "never-began")
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if report.Passed {
		t.Fatal("expected post-check to fail when the execution log row is missing")
	}
}

func TestPostChecksWarnsOnStaleContentHash(t *testing.T) {
	s, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer s.Close()

	root := t.TempDir()
	path := filepath.Join(root, "bar.go")
	if err := os.WriteFile(path, []byte("package main\n\nfunc Bar() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	executionID := identity.NewExecutionID()
	if err := s.BeginExecution(executionID, "magellan-test", root, nil); err != nil {
		t.Fatalf("BeginExecution: %v", err)
	}
	r := reconcile.New(s, "proj", root)
	if _, err := r.ReconcileFilePath("bar.go", lang.Go); err != nil {
		t.Fatalf("ReconcileFilePath: %v", err)
	}
	if err := s.FinishExecution(executionID, nil); err != nil {
		t.Fatalf("FinishExecution: %v", err)
	}

	if err := os.WriteFile(path, []byte("package main\n\nfunc Bar() {}\nfunc Extra() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Post(s, root, executionID)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !report.Passed {
		t.Fatalf("a stale content hash is a warning, not an error: %+v", report)
	}
	if len(report.Warnings) != 1 {
		t.Fatalf("expected exactly 1 warning for the stale file, got %+v", report.Warnings)
	}
}
