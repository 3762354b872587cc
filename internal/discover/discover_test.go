package discover

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverBasic(t *testing.T) {
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "app.py"), []byte("def main(): pass\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	files, _, err := Discover(ctx, dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	for _, f := range files {
		if f.Path == "" || f.RelPath == "" || f.Language == "" {
			t.Errorf("expected fully populated FileInfo, got %+v", f)
		}
	}
}

func TestDiscoverIsSortedByRelPath(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"z.go", "a.go", "m.go"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("package main\n"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, _, err := Discover(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := []string{"a.go", "m.go", "z.go"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %d", len(want), len(files))
	}
	for i, name := range want {
		if files[i].RelPath != name {
			t.Errorf("files[%d].RelPath = %q, want %q", i, files[i].RelPath, name)
		}
	}
}

func TestDiscoverRespectsMagellanignore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "vendor.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".magellanignore"), []byte("vendor.go\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, rejected, err := Discover(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "main.go" {
		t.Fatalf("expected only main.go admitted, got %+v", files)
	}
	var sawIgnored bool
	for _, r := range rejected {
		if r.RelPath == "vendor.go" && r.Reason == ReasonIgnored {
			sawIgnored = true
		}
	}
	if !sawIgnored {
		t.Fatalf("expected vendor.go rejected as Ignored, got %+v", rejected)
	}
}

func TestDiscoverCLIExcludeWinsOverMagellanignore(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "keep.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "drop.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// The ignore file re-includes drop.go; the CLI exclude must still drop it.
	if err := os.WriteFile(filepath.Join(dir, ".magellanignore"), []byte("!drop.go\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, _, err := Discover(context.Background(), dir, &Options{Exclude: []string{"drop.go"}})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.go" {
		t.Fatalf("expected only keep.go admitted, got %+v", files)
	}
}

func TestDiscoverRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	files, rejected, err := Discover(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no admitted files, got %+v", files)
	}
	if len(rejected) != 1 || rejected[0].Reason != ReasonUnsupported {
		t.Fatalf("expected notes.txt rejected as Unsupported, got %+v", rejected)
	}
}

func TestDiscoverCancellation(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Discover(ctx, dir, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFilterAdmitTraversalGuard(t *testing.T) {
	dir := t.TempDir()
	filter, err := NewFilter(dir, nil)
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	_, ok, reason := filter.Admit("../../../etc/passwd")
	if ok || reason != ReasonTraversal {
		t.Fatalf("expected Traversal rejection, got ok=%v reason=%v", ok, reason)
	}
}
