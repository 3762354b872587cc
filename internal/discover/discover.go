// Package discover implements the Path Filter (spec.md §4.1) and the
// deterministic baseline-scan enumeration the Pipeline's scan-initial step
// relies on (spec.md §4.8). It applies spec.md §4.1's full rule order:
// traversal guard, symlink-escape guard, inclusion globs, gitignore-style
// `.magellanignore` exclusion layered with CLI flags, then the
// language/extension filter — using github.com/go-git/go-git/v5's
// gitignore matcher for the exclusion layer.
package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/oldnordic/magellan/internal/lang"
)

// FileInfo is one file admitted by the Path Filter.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to root, slash-separated
	Language lang.Language // detected language
}

// RejectReason names why a candidate path was not admitted (spec.md §4.1:
// PathRejected{kind: Traversal|OutsideRoot|SymlinkEscape|Ignored|Unsupported}).
type RejectReason string

const (
	ReasonTraversal     RejectReason = "Traversal"
	ReasonOutsideRoot   RejectReason = "OutsideRoot"
	ReasonSymlinkEscape RejectReason = "SymlinkEscape"
	ReasonIgnored       RejectReason = "Ignored"
	ReasonUnsupported   RejectReason = "Unsupported"
)

// RejectedPath records one path the filter dropped, used by verify to
// report what baseline scan skipped (spec.md §7: PathRejected is "dropped
// silently in steady state; reported in verify").
type RejectedPath struct {
	RelPath string
	Reason  RejectReason
}

// Options configures the Path Filter: the ignore file (defaults to
// "<root>/.magellanignore") and the CLI --include/--exclude layers, which
// win over the ignore file (spec.md §4.1).
type Options struct {
	IgnoreFile string
	Include    []string
	Exclude    []string
}

// Filter is the Path Filter (C1). Ignore rules are resolved once when the
// Filter is built and reused for every candidate path (spec.md §4.8:
// "resolved once at startup ... reused per path").
type Filter struct {
	root    string
	matcher gitignore.Matcher
	include []string
	exclude []string
}

// NewFilter builds a Filter rooted at root.
func NewFilter(root string, opts *Options) (*Filter, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	f := &Filter{root: absRoot}

	ignoreFile := filepath.Join(absRoot, ".magellanignore")
	if opts != nil {
		if opts.IgnoreFile != "" {
			ignoreFile = opts.IgnoreFile
		}
		f.include = opts.Include
		f.exclude = opts.Exclude
	}
	patterns, _ := loadPatterns(ignoreFile) // absent ignore file: matches nothing
	f.matcher = gitignore.NewMatcher(patterns)
	return f, nil
}

func loadPatterns(path string) ([]gitignore.Pattern, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns, scanner.Err()
}

// Admit applies spec.md §4.1's rule order to one candidate path.
func (f *Filter) Admit(candidatePath string) (lang.Language, bool, RejectReason) {
	if hops := countParentHops(candidatePath); hops >= 3 {
		return "", false, ReasonTraversal
	}

	abs, err := filepath.Abs(candidatePath)
	if err != nil {
		return "", false, ReasonOutsideRoot
	}
	rel, err := filepath.Rel(f.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false, ReasonOutsideRoot
	}

	if info, statErr := os.Lstat(abs); statErr == nil && info.Mode()&os.ModeSymlink != 0 {
		target, evalErr := filepath.EvalSymlinks(abs)
		if evalErr != nil {
			return "", false, ReasonSymlinkEscape
		}
		targetRel, relErr := filepath.Rel(f.root, target)
		if relErr != nil || targetRel == ".." || strings.HasPrefix(targetRel, "..") {
			return "", false, ReasonSymlinkEscape
		}
	}

	relSlash := filepath.ToSlash(rel)
	if len(f.include) > 0 && !matchesAny(f.include, relSlash) {
		return "", false, ReasonIgnored
	}
	if matchesAny(f.exclude, relSlash) {
		return "", false, ReasonIgnored
	}
	if !matchesAny(f.include, relSlash) && f.matcher.Match(strings.Split(relSlash, "/"), false) {
		return "", false, ReasonIgnored
	}

	l, ok := lang.LanguageForExtension(filepath.Ext(abs))
	if !ok {
		return "", false, ReasonUnsupported
	}
	return l, true, ""
}

func countParentHops(p string) int {
	cleaned := filepath.ToSlash(filepath.Clean(p))
	var hops int
	for _, seg := range strings.Split(cleaned, "/") {
		if seg == ".." {
			hops++
		}
	}
	return hops
}

func matchesAny(globs []string, relPath string) bool {
	for _, g := range globs {
		if ok, _ := filepath.Match(g, relPath); ok {
			return true
		}
		if ok, _ := filepath.Match(g, filepath.Base(relPath)); ok {
			return true
		}
	}
	return false
}

// Discover deterministically enumerates every admitted file under root in
// sorted order (spec.md §4.8: "Deterministically enumerate files under
// root (sorted walk)"). `.git` is always skipped; everything else is
// pruned purely by the Path Filter so behavior matches Admit exactly.
func Discover(ctx context.Context, root string, opts *Options) ([]FileInfo, []RejectedPath, error) {
	filter, err := NewFilter(root, opts)
	if err != nil {
		return nil, nil, err
	}

	var candidates []string
	walkErr := filepath.WalkDir(filter.root, func(path string, d os.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		candidates = append(candidates, path)
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}
	sort.Strings(candidates)

	var files []FileInfo
	var rejected []RejectedPath
	for _, path := range candidates {
		l, ok, reason := filter.Admit(path)
		rel, _ := filepath.Rel(filter.root, path)
		rel = filepath.ToSlash(rel)
		if !ok {
			rejected = append(rejected, RejectedPath{RelPath: rel, Reason: reason})
			continue
		}
		files = append(files, FileInfo{Path: path, RelPath: rel, Language: l})
	}
	return files, rejected, nil
}
