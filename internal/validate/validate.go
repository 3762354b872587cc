// Package validate implements Validation (spec.md §4.10): pre-run checks
// before a pipeline starts and post-run checks afterward, both surfaced
// through the `verify` CLI command (spec.md §6) as a ValidationReport.
package validate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/oldnordic/magellan/internal/magerr"
	"github.com/oldnordic/magellan/internal/store"
)

// Mode selects which half of spec.md §4.10 Validate runs.
type Mode string

const (
	Pre  Mode = "pre"
	Post Mode = "post"
)

// Report is the ValidationReport spec.md §4.10 names.
type Report struct {
	Passed   bool
	Errors   []string
	Warnings []string
}

func (r *Report) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Passed = false
}

func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Pre runs spec.md §4.10's pre-run checks: the store is openable, its
// schema version is accepted, and root exists. Unlike Post, a failed store
// open means there is no *store.Store to pass in, so Pre takes the
// attempted-open error directly instead of a live Store.
func Pre(root string, openErr error) Report {
	report := Report{Passed: true}
	if openErr != nil {
		var mismatch store.SchemaMismatchError
		if errors.As(openErr, &mismatch) {
			report.fail("schema version mismatch: %v", openErr)
		} else {
			report.fail("store not openable: %v", openErr)
		}
	}
	if info, err := os.Stat(root); err != nil {
		report.fail("root does not exist: %v", err)
	} else if !info.IsDir() {
		report.fail("root is not a directory: %s", root)
	}
	return report
}

// Post runs spec.md §4.10's post-run checks against an open store:
//   - no orphan edges (every edge's endpoints exist)
//   - every DEFINES edge's target entity has file_path == the DEFINES
//     source File's path
//   - every Call entity has exactly one incoming CALLER edge
//   - each File's stored content hash matches the file on disk (warning,
//     not an error — it only means there is work yet to do)
//   - an execution log row exists for executionID
func Post(s *store.Store, root, executionID string) (Report, error) {
	report := Report{Passed: true}

	orphans, err := s.OrphanEdgeCount()
	if err != nil {
		return report, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-020", err)
	}
	if orphans > 0 {
		report.fail("%d orphan edge(s): an endpoint does not exist", orphans)
	}

	if err := checkDefinesFilePaths(s, &report); err != nil {
		return report, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-021", err)
	}

	if err := checkCallCallerCardinality(s, &report); err != nil {
		return report, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-022", err)
	}

	if err := checkContentHashes(s, root, &report); err != nil {
		return report, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-023", err)
	}

	entry, err := s.FindExecution(executionID)
	if err != nil {
		return report, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-024", err)
	}
	if entry == nil {
		report.fail("no execution log row for execution_id %s", executionID)
	}

	return report, nil
}

func checkDefinesFilePaths(s *store.Store, report *Report) error {
	files, err := s.EntitiesByKind("File")
	if err != nil {
		return err
	}
	for _, file := range files {
		edges, err := s.EdgesFrom(file.ID, "DEFINES")
		if err != nil {
			return err
		}
		for _, edge := range edges {
			target, err := s.FindEntityByID(edge.To)
			if err != nil {
				return err
			}
			if target == nil {
				continue // already counted as an orphan edge
			}
			if target.FilePath != file.FilePath {
				report.fail("DEFINES target %d has file_path %q, want %q (source file %d)",
					target.ID, target.FilePath, file.FilePath, file.ID)
			}
		}
	}
	return nil
}

func checkCallCallerCardinality(s *store.Store, report *Report) error {
	calls, err := s.EntitiesByKind("Call")
	if err != nil {
		return err
	}
	for _, call := range calls {
		callers, err := s.EdgesTo(call.ID, "CALLER")
		if err != nil {
			return err
		}
		if len(callers) != 1 {
			report.fail("Call %d has %d incoming CALLER edges, want exactly 1", call.ID, len(callers))
		}
	}
	return nil
}

func checkContentHashes(s *store.Store, root string, report *Report) error {
	files, err := s.EntitiesByKind("File")
	if err != nil {
		return err
	}
	paths := make([]string, 0, len(files))
	byPath := make(map[string]*store.Entity, len(files))
	for _, f := range files {
		paths = append(paths, f.FilePath)
		byPath[f.FilePath] = f
	}
	sort.Strings(paths)

	for _, p := range paths {
		f := byPath[p]
		storedHash, _ := f.Payload["hash"].(string)
		if storedHash == "" {
			continue
		}
		source, err := os.ReadFile(root + string(os.PathSeparator) + p)
		if err != nil {
			report.warn("file %s missing on disk but present in store: %v", p, err)
			continue
		}
		if contentHash(source) != storedHash {
			report.warn("content hash for %s no longer matches disk; not yet reconciled", p)
		}
	}
	return nil
}

// contentHash mirrors internal/reconcile's full (untruncated) SHA-256 hex
// fast-path hash; kept as its own small copy rather than exported from
// reconcile, since the two packages check the hash for different reasons
// (reconcile decides whether to skip re-parsing, validate only reports a
// mismatch as a warning) and importing reconcile here would pull its much
// larger dependency surface into a read-only verification path.
func contentHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}
