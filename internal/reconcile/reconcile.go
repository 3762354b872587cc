// Package reconcile implements the Reconciler (spec.md §4.6), the single
// entry point for every state change: reconcile_file_path(path) ->
// ReconcileOutcome. It runs the content-hash-driven algorithm spec.md §4.6
// names (stat, hash-compare, parse, resolve, diff-and-commit) against the
// entities/edges schema in internal/store, keyed by the content-addressed
// identity model in internal/identity.
package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"sort"

	"github.com/oldnordic/magellan/internal/extract"
	"github.com/oldnordic/magellan/internal/lang"
	"github.com/oldnordic/magellan/internal/magerr"
	"github.com/oldnordic/magellan/internal/store"
)

// OutcomeKind classifies what reconcile_file_path did.
type OutcomeKind string

const (
	Deleted   OutcomeKind = "Deleted"
	Unchanged OutcomeKind = "Unchanged"
	Reindexed OutcomeKind = "Reindexed"
)

// Outcome is the result of one reconcile_file_path call.
type Outcome struct {
	Kind        OutcomeKind
	Symbols     int
	References  int
	Calls       int
	Diagnostics []extract.Diag
}

// Reconciler holds everything reconcile_file_path needs across calls:
// the store, the project/crate root name used in canonical FQNs, and the
// filesystem root new paths are resolved against.
type Reconciler struct {
	Store      *store.Store
	ModuleRoot string
	Root       string
}

// New builds a Reconciler.
func New(s *store.Store, moduleRoot, root string) *Reconciler {
	return &Reconciler{Store: s, ModuleRoot: moduleRoot, Root: root}
}

// ReconcileFilePath runs the full algorithm from spec.md §4.6 for one path,
// given relative to r.Root. It is the only place the graph is mutated.
func (r *Reconciler) ReconcileFilePath(relPath string, language lang.Language) (Outcome, error) {
	absPath := r.Root + string(os.PathSeparator) + relPath

	// Step 1: stat. Absent means deletion.
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return r.reconcileDeletion(relPath)
		}
		return Outcome{}, magerr.Wrap(magerr.IoError, "MAG-IO-001", err).WithPath(relPath)
	}
	if info.IsDir() {
		return Outcome{}, magerr.New(magerr.PathRejected, "MAG-PATH-001", "not a regular file").WithPath(relPath)
	}

	source, err := os.ReadFile(absPath)
	if err != nil {
		return Outcome{}, magerr.Wrap(magerr.IoError, "MAG-IO-002", err).WithPath(relPath)
	}

	// Step 2: compare content hash against the stored File entity.
	newHash := contentHash(source)
	existingFile, err := r.Store.FindFileEntity(relPath)
	if err != nil {
		return Outcome{}, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-001", err)
	}
	if existingFile != nil {
		if storedHash, _ := existingFile.Payload["hash"].(string); storedHash == newHash {
			_, err := r.Store.UpsertFile(relPath, map[string]any{"hash": newHash, "last_seen": store.Now()})
			return Outcome{Kind: Unchanged}, err
		}
	}

	// Step 3: parse.
	result := extract.ExtractFile(r.ModuleRoot, relPath, language, source)
	if len(result.Diagnostics) > 0 {
		slog.Warn("reconcile.parse_failed", "path", relPath, "diagnostics", result.Diagnostics)
		return Outcome{Kind: Reindexed, Diagnostics: result.Diagnostics}, nil
	}

	// Step 4: resolve references/calls (§4.8) against this file's own
	// symbols first, then the project's stored symbols, keyed by name.
	r.resolveCalls(result)

	// Step 5: gather D, the existing derived entities for this path.
	existingDerived, err := r.Store.EntitiesByFile(relPath)
	if err != nil {
		return Outcome{}, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-002", err)
	}
	var deleteIDs []int64
	for _, e := range existingDerived {
		if e.Kind != "File" {
			deleteIDs = append(deleteIDs, e.ID)
		}
	}
	sort.Slice(deleteIDs, func(i, j int) bool { return deleteIDs[i] < deleteIDs[j] })

	// Step 6: graph transaction.
	expectedDeleted := len(deleteIDs)
	expectedInserted := len(result.Symbols) + len(result.References) + len(result.Calls)
	var actualInserted int
	err = r.Store.WithTransaction(func(tx *store.Store) error {
		if _, err := tx.DeleteEdgesTouching(deleteIDs); err != nil {
			return err
		}
		if err := tx.DeleteEntities(deleteIDs); err != nil {
			return err
		}
		fileID, err := tx.UpsertFile(relPath, map[string]any{"hash": newHash, "last_seen": store.Now()})
		if err != nil {
			return err
		}

		symbolIDToEntity := make(map[string]int64, len(result.Symbols))
		for _, sym := range result.Symbols {
			entityID, err := tx.InsertEntity(&store.Entity{
				Kind:     "Symbol",
				Name:     sym.Name,
				FilePath: relPath,
				SymbolID: sym.SymbolID,
				Payload: map[string]any{
					"canonical_fqn": sym.CanonicalFQN,
					"display_fqn":   sym.DisplayFQN,
					"kind":          string(sym.Kind),
					"kind_normalized": sym.KindNormalized,
					"anonymous":     sym.Anonymous,
					"byte_start":    sym.Span.ByteStart,
					"byte_end":      sym.Span.ByteEnd,
					"start_line":    sym.Span.StartLine,
					"start_col":     sym.Span.StartCol,
					"end_line":      sym.Span.EndLine,
					"end_col":       sym.Span.EndCol,
					"span_id":       sym.Span.SpanID,
				},
			})
			if err != nil {
				return err
			}
			symbolIDToEntity[sym.SymbolID] = entityID
			actualInserted++
			if _, err := tx.InsertEdge(&store.Edge{From: fileID, To: entityID, Type: "DEFINES"}); err != nil {
				return err
			}
		}

		for _, ref := range result.References {
			refEntityID, err := tx.InsertEntity(&store.Entity{
				Kind:     "Reference",
				Name:     ref.TargetName,
				FilePath: relPath,
				Payload: map[string]any{
					"kind":       ref.Kind,
					"span_id":    ref.Span.SpanID,
					"byte_start": ref.Span.ByteStart,
					"byte_end":   ref.Span.ByteEnd,
				},
			})
			if err != nil {
				return err
			}
			actualInserted++
			if _, err := tx.InsertEdge(&store.Edge{From: fileID, To: refEntityID, Type: "DEFINES"}); err != nil {
				return err
			}
			if ref.ResolvedSymbolID != "" {
				if targetID, ok := symbolIDToEntity[ref.ResolvedSymbolID]; ok {
					if _, err := tx.InsertEdge(&store.Edge{From: refEntityID, To: targetID, Type: "REFERENCES"}); err != nil {
						return err
					}
				}
			}
		}

		for _, call := range result.Calls {
			callEntityID, err := tx.InsertEntity(&store.Entity{
				Kind:     "Call",
				Name:     call.CalleeName,
				FilePath: relPath,
				Payload: map[string]any{
					"span_id":    call.CallSpan.SpanID,
					"byte_start": call.CallSpan.ByteStart,
					"byte_end":   call.CallSpan.ByteEnd,
				},
			})
			if err != nil {
				return err
			}
			actualInserted++
			if _, err := tx.InsertEdge(&store.Edge{From: fileID, To: callEntityID, Type: "DEFINES"}); err != nil {
				return err
			}
			if callerID, ok := symbolIDToEntity[call.CallerSymbolID]; ok {
				if _, err := tx.InsertEdge(&store.Edge{From: callerID, To: callEntityID, Type: "CALLER"}); err != nil {
					return err
				}
			}
			if call.ResolvedCalleeID != "" {
				if calleeEntityID, ok := symbolIDToEntity[call.ResolvedCalleeID]; ok {
					if _, err := tx.InsertEdge(&store.Edge{From: callEntityID, To: calleeEntityID, Type: "CALLS"}); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return Outcome{}, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-003", err).WithPath(relPath)
	}
	if actualInserted != expectedInserted || expectedDeleted != len(deleteIDs) {
		return Outcome{}, magerr.New(magerr.CorruptReconcile, "MAG-REC-001",
			"post-condition mismatch: inserted %d want %d", actualInserted, expectedInserted).WithPath(relPath)
	}

	// Step 7: second phase, chunks. Failure here does not roll back the
	// graph transaction above.
	if err := r.Store.DeleteChunksByFile(relPath); err != nil {
		slog.Warn("reconcile.chunk_delete.err", "path", relPath, "err", err)
	}
	for _, c := range result.Chunks {
		if err := r.Store.PutChunk(relPath, c.Span.ByteStart, c.Span.ByteEnd, c.Content); err != nil {
			slog.Warn("reconcile.chunk_put.err", "path", relPath, "err", err)
		}
	}

	return Outcome{
		Kind:       Reindexed,
		Symbols:    len(result.Symbols),
		References: len(result.References),
		Calls:      len(result.Calls),
	}, nil
}

func (r *Reconciler) reconcileDeletion(relPath string) (Outcome, error) {
	fileEntity, err := r.Store.FindFileEntity(relPath)
	if err != nil {
		return Outcome{}, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-004", err)
	}
	if fileEntity == nil {
		return Outcome{Kind: Deleted}, nil
	}

	derived, err := r.Store.EntitiesByFile(relPath)
	if err != nil {
		return Outcome{}, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-005", err)
	}
	ids := make([]int64, 0, len(derived))
	for _, e := range derived {
		ids = append(ids, e.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	err = r.Store.WithTransaction(func(tx *store.Store) error {
		if _, err := tx.DeleteEdgesTouching(ids); err != nil {
			return err
		}
		return tx.DeleteEntities(ids) // includes the File entity itself
	})
	if err != nil {
		return Outcome{}, magerr.Wrap(magerr.StoreUnavailable, "MAG-STORE-006", err).WithPath(relPath)
	}

	if err := r.Store.DeleteChunksByFile(relPath); err != nil {
		slog.Warn("reconcile.chunk_delete.err", "path", relPath, "err", err)
	}
	return Outcome{Kind: Deleted}, nil
}

// resolveCalls resolves each CallFact's callee name against the symbols
// extracted from the same file and, when none of them has that name,
// against the project's existing Symbol entities. An unambiguous single
// match resolves; zero or multiple matches are left unresolved — ambiguity
// is never silently guessed (spec.md §4.4), it surfaces later through the
// Query Surface's collisions() operation.
func (r *Reconciler) resolveCalls(result *extract.ParseResult) {
	local := make(map[string][]string, len(result.Symbols))
	for _, sym := range result.Symbols {
		local[sym.Name] = append(local[sym.Name], sym.SymbolID)
	}
	for i, call := range result.Calls {
		if ids := local[call.CalleeName]; len(ids) > 0 {
			if len(ids) == 1 {
				result.Calls[i].ResolvedCalleeID = ids[0]
			}
			continue
		}
		candidates, err := r.Store.EntitiesByName("Symbol", call.CalleeName)
		if err != nil || len(candidates) != 1 {
			continue
		}
		result.Calls[i].ResolvedCalleeID = candidates[0].SymbolID
	}
}

func contentHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}
