// Package query implements the Query Surface (spec.md §4.9): read-only
// lookups over the Graph Store for external renderers (the CLI's query,
// find, refs, files, status, collisions, and export commands). It exposes
// each lookup as a plain function over *store.Store so cmd/magellan can
// format the results through internal/cliio.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oldnordic/magellan/internal/store"
)

// SymbolMatch is one symbol result row.
type SymbolMatch struct {
	FilePath     string
	ByteStart    int
	ByteEnd      int
	StartLine    int
	StartCol     int
	EndLine      int
	EndCol       int
	Kind         string
	Name         string
	SymbolID     string
	CanonicalFQN string
	DisplayFQN   string
	Anonymous    bool
}

// ReferenceMatch is one reference or call result row.
type ReferenceMatch struct {
	FilePath  string
	ByteStart int
	ByteEnd   int
	Kind      string
	Name      string
	SymbolID  string // empty when the reference/call did not resolve
}

// StatusCounts is the summary status() returns (spec.md §4.9, also used by
// the `status` CLI command, spec.md §6).
type StatusCounts struct {
	Files      int
	Symbols    int
	References int
	Calls      int
	Chunks     int
}

// CollisionGroup is a set of symbols sharing a display FQN (spec.md §4.9
// collisions(field)).
type CollisionGroup struct {
	Value   string
	Symbols []SymbolMatch
}

// Surface wraps a Store with the Query Surface's read-only operations.
type Surface struct {
	Store *store.Store
}

// New builds a Surface over s.
func New(s *store.Store) *Surface {
	return &Surface{Store: s}
}

// SymbolsInFile returns every Symbol defined in path, optionally filtered
// by kind (spec.md §4.9 symbols_in_file).
func (q *Surface) SymbolsInFile(path string, kindFilter string) ([]SymbolMatch, error) {
	entities, err := q.Store.EntitiesByFile(path)
	if err != nil {
		return nil, fmt.Errorf("symbols in file: %w", err)
	}
	var matches []SymbolMatch
	for _, e := range entities {
		if e.Kind != "Symbol" {
			continue
		}
		m := toSymbolMatch(e)
		if kindFilter != "" && m.Kind != kindFilter {
			continue
		}
		matches = append(matches, m)
	}
	sortSymbolMatches(matches)
	return matches, nil
}

// Find resolves a name, symbol_id, or glob against Symbol entities,
// optionally narrowed to one file (spec.md §4.9 find: "ambiguity-aware —
// always returns the full candidate set"). It never picks a single winner;
// collisions() and the caller decide what to do with more than one match.
func (q *Surface) Find(term string, path string) ([]SymbolMatch, error) {
	var entities []*store.Entity
	var err error

	switch {
	case looksLikeSymbolID(term):
		e, ferr := q.Store.FindEntityBySymbolID(term)
		if ferr != nil {
			return nil, fmt.Errorf("find by symbol id: %w", ferr)
		}
		if e != nil {
			entities = []*store.Entity{e}
		}
	case strings.ContainsAny(term, "*?["):
		entities, err = q.Store.EntitiesByKind("Symbol")
		if err != nil {
			return nil, fmt.Errorf("find by glob: %w", err)
		}
		entities = filterByGlob(entities, term)
	default:
		entities, err = q.Store.EntitiesByName("Symbol", term)
		if err != nil {
			return nil, fmt.Errorf("find by name: %w", err)
		}
	}

	var matches []SymbolMatch
	for _, e := range entities {
		if path != "" && e.FilePath != path {
			continue
		}
		matches = append(matches, toSymbolMatch(e))
	}
	sortSymbolMatches(matches)
	return matches, nil
}

// Direction selects which side of a REFERENCES/CALLS edge Refs/CallersOf/
// CalleesOf traverses.
type Direction string

const (
	DirIn  Direction = "in"
	DirOut Direction = "out"
)

// Refs returns every Reference entity pointing at, or resolved from, the
// unique Symbol named name within path (spec.md §4.9 refs(symbol,
// direction)). An ambiguous or absent symbol returns an empty result —
// callers should resolve via Find first when more than one candidate is
// possible.
func (q *Surface) Refs(name, path string, dir Direction) ([]ReferenceMatch, error) {
	target, err := q.uniqueSymbol(name, path)
	if err != nil || target == nil {
		return nil, err
	}

	// REFERENCES edges always run Reference -> Symbol, so "in" (who points
	// at this symbol) is the only direction that has any edges to walk;
	// "out" is accepted for symmetry with callers_of/callees_of but returns
	// no results, since a Symbol entity never originates a REFERENCES edge.
	if dir == DirOut {
		return nil, nil
	}
	edges, err := q.Store.EdgesTo(target.ID, "REFERENCES")
	if err != nil {
		return nil, fmt.Errorf("refs: %w", err)
	}

	var matches []ReferenceMatch
	for _, edge := range edges {
		refEntity, ferr := q.Store.FindEntityByID(edge.From)
		if ferr != nil || refEntity == nil {
			continue
		}
		matches = append(matches, toReferenceMatch(refEntity, target.SymbolID))
	}
	sortReferenceMatches(matches)
	return matches, nil
}

// CallersOf returns every Call node whose CALLS edge resolves to the
// unique Symbol named name within path (spec.md §4.9 callers_of).
func (q *Surface) CallersOf(name, path string) ([]ReferenceMatch, error) {
	target, err := q.uniqueSymbol(name, path)
	if err != nil || target == nil {
		return nil, err
	}
	edges, err := q.Store.EdgesTo(target.ID, "CALLS")
	if err != nil {
		return nil, fmt.Errorf("callers of: %w", err)
	}
	var matches []ReferenceMatch
	for _, edge := range edges {
		callEntity, ferr := q.Store.FindEntityByID(edge.From)
		if ferr != nil || callEntity == nil {
			continue
		}
		matches = append(matches, toReferenceMatch(callEntity, target.SymbolID))
	}
	sortReferenceMatches(matches)
	return matches, nil
}

// CalleesOf returns every Call node the unique Symbol named name within
// path makes, resolved or not (spec.md §4.9 callees_of).
func (q *Surface) CalleesOf(name, path string) ([]ReferenceMatch, error) {
	target, err := q.uniqueSymbol(name, path)
	if err != nil || target == nil {
		return nil, err
	}
	edges, err := q.Store.EdgesFrom(target.ID, "CALLER")
	if err != nil {
		return nil, fmt.Errorf("callees of: %w", err)
	}
	var matches []ReferenceMatch
	for _, edge := range edges {
		callEntity, ferr := q.Store.FindEntityByID(edge.To)
		if ferr != nil || callEntity == nil {
			continue
		}
		resolvedID := ""
		if callsEdges, cerr := q.Store.EdgesFrom(callEntity.ID, "CALLS"); cerr == nil && len(callsEdges) == 1 {
			if calleeEntity, cerr2 := q.Store.FindEntityByID(callsEdges[0].To); cerr2 == nil && calleeEntity != nil {
				resolvedID = calleeEntity.SymbolID
			}
		}
		matches = append(matches, toReferenceMatch(callEntity, resolvedID))
	}
	sortReferenceMatches(matches)
	return matches, nil
}

// Files returns every distinct indexed file path, sorted.
func (q *Surface) Files() ([]string, error) {
	entities, err := q.Store.EntitiesByKind("File")
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	paths := make([]string, 0, len(entities))
	for _, e := range entities {
		paths = append(paths, e.FilePath)
	}
	sort.Strings(paths)
	return paths, nil
}

// Status returns entity/chunk counts (spec.md §4.9 status, §6 `status`).
func (q *Surface) Status() (StatusCounts, error) {
	var counts StatusCounts
	var err error
	if counts.Files, err = q.Store.CountEntitiesByKind("File"); err != nil {
		return counts, err
	}
	if counts.Symbols, err = q.Store.CountEntitiesByKind("Symbol"); err != nil {
		return counts, err
	}
	if counts.References, err = q.Store.CountEntitiesByKind("Reference"); err != nil {
		return counts, err
	}
	if counts.Calls, err = q.Store.CountEntitiesByKind("Call"); err != nil {
		return counts, err
	}
	if counts.Chunks, err = q.Store.CountChunks(); err != nil {
		return counts, err
	}
	return counts, nil
}

// Collisions groups Symbol entities sharing the same value for field, which
// is either "display_fqn" or "canonical_fqn" (spec.md §4.9 collisions). A
// collision is never an error; it is the Query Surface's answer to the
// ambiguity a collision causes elsewhere.
func (q *Surface) Collisions(field string) ([]CollisionGroup, error) {
	entities, err := q.Store.EntitiesByKind("Symbol")
	if err != nil {
		return nil, fmt.Errorf("collisions: %w", err)
	}
	groups := make(map[string][]SymbolMatch)
	for _, e := range entities {
		m := toSymbolMatch(e)
		var key string
		switch field {
		case "canonical_fqn":
			key = m.CanonicalFQN
		default:
			key = m.DisplayFQN
		}
		groups[key] = append(groups[key], m)
	}

	var result []CollisionGroup
	for value, matches := range groups {
		if len(matches) < 2 {
			continue
		}
		sortSymbolMatches(matches)
		result = append(result, CollisionGroup{Value: value, Symbols: matches})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Value < result[j].Value })
	return result, nil
}

// ExportFilters narrows ExportGraph's output.
type ExportFilters struct {
	Kind string
	Path string
}

// ExportGraph returns every entity of filters.Kind (Symbol when empty),
// optionally limited to filters.Path, as SymbolMatch records in the
// canonical sort order (spec.md §4.9 export_graph). One call exports one
// kind; Symbols, References and Calls are not combined in one result.
func (q *Surface) ExportGraph(filters ExportFilters) ([]SymbolMatch, error) {
	kind := filters.Kind
	if kind == "" {
		kind = "Symbol"
	}
	entities, err := q.Store.EntitiesByKind(kind)
	if err != nil {
		return nil, fmt.Errorf("export graph: %w", err)
	}
	var matches []SymbolMatch
	for _, e := range entities {
		if filters.Path != "" && e.FilePath != filters.Path {
			continue
		}
		matches = append(matches, toSymbolMatch(e))
	}
	sortSymbolMatches(matches)
	return matches, nil
}

func (q *Surface) uniqueSymbol(name, path string) (*store.Entity, error) {
	candidates, err := q.Store.EntitiesByName("Symbol", name)
	if err != nil {
		return nil, fmt.Errorf("unique symbol: %w", err)
	}
	if path != "" {
		filtered := candidates[:0]
		for _, c := range candidates {
			if c.FilePath == path {
				filtered = append(filtered, c)
			}
		}
		candidates = filtered
	}
	if len(candidates) != 1 {
		return nil, nil
	}
	return candidates[0], nil
}

func looksLikeSymbolID(term string) bool {
	if len(term) != 16 {
		return false
	}
	for _, c := range term {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

func filterByGlob(entities []*store.Entity, pattern string) []*store.Entity {
	var out []*store.Entity
	for _, e := range entities {
		if ok, _ := matchGlob(pattern, e.Name); ok {
			out = append(out, e)
		}
	}
	return out
}

// matchGlob is a small shell-style matcher (*, ?) over plain strings; the
// Path Filter's path globbing (internal/discover) uses filepath.Match
// directly since it always matches path segments, but symbol names are not
// paths, so path.Match's slash-sensitivity would reject valid patterns like
// "Handle*" matching "HandleRequest".
func matchGlob(pattern, name string) (bool, error) {
	return globMatch(pattern, name), nil
}

func globMatch(pattern, s string) bool {
	if pattern == "" {
		return s == ""
	}
	switch pattern[0] {
	case '*':
		for i := 0; i <= len(s); i++ {
			if globMatch(pattern[1:], s[i:]) {
				return true
			}
		}
		return false
	case '?':
		if len(s) == 0 {
			return false
		}
		return globMatch(pattern[1:], s[1:])
	default:
		if len(s) == 0 || s[0] != pattern[0] {
			return false
		}
		return globMatch(pattern[1:], s[1:])
	}
}

func toSymbolMatch(e *store.Entity) SymbolMatch {
	return SymbolMatch{
		FilePath:     e.FilePath,
		ByteStart:    intFromPayload(e.Payload, "byte_start"),
		ByteEnd:      intFromPayload(e.Payload, "byte_end"),
		StartLine:    intFromPayload(e.Payload, "start_line"),
		StartCol:     intFromPayload(e.Payload, "start_col"),
		EndLine:      intFromPayload(e.Payload, "end_line"),
		EndCol:       intFromPayload(e.Payload, "end_col"),
		Kind:         stringFromPayload(e.Payload, "kind"),
		Name:         e.Name,
		SymbolID:     e.SymbolID,
		CanonicalFQN: stringFromPayload(e.Payload, "canonical_fqn"),
		DisplayFQN:   stringFromPayload(e.Payload, "display_fqn"),
		Anonymous:    boolFromPayload(e.Payload, "anonymous"),
	}
}

func toReferenceMatch(e *store.Entity, resolvedSymbolID string) ReferenceMatch {
	return ReferenceMatch{
		FilePath:  e.FilePath,
		ByteStart: intFromPayload(e.Payload, "byte_start"),
		ByteEnd:   intFromPayload(e.Payload, "byte_end"),
		Kind:      stringFromPayload(e.Payload, "kind"),
		Name:      e.Name,
		SymbolID:  resolvedSymbolID,
	}
}

func intFromPayload(payload map[string]any, key string) int {
	v, ok := payload[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func stringFromPayload(payload map[string]any, key string) string {
	v, _ := payload[key].(string)
	return v
}

func boolFromPayload(payload map[string]any, key string) bool {
	v, _ := payload[key].(bool)
	return v
}

// sortSymbolMatches applies the determinism contract's composite key
// (spec.md §4.9): (file_path, byte_start, byte_end, kind, name, symbol_id).
func sortSymbolMatches(matches []SymbolMatch) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.ByteStart != b.ByteStart {
			return a.ByteStart < b.ByteStart
		}
		if a.ByteEnd != b.ByteEnd {
			return a.ByteEnd < b.ByteEnd
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.SymbolID < b.SymbolID
	})
}

func sortReferenceMatches(matches []ReferenceMatch) {
	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		if a.ByteStart != b.ByteStart {
			return a.ByteStart < b.ByteStart
		}
		if a.ByteEnd != b.ByteEnd {
			return a.ByteEnd < b.ByteEnd
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.SymbolID < b.SymbolID
	})
}
