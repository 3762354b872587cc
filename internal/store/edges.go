package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// InsertEdge creates a typed edge between two entities (spec.md §4.5
// insert_edge(from, to, type, payload)), deduplicated on (from, to, type).
func (s *Store) InsertEdge(e *Edge) (int64, error) {
	res, err := s.q.Exec(`
		INSERT INTO edges (from_id, to_id, type, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(from_id, to_id, type) DO UPDATE SET payload=excluded.payload`,
		e.From, e.To, e.Type, marshalPayload(e.Payload))
	if err != nil {
		return 0, fmt.Errorf("insert edge: %w", err)
	}
	return res.LastInsertId()
}

// Direction selects which side of an edge to traverse in Neighbors.
type Direction int

const (
	Outbound Direction = iota
	Inbound
	Any
)

// Neighbors returns the ids of entities reachable from entity in the given
// direction, optionally filtered by edge type (spec.md §4.5
// neighbors(entity, direction, edge_type filter) → [entity_id]).
func (s *Store) Neighbors(entity int64, dir Direction, edgeType string) ([]int64, error) {
	var query string
	args := []any{entity}
	switch dir {
	case Outbound:
		query = `SELECT to_id FROM edges WHERE from_id=?`
	case Inbound:
		query = `SELECT from_id FROM edges WHERE to_id=?`
	default:
		query = `SELECT to_id FROM edges WHERE from_id=? UNION SELECT from_id FROM edges WHERE to_id=?`
		args = append(args, entity)
	}
	if edgeType != "" {
		if dir == Any {
			query = `SELECT to_id FROM edges WHERE from_id=? AND type=? UNION SELECT from_id FROM edges WHERE to_id=? AND type=?`
			args = []any{entity, edgeType, entity, edgeType}
		} else {
			query += ` AND type=?`
			args = append(args, edgeType)
		}
	}
	rows, err := s.q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("neighbors: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// EdgesFrom returns all edges originating at an entity, optionally filtered
// by type.
func (s *Store) EdgesFrom(from int64, edgeType string) ([]*Edge, error) {
	if edgeType != "" {
		rows, err := s.q.Query(`SELECT id, from_id, to_id, type, payload FROM edges WHERE from_id=? AND type=?`, from, edgeType)
		if err != nil {
			return nil, fmt.Errorf("edges from: %w", err)
		}
		defer rows.Close()
		return scanEdges(rows)
	}
	rows, err := s.q.Query(`SELECT id, from_id, to_id, type, payload FROM edges WHERE from_id=?`, from)
	if err != nil {
		return nil, fmt.Errorf("edges from: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// EdgesTo returns all edges terminating at an entity, optionally filtered by
// type.
func (s *Store) EdgesTo(to int64, edgeType string) ([]*Edge, error) {
	if edgeType != "" {
		rows, err := s.q.Query(`SELECT id, from_id, to_id, type, payload FROM edges WHERE to_id=? AND type=?`, to, edgeType)
		if err != nil {
			return nil, fmt.Errorf("edges to: %w", err)
		}
		defer rows.Close()
		return scanEdges(rows)
	}
	rows, err := s.q.Query(`SELECT id, from_id, to_id, type, payload FROM edges WHERE to_id=?`, to)
	if err != nil {
		return nil, fmt.Errorf("edges to: %w", err)
	}
	defer rows.Close()
	return scanEdges(rows)
}

// DeleteEdgesTouching deletes every edge whose from_id or to_id is in ids
// (spec.md §4.5 delete_edges_touching(ids), bulk, sorted ids). Called before
// DeleteEntities in the Reconciler so post-condition counts (spec.md §4.6
// step 6) can be verified against a known edge set.
func (s *Store) DeleteEdgesTouching(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var total int64
	const batchSize = 450 // two placeholders per id across from/to clauses
	for i := 0; i < len(ids); i += batchSize {
		end := i + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[i:end]
		placeholders := make([]string, len(chunk))
		args := make([]any, len(chunk))
		for j, id := range chunk {
			placeholders[j] = "?"
			args[j] = id
		}
		inClause := strings.Join(placeholders, ",")
		query := fmt.Sprintf("DELETE FROM edges WHERE from_id IN (%s) OR to_id IN (%s)", inClause, inClause)
		res, err := s.q.Exec(query, append(append([]any{}, args...), args...)...)
		if err != nil {
			return total, fmt.Errorf("delete edges touching: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

// CountEdgesByType returns the number of edges of a given type, used by
// status/verify.
func (s *Store) CountEdgesByType(edgeType string) (int, error) {
	var count int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM edges WHERE type=?`, edgeType).Scan(&count)
	return count, err
}

// OrphanEdgeCount returns the number of edges whose from_id or to_id does
// not reference an existing entity — used by validate's post-run check
// ("no orphan edges").
func (s *Store) OrphanEdgeCount() (int, error) {
	var count int
	err := s.q.QueryRow(`
		SELECT COUNT(*) FROM edges e
		WHERE NOT EXISTS (SELECT 1 FROM entities WHERE id = e.from_id)
		   OR NOT EXISTS (SELECT 1 FROM entities WHERE id = e.to_id)`).Scan(&count)
	return count, err
}

func scanEdges(rows *sql.Rows) ([]*Edge, error) {
	var result []*Edge
	for rows.Next() {
		var e Edge
		var payload string
		if err := rows.Scan(&e.ID, &e.From, &e.To, &e.Type, &payload); err != nil {
			return nil, err
		}
		e.Payload = unmarshalPayload(payload)
		result = append(result, &e)
	}
	return result, rows.Err()
}
