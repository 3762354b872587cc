package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// InsertEntity creates a new entity and returns its id (spec.md §4.5
// insert_entity(kind, payload) → entity_id).
func (s *Store) InsertEntity(e *Entity) (int64, error) {
	res, err := s.q.Exec(`
		INSERT INTO entities (kind, name, file_path, symbol_id, payload)
		VALUES (?, ?, ?, ?, ?)`,
		e.Kind, e.Name, e.FilePath, e.SymbolID, marshalPayload(e.Payload))
	if err != nil {
		return 0, fmt.Errorf("insert entity: %w", err)
	}
	return res.LastInsertId()
}

// UpsertFile inserts or updates the single File entity for a path, keyed by
// FilePath (Files have no symbol_id). Returns its id.
func (s *Store) UpsertFile(filePath string, payload map[string]any) (int64, error) {
	existing, err := s.FindFileEntity(filePath)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		_, err := s.q.Exec(`UPDATE entities SET payload=? WHERE id=?`, marshalPayload(payload), existing.ID)
		return existing.ID, err
	}
	return s.InsertEntity(&Entity{Kind: "File", Name: filePath, FilePath: filePath, Payload: payload})
}

// FindFileEntity returns the File entity for a path, or nil if absent.
func (s *Store) FindFileEntity(filePath string) (*Entity, error) {
	row := s.q.QueryRow(`SELECT id, kind, name, file_path, symbol_id, payload
		FROM entities WHERE kind='File' AND file_path=?`, filePath)
	return scanEntity(row)
}

// FindEntityByID looks up an entity by its primary key.
func (s *Store) FindEntityByID(id int64) (*Entity, error) {
	row := s.q.QueryRow(`SELECT id, kind, name, file_path, symbol_id, payload FROM entities WHERE id=?`, id)
	return scanEntity(row)
}

// FindEntityBySymbolID looks up a Symbol entity by its symbol_id (unique).
func (s *Store) FindEntityBySymbolID(symbolID string) (*Entity, error) {
	row := s.q.QueryRow(`SELECT id, kind, name, file_path, symbol_id, payload
		FROM entities WHERE symbol_id=?`, symbolID)
	return scanEntity(row)
}

// EntitiesByKind returns every entity of a given kind (spec.md §4.5
// entities_by_kind).
func (s *Store) EntitiesByKind(kind string) ([]*Entity, error) {
	rows, err := s.q.Query(`SELECT id, kind, name, file_path, symbol_id, payload
		FROM entities WHERE kind=?`, kind)
	if err != nil {
		return nil, fmt.Errorf("entities by kind: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// EntitiesByLabel returns every entity tagged with a given label (spec.md
// §4.5 entities_by_label).
func (s *Store) EntitiesByLabel(label string) ([]*Entity, error) {
	rows, err := s.q.Query(`
		SELECT e.id, e.kind, e.name, e.file_path, e.symbol_id, e.payload
		FROM entities e JOIN labels l ON l.entity_id = e.id
		WHERE l.label=?`, label)
	if err != nil {
		return nil, fmt.Errorf("entities by label: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// EntitiesByProperty returns every entity with a matching key/value
// property (spec.md §4.5 entities_by_property).
func (s *Store) EntitiesByProperty(key, value string) ([]*Entity, error) {
	rows, err := s.q.Query(`
		SELECT e.id, e.kind, e.name, e.file_path, e.symbol_id, e.payload
		FROM entities e JOIN properties p ON p.entity_id = e.id
		WHERE p.key=? AND p.value=?`, key, value)
	if err != nil {
		return nil, fmt.Errorf("entities by property: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// EntitiesByName returns all Symbol/Reference/Call entities matching a
// display name exactly (used by Query Surface's ambiguity-aware find).
func (s *Store) EntitiesByName(kind, name string) ([]*Entity, error) {
	rows, err := s.q.Query(`SELECT id, kind, name, file_path, symbol_id, payload
		FROM entities WHERE kind=? AND name=?`, kind, name)
	if err != nil {
		return nil, fmt.Errorf("entities by name: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// EntitiesByFile returns all entities carrying the given file_path, used by
// the Reconciler to gather the set D of existing derived entities for a
// path (spec.md §4.6 step 5).
func (s *Store) EntitiesByFile(filePath string) ([]*Entity, error) {
	rows, err := s.q.Query(`SELECT id, kind, name, file_path, symbol_id, payload
		FROM entities WHERE file_path=?`, filePath)
	if err != nil {
		return nil, fmt.Errorf("entities by file: %w", err)
	}
	defer rows.Close()
	return scanEntities(rows)
}

// DeleteEntities deletes a batch of entities by id (spec.md §4.5
// delete_entities(ids), bulk, sorted ids). ON DELETE CASCADE on edges,
// labels, and properties removes anything touching them.
func (s *Store) DeleteEntities(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	const batchSize = 900
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
		query := fmt.Sprintf("DELETE FROM entities WHERE id IN (%s)", strings.Join(placeholders, ","))
		if _, err := s.q.Exec(query, args...); err != nil {
			return fmt.Errorf("delete entities: %w", err)
		}
	}
	return nil
}

// AddLabel tags an entity with a label.
func (s *Store) AddLabel(entityID int64, label string) error {
	_, err := s.q.Exec(`INSERT OR IGNORE INTO labels (entity_id, label) VALUES (?, ?)`, entityID, label)
	return err
}

// SetProperty sets a key/value property on an entity.
func (s *Store) SetProperty(entityID int64, key, value string) error {
	_, err := s.q.Exec(`
		INSERT INTO properties (entity_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT(entity_id, key) DO UPDATE SET value=excluded.value`, entityID, key, value)
	return err
}

// CountEntitiesByKind returns the number of entities of a given kind, used
// by status/verify.
func (s *Store) CountEntitiesByKind(kind string) (int, error) {
	var count int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM entities WHERE kind=?`, kind).Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntity(row scanner) (*Entity, error) {
	var e Entity
	var payload string
	err := row.Scan(&e.ID, &e.Kind, &e.Name, &e.FilePath, &e.SymbolID, &payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	e.Payload = unmarshalPayload(payload)
	return &e, nil
}

func scanEntities(rows *sql.Rows) ([]*Entity, error) {
	var result []*Entity
	for rows.Next() {
		var e Entity
		var payload string
		if err := rows.Scan(&e.ID, &e.Kind, &e.Name, &e.FilePath, &e.SymbolID, &payload); err != nil {
			return nil, err
		}
		e.Payload = unmarshalPayload(payload)
		result = append(result, &e)
	}
	return result, rows.Err()
}
