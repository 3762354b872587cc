// Package store implements the Graph Store (spec.md §4.5): entities, typed
// edges, labels, and key/value properties, plus the chunk and execution-log
// side tables. Storage is embedded SQLite via modernc.org/sqlite (pure Go,
// no cgo), with github.com/mattn/go-sqlite3 kept only for the one-time
// legacy-layout migration path.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SchemaVersion is bumped whenever the on-disk table layout changes in a way
// that is not backward compatible. The CLI's status/verify commands report
// it; a mismatch against an existing database is a magerr.SchemaMismatch.
const SchemaVersion = 1

// Querier abstracts *sql.DB and *sql.Tx so store methods work in both
// contexts without duplicating every query.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store wraps a SQLite connection holding one project's graph.
type Store struct {
	db     *sql.DB
	q      Querier // active querier: db, or a tx inside WithTransaction
	dbPath string
}

// Entity is one node in the graph: a File, Symbol, Reference, or Call.
// Kind-specific fields live in Payload as JSON; FilePath and SymbolID are
// promoted to columns because the Reconciler and Query Surface both need to
// look entities up by them without unmarshaling every row.
type Entity struct {
	ID       int64
	Kind     string
	Name     string
	FilePath string
	SymbolID string // empty for entities with no stable symbol identity (File, Reference, Call)
	Payload  map[string]any
}

// Edge is one typed, directed edge between two entities.
type Edge struct {
	ID      int64
	From    int64
	To      int64
	Type    string
	Payload map[string]any
}

func cacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	dir := filepath.Join(home, ".cache", "magellan")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir cache: %w", err)
	}
	return dir, nil
}

// Open opens or creates "<rootKey>.db" in the cache dir. rootKey is used
// as given, so callers passing the same key share one database.
func Open(rootKey string) (*Store, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dir, rootKey+".db")
	return OpenPath(dbPath)
}

// OpenPath opens a SQLite database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{db: db, dbPath: dbPath}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// OpenMemory opens an in-memory database, used by tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	s := &Store{db: db, dbPath: ":memory:"}
	s.q = s.db
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// WithTransaction runs fn over a transaction-scoped Store. Every entity/edge
// write inside fn is committed atomically; any error rolls the whole
// transaction back (spec.md §4.6 step 6's "Commit ... otherwise abort").
func (s *Store) WithTransaction(fn func(tx *Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	txStore := &Store{db: s.db, q: tx, dbPath: s.dbPath}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for callers that need raw access
// (migration, validate's post-run checks).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the on-disk path this Store was opened from.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		file_path TEXT NOT NULL DEFAULT '',
		symbol_id TEXT NOT NULL DEFAULT '',
		payload TEXT NOT NULL DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities(kind, id);
	CREATE INDEX IF NOT EXISTS idx_entities_file ON entities(file_path);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_entities_symbol_id ON entities(symbol_id) WHERE symbol_id != '';

	CREATE TABLE IF NOT EXISTS edges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		from_id INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		to_id INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		payload TEXT NOT NULL DEFAULT '{}',
		UNIQUE(from_id, to_id, type)
	);
	CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(from_id);
	CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(to_id);
	CREATE INDEX IF NOT EXISTS idx_edges_type ON edges(type);

	CREATE TABLE IF NOT EXISTS labels (
		entity_id INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		label TEXT NOT NULL,
		PRIMARY KEY (entity_id, label)
	);
	CREATE INDEX IF NOT EXISTS idx_labels_label ON labels(label);

	CREATE TABLE IF NOT EXISTS properties (
		entity_id INTEGER NOT NULL REFERENCES entities(id) ON DELETE CASCADE,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (entity_id, key)
	);
	CREATE INDEX IF NOT EXISTS idx_properties_kv ON properties(key, value);

	CREATE TABLE IF NOT EXISTS chunks (
		chunk_key TEXT PRIMARY KEY,
		file_path TEXT NOT NULL,
		byte_start INTEGER NOT NULL,
		byte_end INTEGER NOT NULL,
		content TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_file ON chunks(file_path);

	CREATE TABLE IF NOT EXISTS execution_log (
		execution_id TEXT PRIMARY KEY,
		tool TEXT NOT NULL,
		argv TEXT NOT NULL DEFAULT '[]',
		root TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL DEFAULT '',
		outcome_counts TEXT NOT NULL DEFAULT '{}'
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	var storedVersion string
	err := s.db.QueryRow(`SELECT value FROM schema_meta WHERE key='schema_version'`).Scan(&storedVersion)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`INSERT INTO schema_meta(key, value) VALUES ('schema_version', ?)`, fmt.Sprint(SchemaVersion))
		return err
	}
	if err != nil {
		return err
	}
	if storedVersion != fmt.Sprint(SchemaVersion) {
		slog.Warn("store.schema.mismatch", "stored", storedVersion, "expected", SchemaVersion)
		return SchemaMismatchError{Stored: storedVersion, Expected: SchemaVersion}
	}
	return nil
}

// SchemaMismatchError is returned by OpenPath/Open when an existing
// database's schema_version does not match SchemaVersion.
type SchemaMismatchError struct {
	Stored   string
	Expected int
}

func (e SchemaMismatchError) Error() string {
	return fmt.Sprintf("store: schema version mismatch: database has %q, binary expects %d", e.Stored, e.Expected)
}

func marshalPayload(p map[string]any) string {
	if p == nil {
		return "{}"
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func unmarshalPayload(data string) map[string]any {
	if data == "" {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return map[string]any{}
	}
	return m
}

// Now returns the current time in RFC3339 (UTC), the timestamp format used
// for File.last_seen and execution_log.started_at/finished_at.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
