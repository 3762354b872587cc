package store

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// MigrateLegacy performs a one-time migration from an older nodes/edges
// table layout into the current entities/edges schema, written to
// dbPath+".migrated"; the legacy tables are left in place. Safe to call
// multiple times: a no-op when the legacy tables were never present or
// when an earlier call already produced dbPath+".migrated".
func MigrateLegacy(dbPath string) error {
	if _, err := os.Stat(dbPath + ".migrated"); err == nil {
		return nil // already migrated by an earlier call
	}
	legacyDB, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("open legacy: %w", err)
	}
	defer legacyDB.Close()

	var tableCount int
	err = legacyDB.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='nodes'`).Scan(&tableCount)
	if err != nil || tableCount == 0 {
		return nil // nothing to migrate
	}

	slog.Info("migrate.start", "db", dbPath)

	backupPath := dbPath + ".backup"
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		if err := copyFile(dbPath, backupPath); err != nil {
			return fmt.Errorf("backup: %w", err)
		}
		slog.Info("migrate.backup", "path", backupPath)
	}

	target, err := OpenPath(dbPath + ".migrated")
	if err != nil {
		return fmt.Errorf("open target: %w", err)
	}
	defer target.Close()

	idMap, err := migrateNodes(legacyDB, target)
	if err != nil {
		return fmt.Errorf("migrate nodes: %w", err)
	}
	if err := migrateEdges(legacyDB, target, idMap); err != nil {
		return fmt.Errorf("migrate edges: %w", err)
	}

	slog.Info("migrate.done", "entities", len(idMap))
	return nil
}

// migrateNodes copies the legacy nodes table (label, name, file_path,
// start_line, end_line, properties) into entities, mapping label → kind
// and keeping name as the entity name. qualified_name is not copied, and
// no symbol_id is set since the legacy schema never computed one.
func migrateNodes(legacyDB *sql.DB, target *Store) (map[int64]int64, error) {
	rows, err := legacyDB.Query(`SELECT id, label, name, file_path, start_line, end_line, properties FROM nodes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	idMap := make(map[int64]int64)
	for rows.Next() {
		var legacyID int64
		var label, name, filePath, properties string
		var startLine, endLine int
		if err := rows.Scan(&legacyID, &label, &name, &filePath, &startLine, &endLine, &properties); err != nil {
			return nil, err
		}
		payload := unmarshalPayload(properties)
		payload["legacy_start_line"] = startLine
		payload["legacy_end_line"] = endLine
		newID, err := target.InsertEntity(&Entity{Kind: label, Name: name, FilePath: filePath, Payload: payload})
		if err != nil {
			return nil, err
		}
		idMap[legacyID] = newID
	}
	return idMap, rows.Err()
}

func migrateEdges(legacyDB *sql.DB, target *Store, idMap map[int64]int64) error {
	rows, err := legacyDB.Query(`SELECT source_id, target_id, type, properties FROM edges`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sourceID, targetID int64
		var edgeType, properties string
		if err := rows.Scan(&sourceID, &targetID, &edgeType, &properties); err != nil {
			return err
		}
		from, ok1 := idMap[sourceID]
		to, ok2 := idMap[targetID]
		if !ok1 || !ok2 {
			continue // dangling reference in the legacy db, skip rather than fail the whole migration
		}
		if _, err := target.InsertEdge(&Edge{From: from, To: to, Type: edgeType, Payload: unmarshalPayload(properties)}); err != nil {
			return err
		}
	}
	return rows.Err()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
