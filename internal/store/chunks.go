package store

import (
	"fmt"
	"strings"
)

// ChunkKey builds the colon-namespaced chunk key spec.md §3/§4.5 specify:
// "chunk:{path}:{start}:{end}", with any literal colon in path escaped as
// "::" so prefix scans by path stay unambiguous.
func ChunkKey(filePath string, byteStart, byteEnd int) string {
	escaped := strings.ReplaceAll(filePath, ":", "::")
	return fmt.Sprintf("chunk:%s:%d:%d", escaped, byteStart, byteEnd)
}

// PutChunk writes or replaces one code chunk (spec.md §4.6 step 7, first
// write of the second phase).
func (s *Store) PutChunk(filePath string, byteStart, byteEnd int, content string) error {
	key := ChunkKey(filePath, byteStart, byteEnd)
	_, err := s.q.Exec(`
		INSERT INTO chunks (chunk_key, file_path, byte_start, byte_end, content)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(chunk_key) DO UPDATE SET content=excluded.content`,
		key, filePath, byteStart, byteEnd, content)
	return err
}

// DeleteChunksByFile deletes every chunk whose file_path matches (spec.md
// §4.6 step 7: "delete stale chunks for this path").
func (s *Store) DeleteChunksByFile(filePath string) error {
	_, err := s.q.Exec(`DELETE FROM chunks WHERE file_path=?`, filePath)
	return err
}

// ChunkContent is one stored code fragment.
type ChunkContent struct {
	FilePath  string
	ByteStart int
	ByteEnd   int
	Content   string
}

// ChunksByFile returns every chunk stored for a file path, ordered by
// byte_start.
func (s *Store) ChunksByFile(filePath string) ([]ChunkContent, error) {
	rows, err := s.q.Query(`SELECT file_path, byte_start, byte_end, content
		FROM chunks WHERE file_path=? ORDER BY byte_start`, filePath)
	if err != nil {
		return nil, fmt.Errorf("chunks by file: %w", err)
	}
	defer rows.Close()
	var out []ChunkContent
	for rows.Next() {
		var c ChunkContent
		if err := rows.Scan(&c.FilePath, &c.ByteStart, &c.ByteEnd, &c.Content); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountChunks returns the total number of stored chunks, used by status.
func (s *Store) CountChunks() (int, error) {
	var count int
	err := s.q.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&count)
	return count, err
}
