// Package identity computes the content-addressed ids the rest of the
// pipeline treats as primary keys: Span.span_id, Symbol.symbol_id, the
// canonical and display fully-qualified names, and the per-run execution_id.
// Every id here is a pure function of its inputs (spec.md §3, §4.4) so
// re-indexing unchanged bytes reproduces identical ids.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Span is a half-open byte range [ByteStart, ByteEnd) in one file.
type Span struct {
	SpanID   string
	FilePath string
	ByteStart int
	ByteEnd   int
	StartLine int // 1-indexed
	StartCol  int // 0-indexed UTF-8 byte
	EndLine   int
	EndCol    int
}

// NewSpan computes SpanID and fills in the rest of the Span verbatim.
func NewSpan(filePath string, byteStart, byteEnd, startLine, startCol, endLine, endCol int) Span {
	return Span{
		SpanID:    SpanID(filePath, byteStart, byteEnd),
		FilePath:  filePath,
		ByteStart: byteStart,
		ByteEnd:   byteEnd,
		StartLine: startLine,
		StartCol:  startCol,
		EndLine:   endLine,
		EndCol:    endCol,
	}
}

// SpanID is the first 16 hex chars of SHA-256(file_path || ":" || byte_start || ":" || byte_end).
// Zero-length spans (byte_start == byte_end) are legal and get a distinct id per position.
func SpanID(filePath string, byteStart, byteEnd int) string {
	return hash16(fmt.Sprintf("%s:%d:%d", filePath, byteStart, byteEnd))
}

func hash16(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
