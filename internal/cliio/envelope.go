// Package cliio implements the CLI's mandatory JSON response envelope and
// fixed field naming (spec.md §6), plus exit-code mapping.
package cliio

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/oldnordic/magellan/internal/magerr"
)

// SchemaVersion is the envelope's own schema version, independent of the
// Graph Store's SchemaVersion.
const SchemaVersion = "1.0.0"

// Envelope is the mandatory response shape for --output json and pretty.
type Envelope struct {
	SchemaVersion string `json:"schema_version"`
	ExecutionID   string `json:"execution_id"`
	Tool          string `json:"tool"`
	Timestamp     string `json:"timestamp"`
	Partial       bool   `json:"partial"`
	Data          any    `json:"data"`
}

// ErrorBody is the error envelope's `data`-shaped payload.
type ErrorBody struct {
	Code        string `json:"code"`
	Error       string `json:"error"`
	Message     string `json:"message"`
	Span        any    `json:"span,omitempty"`
	Remediation string `json:"remediation,omitempty"`
}

// NewEnvelope wraps data in the mandatory envelope for one tool invocation.
func NewEnvelope(tool, executionID string, partial bool, data any) Envelope {
	return Envelope{
		SchemaVersion: SchemaVersion,
		ExecutionID:   executionID,
		Tool:          tool,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Partial:       partial,
		Data:          data,
	}
}

// WriteJSON writes an envelope as pretty-printed JSON (used by both
// --output json and --output pretty; the two differ only in human-mode
// rendering handled upstream).
func WriteJSON(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// WriteError writes a *magerr.Error wrapped in the error envelope shape.
func WriteError(w io.Writer, tool, executionID string, err *magerr.Error) error {
	body := ErrorBody{
		Code:        err.Code,
		Error:       string(err.Kind),
		Message:     err.Message,
		Remediation: err.Remediation,
	}
	return WriteJSON(w, NewEnvelope(tool, executionID, false, body))
}

// ExitCode maps a plain error to the CLI exit code table (spec.md §6):
// 0 success, 1 generic, 2 usage, 3 storage, 4 not found, 5 validation failed.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var magErr *magerr.Error
	if asMagErr(err, &magErr) {
		return magErr.Kind.ExitCode()
	}
	return 1
}

func asMagErr(err error, target **magerr.Error) bool {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if me, ok := err.(*magerr.Error); ok {
			*target = me
			return true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// UsageError formats a usage-error message for exit code 2. It only
// builds the error; it prints nothing and writes no envelope.
func UsageError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
