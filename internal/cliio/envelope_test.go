package cliio

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/oldnordic/magellan/internal/magerr"
)

func TestWriteJSONEnvelopeShape(t *testing.T) {
	var buf bytes.Buffer
	env := NewEnvelope("status", "exec-1", false, map[string]int{"files": 3})
	if err := WriteJSON(&buf, env); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, field := range []string{"schema_version", "execution_id", "tool", "timestamp", "partial", "data"} {
		if _, ok := decoded[field]; !ok {
			t.Errorf("missing field %q in envelope", field)
		}
	}
}

func TestExitCodeMapsStoreUnavailable(t *testing.T) {
	err := magerr.New(magerr.StoreUnavailable, "MAG-STORE-001", "db locked")
	if code := ExitCode(err); code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
}

func TestExitCodeGenericError(t *testing.T) {
	if code := ExitCode(errors.New("boom")); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}

func TestExitCodeSuccess(t *testing.T) {
	if code := ExitCode(nil); code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	var buf bytes.Buffer
	err := magerr.New(magerr.ParseFailed, "MAG-PARSE-001", "unexpected token").WithPath("a.go")
	if werr := WriteError(&buf, "query", "exec-2", err); werr != nil {
		t.Fatalf("WriteError: %v", werr)
	}
	var decoded Envelope
	if jerr := json.Unmarshal(buf.Bytes(), &decoded); jerr != nil {
		t.Fatalf("decode: %v", jerr)
	}
	if decoded.Tool != "query" {
		t.Errorf("expected tool=query, got %s", decoded.Tool)
	}
}
