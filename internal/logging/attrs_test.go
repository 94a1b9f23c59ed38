package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestBytesUsesIECUnits(t *testing.T) {
	if got := Bytes("size", 1536).Value.String(); got != "1.5 KiB" {
		t.Fatalf("Bytes(1536) = %q", got)
	}
	if got := Bytes("size", -4).Value.String(); got != "0 B" {
		t.Fatalf("negative size rendered as %q", got)
	}
}

func TestErrorWithContextKeepsCallerHint(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	ErrorWithContext(logger, "file failed", "job_failed", String(FieldErrorHint, "rerun with --ignore"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[FieldErrorHint] != "rerun with --ignore" {
		t.Fatalf("error_hint = %v", record[FieldErrorHint])
	}
	if record[FieldEventType] != "job_failed" {
		t.Fatalf("event_type = %v", record[FieldEventType])
	}
}
