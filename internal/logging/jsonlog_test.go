package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := out
	out = &buf
	t.Cleanup(func() { out = prev })
	return &buf
}

func TestInfoLineShape(t *testing.T) {
	buf := capture(t)
	Info("classify_done", map[string]any{"rows": 12})

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("not a JSON line: %v (%q)", err, buf.String())
	}
	if got["level"] != "info" || got["msg"] != "classify_done" {
		t.Fatalf("line = %v", got)
	}
	fields, ok := got["fields"].(map[string]any)
	if !ok || fields["rows"] != float64(12) {
		t.Fatalf("fields = %v", got["fields"])
	}
	if got["ts"] == "" {
		t.Fatalf("missing timestamp: %v", got)
	}
}

func TestErrorOmitsEmptyFields(t *testing.T) {
	buf := capture(t)
	Error("boom", nil)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("not a JSON line: %v", err)
	}
	if got["level"] != "error" {
		t.Fatalf("level = %v", got["level"])
	}
	if _, present := got["fields"]; present {
		t.Fatalf("empty fields serialized: %v", got)
	}
}
