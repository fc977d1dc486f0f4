package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var recs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("expected JSON log line, got %q: %v", line, err)
		}
		recs = append(recs, rec)
	}
	return recs
}

func TestLoggerStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("debug", &buf).WithComponent("exec")
	l.Infow("run.completed", map[string]any{"run_id": "r1", "rows": 4, "err": errors.New("boom")})

	recs := decodeLines(t, buf.String())
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
	rec := recs[0]
	if rec["level"] != "info" || rec["msg"] != "run.completed" || rec["component"] != "exec" {
		t.Fatalf("unexpected record: %#v", rec)
	}
	if rec["run_id"] != "r1" || rec["err"] != "boom" {
		t.Fatalf("unexpected fields: %#v", rec)
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("error", &buf)
	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Error("shown %d", 3)

	recs := decodeLines(t, buf.String())
	if len(recs) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(recs), buf.String())
	}
	if recs[0]["level"] != "error" || recs[0]["msg"] != "shown 3" {
		t.Fatalf("unexpected record: %#v", recs[0])
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if ParseLevel("verbose") != LevelInfo {
		t.Fatal("expected unknown level to fall back to info")
	}
	if ParseLevel("WARN") != LevelWarn {
		t.Fatal("expected level parsing to be case-insensitive")
	}
}
