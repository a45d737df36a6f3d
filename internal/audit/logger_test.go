package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewLoggerCreatesParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "audit.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(filepath.Join(dir, "nested")); err != nil {
		t.Fatalf("expected parent directory to exist: %v", err)
	}
}

func TestLogWritesOneJSONLineRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")

	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Log(7, "RESERVE", 42, "ok", "", 150*time.Microsecond)
	logger.Log(7, "SHOW", 42, "error", "engine: event not found", 0)

	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("unmarshal entry: %v", err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Op != "RESERVE" || entries[0].EventID != 42 || entries[0].Outcome != "ok" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[0].LatencyUs != 150 {
		t.Errorf("LatencyUs = %d, want 150", entries[0].LatencyUs)
	}
	if entries[1].Op != "SHOW" || entries[1].Outcome != "error" || entries[1].Detail == "" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}
