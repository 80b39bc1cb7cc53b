package logger

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %s", scanner.Text())
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestFileLogger_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.log")
	l := NewFileLogger(path, false)

	l.Info("measurement", "reading complete", map[string]interface{}{"vital": "spo2", "value": 97})
	l.Error("identity", "extraction failed", map[string]interface{}{"error": errors.New("boom")})
	l.Debug("flow", "advance", nil)
	_ = l.Sync()

	entries := readEntries(t, path)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	first := entries[0]
	if first["level"] != "INFO" {
		t.Errorf("Expected level INFO, got %v", first["level"])
	}
	if first["module"] != "measurement" {
		t.Errorf("Expected module measurement, got %v", first["module"])
	}
	if first["message"] != "reading complete" {
		t.Errorf("Expected message, got %v", first["message"])
	}
	if _, ok := first["timestamp"]; !ok {
		t.Error("Expected timestamp key")
	}
	if entries[1]["error"] != "boom" {
		t.Errorf("Expected error field boom, got %v", entries[1]["error"])
	}
}

func TestFileLogger_ProductionDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiosk.log")
	l := NewFileLogger(path, true)

	l.Debug("flow", "advance", nil)
	l.Warn("sensor", "poll timeout", nil)
	_ = l.Sync()

	entries := readEntries(t, path)
	if len(entries) != 1 || entries[0]["level"] != "WARN" {
		t.Errorf("Expected only the WARN entry, got %v", entries)
	}
	if l.FilePath() != path {
		t.Errorf("Expected file path %q, got %q", path, l.FilePath())
	}
}

func TestNop(t *testing.T) {
	var l ILogger = Nop{}
	l.Info("any", "thing", nil)
	if err := l.Sync(); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}
