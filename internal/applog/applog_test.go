package applog

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "revizio.log")

	logger, closer, err := New(path, "debug")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("quiz started", slog.String("session", "abc"))
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &line); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if line["msg"] != "quiz started" || line["session"] != "abc" {
		t.Errorf("unexpected log line %v", line)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "revizio.log")
	logger, closer, err := New(path, "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hidden")
	_ = closer.Close()

	data, _ := os.ReadFile(path)
	if len(data) != 0 {
		t.Errorf("info should be filtered at warn level, got %q", data)
	}
}

func TestNew_Discard(t *testing.T) {
	logger, closer, err := New("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Errorf("discard logger should be disabled")
	}
	_ = closer.Close()
}

func TestParseLevel(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Errorf("expected error for an unknown level")
	}
	if lvl, _ := ParseLevel("ERROR"); lvl != slog.LevelError {
		t.Errorf("expected error level, got %v", lvl)
	}
}
