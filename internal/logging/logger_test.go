package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"Debug", slog.LevelDebug},
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", &buf)

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug message logged at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("info message not logged at info level")
	}
}

func TestNewLoggerTraceLabel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("trace", &buf)

	logger.Log(nil, LevelTrace, "series detail")

	out := buf.String()
	if !strings.Contains(out, "TRACE") {
		t.Errorf("trace output not labeled TRACE: %q", out)
	}
}

func TestNewDecisionLoggerInfoLevel(t *testing.T) {
	dir := t.TempDir()
	dl := NewDecisionLogger(dir, "info")
	if dl != nil {
		t.Error("expected nil DecisionLogger at info level")
	}

	// Nil receiver is safe.
	dl.Log(map[string]any{"key": "value"})
	dl.Close()
	if dl.Trace() {
		t.Error("nil DecisionLogger reports trace")
	}

	if _, err := os.Stat(filepath.Join(dir, "decisions.jsonl")); !os.IsNotExist(err) {
		t.Error("decisions.jsonl created at info level")
	}
}

func TestDecisionLoggerWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	dl := NewDecisionLogger(dir, "debug")
	if dl == nil {
		t.Fatal("expected DecisionLogger at debug level")
	}
	if dl.Trace() {
		t.Error("debug-level logger reports trace")
	}

	dl.Log(map[string]any{"condition": "a", "polarizing": true})
	dl.Log(map[string]any{"condition": "b", "polarizing": false})
	dl.Close()

	f, err := os.Open(filepath.Join(dir, "decisions.jsonl"))
	if err != nil {
		t.Fatalf("opening decisions.jsonl: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines++
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Errorf("line %d is not valid JSON: %v", lines, err)
			continue
		}
		if _, ok := entry["time"]; !ok {
			t.Errorf("line %d missing time field", lines)
		}
		if _, ok := entry["condition"]; !ok {
			t.Errorf("line %d missing condition field", lines)
		}
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestDecisionLoggerTraceLevel(t *testing.T) {
	dl := NewDecisionLogger(t.TempDir(), "trace")
	if dl == nil {
		t.Fatal("expected DecisionLogger at trace level")
	}
	defer dl.Close()
	if !dl.Trace() {
		t.Error("trace-level logger does not report trace")
	}
}

func TestDecisionLoggerDoesNotMutateCaller(t *testing.T) {
	dl := NewDecisionLogger(t.TempDir(), "debug")
	if dl == nil {
		t.Fatal("expected DecisionLogger")
	}
	defer dl.Close()

	event := map[string]any{"condition": "a"}
	dl.Log(event)
	if _, ok := event["time"]; ok {
		t.Error("Log mutated the caller's map")
	}
}
