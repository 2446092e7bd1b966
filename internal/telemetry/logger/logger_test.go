package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newJSONLogger(t *testing.T, level string) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l, err := New(Config{Level: level, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return l, &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"default config", DefaultConfig()},
		{"json format", Config{Level: "debug", Format: "json"}},
		{"text format", Config{Level: "info", Format: "text"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if l == nil || l.Slog() == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")

	tests := []struct {
		level   string
		logFunc func(string, ...any)
	}{
		{"DEBUG", l.Debug},
		{"INFO", l.Info},
		{"WARN", l.Warn},
		{"ERROR", l.Error},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.logFunc("test message", "component", "test-value")

			entry := decodeEntry(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["component"] != "test-value" {
				t.Errorf("component = %v", entry["component"])
			}
		})
	}
}

func TestLogger_DefaultLevelFiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at the default level, got %q", buf.String())
	}

	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn should be logged, got %q", buf.String())
	}
}

func TestLogger_LevelIsPerLogger(t *testing.T) {
	quiet, quietBuf := newJSONLogger(t, "error")
	loud, loudBuf := newJSONLogger(t, "debug")

	quiet.Info("hidden")
	loud.Debug("shown")

	if quietBuf.Len() != 0 {
		t.Errorf("info logged at error level: %q", quietBuf.String())
	}
	if loudBuf.Len() == 0 {
		t.Error("debug not logged at debug level")
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	l.With("state", "authenticated").Info("transition")

	entry := decodeEntry(t, buf)
	if entry["state"] != "authenticated" {
		t.Errorf("state = %v", entry["state"])
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if l.Slog() == nil {
		t.Fatal("Discard() returned nil slog")
	}
}

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hwdesk.log")

	w, err := NewFileWriter(FileConfig{Path: path})
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	defer w.Close()

	if w.MaxSize != 5 || w.MaxBackups != 3 {
		t.Errorf("defaults not applied: size=%d backups=%d", w.MaxSize, w.MaxBackups)
	}

	l, err := New(Config{Level: "info", Format: "json", Output: w})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	l.Info("to file", "password", "hunter2")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("log file missing entry: %q", data)
	}
	if strings.Contains(string(data), "hunter2") {
		t.Error("password leaked into log file")
	}
}
