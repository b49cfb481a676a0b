// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// Tests for the logging package

package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
	}
	for _, tc := range tests {
		if got := tc.level.String(); got != tc.want {
			t.Errorf("Level(%d).String() = %q, want %q", tc.level, got, tc.want)
		}
	}
}

func TestFileLogging(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelInfo,
		LogDir:  dir,
		Service: "analyzer",
		Quiet:   true,
	})
	logger.Info("checklist generated", "rules_checked", 5)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading log dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	if !strings.HasPrefix(entries[0].Name(), "analyzer_") {
		t.Errorf("log file %q does not carry the service prefix", entries[0].Name())
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "checklist generated") {
		t.Errorf("log file missing message, got: %s", data)
	}
	if !strings.Contains(string(data), `"service":"analyzer"`) {
		t.Errorf("log file missing service attribute, got: %s", data)
	}
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		Level:   LevelWarn,
		LogDir:  dir,
		Service: "analyzer",
		Quiet:   true,
	})
	logger.Info("should be filtered")
	logger.Warn("should appear")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected 1 log file, got %d", len(entries))
	}
	data, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if strings.Contains(string(data), "should be filtered") {
		t.Error("Info entry written despite Warn level filter")
	}
	if !strings.Contains(string(data), "should appear") {
		t.Error("Warn entry missing")
	}
}

func TestWithAddsAttributes(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{Level: LevelInfo, LogDir: dir, Service: "analyzer", Quiet: true})
	child := logger.With("request_id", "req-123")
	child.Info("processing")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	data, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if !strings.Contains(string(data), "req-123") {
		t.Errorf("child logger attribute missing, got: %s", data)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"Warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestQuietWithoutFileWritesNothing(t *testing.T) {
	pipeRead, pipeWrite, err := os.Pipe()
	if err != nil {
		t.Fatalf("creating pipe: %v", err)
	}
	savedStderr := os.Stderr
	os.Stderr = pipeWrite
	defer func() { os.Stderr = savedStderr }()

	logger := New(Config{Level: LevelDebug, Service: "cli", Quiet: true})
	logger.Info("should not appear", "k", "v")
	logger.Error("errors stay silent too")

	os.Stderr = savedStderr
	pipeWrite.Close()
	captured, err := io.ReadAll(pipeRead)
	if err != nil {
		t.Fatalf("reading captured stderr: %v", err)
	}
	if len(captured) != 0 {
		t.Errorf("quiet logger wrote to stderr: %s", captured)
	}
}

func TestCloseWithoutFileIsNoop(t *testing.T) {
	logger := New(Config{Quiet: true})
	if err := logger.Close(); err != nil {
		t.Errorf("Close() on file-less logger returned error: %v", err)
	}
}
