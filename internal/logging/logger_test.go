package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Environment: "production", Level: "warn", Output: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("unexpected level: got %v want %v", logger.GetLevel(), zerolog.WarnLevel)
	}

	logger.Info().Msg("dropped")
	logger.Warn().Str("provider", "google").Msg("kept")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "polyglot" || entry["provider"] != "google" || entry["message"] != "kept" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestNew_ConsoleFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, err := New(Options{Environment: "local", Level: "info", Output: &buf})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info().Msg("hello")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "hello") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{Environment: "local", Level: "loud"}); err == nil {
		t.Fatalf("expected invalid level to fail")
	}
	if _, err := New(Options{Level: "info", Format: "xml"}); err == nil {
		t.Fatalf("expected invalid format to fail")
	}
}
