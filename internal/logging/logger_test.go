package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"reel/internal/logging"
)

func TestNewConsoleFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	child := logging.NewComponentLogger(logger, "batch")
	child.Info("encode complete", logging.String("input", "movie.mkv"), logging.Int("pass", 2))

	line := buf.String()
	if !strings.Contains(line, "[batch]") {
		t.Fatalf("expected component prefix in %q", line)
	}
	if !strings.Contains(line, "encode complete") {
		t.Fatalf("expected message in %q", line)
	}
	if !strings.Contains(line, "input=movie.mkv") || !strings.Contains(line, "pass=2") {
		t.Fatalf("expected attrs in %q", line)
	}
}

func TestNewConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("hidden")
	logger.Warn("visible", logging.Error(errors.New("boom")))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record should be suppressed, got %q", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "boom") {
		t.Fatalf("warn record missing from %q", out)
	}
}

func TestNewJSONEmitsParsableRecords(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("queued", logging.String("input", "a.mp4"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("json output not parsable: %v (%q)", err, buf.String())
	}
	if record["msg"] != "queued" || record["input"] != "a.mp4" {
		t.Fatalf("unexpected record: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
