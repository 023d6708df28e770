package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPrintfAppendsToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := New(dir, "server.log")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Printf("first\n")
	logger.Printf("second %d", 2)
	if err := logger.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "server.log"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}
	if !strings.HasSuffix(lines[1], "] second 2") {
		t.Fatalf("unexpected line %q", lines[1])
	}
}

func TestWriterLoggerAndNil(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).Printf("hello")
	if !strings.Contains(buf.String(), "] hello\n") {
		t.Fatalf("unexpected output %q", buf.String())
	}
	var nilLogger *Logger
	nilLogger.Printf("ignored")
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
