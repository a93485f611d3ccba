package logs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitialize_WritesToDebugLog(t *testing.T) {
	dir := t.TempDir()

	if err := Initialize(dir, "debug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Logger.Debugw("hello from test", "n", 1)
	if err := Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatalf("expected debug.log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Errorf("expected log line in debug.log, got %q", string(data))
	}
}

func TestInitialize_EmptyDirKeepsNop(t *testing.T) {
	if err := Initialize("", "info"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Must not panic.
	Logger.Infow("dropped")
}
