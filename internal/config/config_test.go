package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points HOME at a temp dir so no real config file is read.
func isolate(t *testing.T) string {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"STICKIES_DATA_DIR", "STICKIES_BACKEND", "STICKIES_THEME", "STICKIES_STORAGE_KEY"} {
		t.Setenv(k, "")
	}
	return home
}

func TestLoad_Default(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DataDir != filepath.Join(home, ".local", "share", "stickies") {
		t.Errorf("unexpected default data dir %q", cfg.DataDir)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("expected default backend 'file', got %q", cfg.Backend)
	}
	if cfg.StorageKey != "Notes" {
		t.Errorf("expected storage key 'Notes', got %q", cfg.StorageKey)
	}
	if cfg.Theme != ThemeLight {
		t.Errorf("expected light theme, got %q", cfg.Theme)
	}
	if cfg.DateLayout != "1/2/2006" {
		t.Errorf("expected date layout 1/2/2006, got %q", cfg.DateLayout)
	}
}

func TestLoad_EnvVar(t *testing.T) {
	isolate(t)
	t.Setenv("STICKIES_BACKEND", "sqlite")
	t.Setenv("STICKIES_THEME", "dark")

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend != BackendSQLite {
		t.Errorf("expected sqlite backend, got %q", cfg.Backend)
	}
	if cfg.Theme != ThemeDark {
		t.Errorf("expected dark theme, got %q", cfg.Theme)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.yaml")
	os.WriteFile(path, []byte("backend: memory\nstorage_key: Board\n"), 0644)

	cfg, err := Load(CLIFlags{ConfigPath: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.Backend)
	}
	if cfg.StorageKey != "Board" {
		t.Errorf("expected storage key 'Board', got %q", cfg.StorageKey)
	}
}

func TestLoad_CLIFlags(t *testing.T) {
	isolate(t)
	t.Setenv("STICKIES_BACKEND", "sqlite")

	cfg, err := Load(CLIFlags{Backend: "memory", DataDir: "/tmp/cli-notes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// CLI flags should override env vars
	if cfg.Backend != BackendMemory {
		t.Errorf("expected memory backend, got %q", cfg.Backend)
	}
	if cfg.DataDir != "/tmp/cli-notes" {
		t.Errorf("expected /tmp/cli-notes, got %q", cfg.DataDir)
	}
}

func TestLoad_PathExpansion(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(CLIFlags{DataDir: "~/notes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := filepath.Join(home, "notes")
	if cfg.DataDir != expected {
		t.Errorf("expected %q, got %q", expected, cfg.DataDir)
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	isolate(t)

	if _, err := Load(CLIFlags{Backend: "redis"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestEnsureConfigFile(t *testing.T) {
	home := isolate(t)

	if err := EnsureConfigFile(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	path := filepath.Join(home, ".config", "stickies", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s", path)
	}

	cfg, err := Load(CLIFlags{})
	if err != nil {
		t.Fatalf("written config should load: %v", err)
	}
	if cfg.Backend != BackendFile {
		t.Errorf("expected file backend from written config, got %q", cfg.Backend)
	}
}
