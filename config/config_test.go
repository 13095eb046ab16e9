package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if len(cfg.Patch.Rules) != 1 {
		t.Fatalf("expected 1 default rule, got %d", len(cfg.Patch.Rules))
	}
	if cfg.Patch.Rules[0].From != "ChipInfo.type." || cfg.Patch.Rules[0].To != "ChipInfo.Type." {
		t.Errorf("unexpected default rule %+v", cfg.Patch.Rules[0])
	}
	if cfg.Patch.Encoding != "utf-8" {
		t.Errorf("expected Encoding=utf-8, got %s", cfg.Patch.Encoding)
	}
	if cfg.History.Enabled {
		t.Error("expected history disabled by default")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/textpatch.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "textpatch.yaml")

	content := `
patch:
  files:
    - a.java
    - b.java
  rules:
    - from: foo
      to: bar
history:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Patch.Files) != 2 || cfg.Patch.Files[1] != "b.java" {
		t.Errorf("unexpected files %v", cfg.Patch.Files)
	}
	if len(cfg.Patch.Rules) != 1 || cfg.Patch.Rules[0].From != "foo" {
		t.Errorf("expected rules to be replaced, got %+v", cfg.Patch.Rules)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled")
	}
	if cfg.Patch.Encoding != "utf-8" {
		t.Errorf("expected default encoding to survive, got %s", cfg.Patch.Encoding)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "textpatch.yaml")
	if err := os.WriteFile(configPath, []byte("patch: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("TEXTPATCH_LOG_LEVEL", "debug")
	t.Setenv("TEXTPATCH_ENCODING", "windows-1252")
	t.Setenv("TEXTPATCH_HISTORY", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected Level=debug, got %s", cfg.Logging.Level)
	}
	if cfg.Patch.Encoding != "windows-1252" {
		t.Errorf("expected Encoding=windows-1252, got %s", cfg.Patch.Encoding)
	}
	if !cfg.History.Enabled {
		t.Error("expected history enabled by env")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, ".textpatch"), 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".textpatch", "config.yaml")

	content := `
logging:
  level: error
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logging.Level != "error" {
		t.Errorf("expected Level=error, got %s", cfg.Logging.Level)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textpatch.yaml")
	cfg := DefaultConfig()
	cfg.Patch.Files = []string{"x.txt"}

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Patch.Files) != 1 || loaded.Patch.Files[0] != "x.txt" {
		t.Errorf("expected files [x.txt], got %v", loaded.Patch.Files)
	}
}

func TestHistoryDBPath(t *testing.T) {
	path := HistoryDBPath("/home/user/project")
	expected := filepath.Join("/home/user/project", ".textpatch", "history.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
