package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	dir := filepath.Join(tmp, "mpr")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	data := []byte("" +
		"player = \"audacious\"\n" +
		"\n" +
		"[aliases]\n" +
		"aud = \"audacious\"\n")
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Player != "audacious" {
		t.Fatalf("expected player default, got %q", cfg.Player)
	}
	if cfg.Aliases["aud"] != "audacious" {
		t.Fatalf("expected alias, got %v", cfg.Aliases)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("missing config must not error: %v", err)
	}
	if cfg.Player != "" {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}
