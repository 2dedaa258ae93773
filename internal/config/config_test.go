package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.CascadeHotkey == "" || cfg.TileHotkey == "" {
		t.Fatalf("expected default hotkeys, got %+v", cfg)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("# empty\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected log_level info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := strings.Join([]string{
		"cascade_hotkey: Mod4-c",
		"tile_hotkey: \"\"",
		"display: \":1\"",
		"include_sticky: true",
		"log_level: DEBUG",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CascadeHotkey != "Mod4-c" {
		t.Fatalf("expected cascade_hotkey override, got %q", cfg.CascadeHotkey)
	}
	if cfg.TileHotkey != "" {
		t.Fatalf("expected tile_hotkey disabled, got %q", cfg.TileHotkey)
	}
	if cfg.UndoHotkey != DefaultConfig().UndoHotkey {
		t.Fatalf("expected undo_hotkey default, got %q", cfg.UndoHotkey)
	}
	if cfg.Display != ":1" || !cfg.IncludeSticky || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gap_size: 8\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestLoadFromPath_ValidationErrorNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Path != "log_level" || verr.File != path {
		t.Fatalf("unexpected validation error: %+v", verr)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected file in message, got %q", err.Error())
	}
}

func TestValidate_Hotkeys(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"duplicate binding", func(c *Config) { c.TileHotkey = c.CascadeHotkey }, "tile_hotkey"},
		{"whitespace", func(c *Config) { c.UndoHotkey = "Mod4 u" }, "undo_hotkey"},
		{"all disabled", func(c *Config) { c.CascadeHotkey, c.TileHotkey, c.UndoHotkey = "", "", "" }, ""},
		{"switch clashes with undo", func(c *Config) { c.SwitchHotkey = c.UndoHotkey }, "switch_hotkey"},
		{"unknown palette", func(c *Config) { c.PaletteBackend = "kitty" }, "palette_backend"},
		{"explicit palette", func(c *Config) { c.PaletteBackend = "rofi" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}
