package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/mditile/internal/palette"
)

// Config is the effective mditile configuration.
type Config struct {
	// CascadeHotkey and TileHotkey are xgbutil key sequences, e.g. "Mod4-Mod1-c".
	// An empty value disables the binding.
	CascadeHotkey string `yaml:"cascade_hotkey"`
	TileHotkey    string `yaml:"tile_hotkey"`
	UndoHotkey    string `yaml:"undo_hotkey"`

	// SwitchHotkey opens the window switcher palette. Disabled by default.
	SwitchHotkey string `yaml:"switch_hotkey"`

	// PaletteBackend is auto, rofi, fuzzel, wofi or dmenu.
	PaletteBackend string `yaml:"palette_backend"`

	// Display overrides $DISPLAY for the daemon.
	Display string `yaml:"display,omitempty"`

	// IncludeSticky also arranges windows shown on all virtual desktops.
	IncludeSticky bool `yaml:"include_sticky"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// RawConfig mirrors Config with optional fields so a file only overrides the
// keys it sets.
type RawConfig struct {
	CascadeHotkey  *string `yaml:"cascade_hotkey"`
	TileHotkey     *string `yaml:"tile_hotkey"`
	UndoHotkey     *string `yaml:"undo_hotkey"`
	SwitchHotkey   *string `yaml:"switch_hotkey"`
	PaletteBackend *string `yaml:"palette_backend"`
	Display        *string `yaml:"display"`
	IncludeSticky  *bool   `yaml:"include_sticky"`
	LogLevel       *string `yaml:"log_level"`
}

// ValidationError points at the config key that failed validation.
type ValidationError struct {
	Path string
	File string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %v", e.File, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		CascadeHotkey:  "Mod4-Mod1-c",
		TileHotkey:     "Mod4-Mod1-t",
		UndoHotkey:     "Mod4-Mod1-u",
		PaletteBackend: "auto",
		LogLevel:       "info",
	}
}

// BuildEffectiveConfig applies raw overrides on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()
	if raw.CascadeHotkey != nil {
		cfg.CascadeHotkey = strings.TrimSpace(*raw.CascadeHotkey)
	}
	if raw.TileHotkey != nil {
		cfg.TileHotkey = strings.TrimSpace(*raw.TileHotkey)
	}
	if raw.UndoHotkey != nil {
		cfg.UndoHotkey = strings.TrimSpace(*raw.UndoHotkey)
	}
	if raw.SwitchHotkey != nil {
		cfg.SwitchHotkey = strings.TrimSpace(*raw.SwitchHotkey)
	}
	if raw.PaletteBackend != nil {
		cfg.PaletteBackend = strings.ToLower(strings.TrimSpace(*raw.PaletteBackend))
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.IncludeSticky != nil {
		cfg.IncludeSticky = *raw.IncludeSticky
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	return cfg
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	if !palette.ValidName(c.PaletteBackend) {
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, %s", strings.Join(palette.Names, ", "))}
	}

	hotkeys := map[string]string{
		"cascade_hotkey": c.CascadeHotkey,
		"tile_hotkey":    c.TileHotkey,
		"undo_hotkey":    c.UndoHotkey,
		"switch_hotkey":  c.SwitchHotkey,
	}
	seen := make(map[string]string, len(hotkeys))
	for _, key := range []string{"cascade_hotkey", "tile_hotkey", "undo_hotkey", "switch_hotkey"} {
		seq := hotkeys[key]
		if seq == "" {
			continue
		}
		if strings.ContainsAny(seq, " \t") {
			return &ValidationError{Path: key, Err: fmt.Errorf("hotkey %q must not contain whitespace", seq)}
		}
		if other, ok := seen[seq]; ok {
			return &ValidationError{Path: key, Err: fmt.Errorf("hotkey %q is already bound to %s", seq, other)}
		}
		seen[seq] = key
	}
	return nil
}
