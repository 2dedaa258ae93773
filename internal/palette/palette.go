// Package palette shows a dmenu-style chooser (rofi, fuzzel, wofi or dmenu)
// and returns the picked item.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single entry in a palette.
type Item struct {
	Label    string // Display text
	Action   string // Returned on selection
	Meta     string // Extra search keywords, where supported
	IsHeader bool   // Section header; not selectable, hidden where unsupported
	IsActive bool   // Row the palette opens on
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
}

// Names lists the supported backends in detection order.
var Names = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// DetectBackend returns the first backend found in PATH.
func DetectBackend() (string, error) {
	for _, name := range Names {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(Names, ", "))
}

// NewBackend creates a backend by name. "" and "auto" pick the first one
// installed.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	p, ok := pickers[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(Names, ", "))
	}
	if _, err := exec.LookPath(p.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", name)
	}
	return p, nil
}

// ValidName reports whether name is accepted by NewBackend.
func ValidName(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		return true
	}
	_, ok := pickers[name]
	return ok
}
