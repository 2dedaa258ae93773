// Package scenario loads YAML descriptions of a desktop into an in-memory
// window manager, so arrangements can be tried without a display server.
//
// A scenario looks like:
//
//	pane:
//	  width: 1280
//	  height: 800
//	frames:
//	  - title: editor
//	    x: 40
//	    y: 30
//	    width: 600
//	    height: 400
//	    preferred: {width: 640, height: 480}
//	  - title: logs
//	    iconified: true
package scenario

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/mditile/internal/desktop"
	"gopkg.in/yaml.v3"
)

// Pane is the container size.
type Pane struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Size is an optional natural size.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Frame describes one child window in its normal (non-maximized) bounds.
type Frame struct {
	Title     string `yaml:"title"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Preferred *Size  `yaml:"preferred,omitempty"`
	Iconified bool   `yaml:"iconified,omitempty"`
	Maximized bool   `yaml:"maximized,omitempty"`
}

// Scenario is a pane with frames in creation order.
type Scenario struct {
	Pane   Pane    `yaml:"pane"`
	Frames []Frame `yaml:"frames"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate rejects negative dimensions. A zero-sized pane is allowed.
func (s *Scenario) Validate() error {
	if s.Pane.Width < 0 || s.Pane.Height < 0 {
		return fmt.Errorf("pane: dimensions must be >= 0, got %dx%d", s.Pane.Width, s.Pane.Height)
	}
	for i, f := range s.Frames {
		if f.Width < 0 || f.Height < 0 {
			return fmt.Errorf("frames[%d]: size must be >= 0, got %dx%d", i, f.Width, f.Height)
		}
		if f.Preferred != nil && (f.Preferred.Width < 0 || f.Preferred.Height < 0) {
			return fmt.Errorf("frames[%d].preferred: size must be >= 0", i)
		}
	}
	return nil
}

// Desktop builds an in-memory window manager holding the scenario's frames.
// Untitled frames are named after their position in the list.
func (s *Scenario) Desktop() *desktop.Memory {
	m := desktop.NewMemory(s.Pane.Width, s.Pane.Height)
	for i, f := range s.Frames {
		spec := desktop.FrameSpec{
			Title:     f.Title,
			Position:  desktop.Point{X: f.X, Y: f.Y},
			Size:      desktop.Size{Width: f.Width, Height: f.Height},
			Iconified: f.Iconified,
			Maximized: f.Maximized,
		}
		if spec.Title == "" {
			spec.Title = fmt.Sprintf("frame-%d", i+1)
		}
		if f.Preferred != nil {
			spec.Preferred = desktop.Size{Width: f.Preferred.Width, Height: f.Preferred.Height}
		}
		m.AddFrame(spec)
	}
	return m
}

// preferredSizer is implemented by frames that know their natural size.
type preferredSizer interface {
	Preferred() desktop.Size
}

// Capture converts the current state of wm back into a scenario. Maximized
// frames keep their restore bounds when the window manager exposes them,
// and natural sizes are carried over so Pack behaves the same on reload.
func Capture(wm desktop.WindowManager) *Scenario {
	pane := wm.DesktopPane()
	sc := &Scenario{Pane: Pane{Width: pane.Width(), Height: pane.Height()}}
	for _, f := range wm.Windows() {
		pos, size := desktop.NormalBounds(f)
		frame := Frame{
			Title:     f.Title(),
			X:         pos.X,
			Y:         pos.Y,
			Width:     size.Width,
			Height:    size.Height,
			Iconified: f.Iconified(),
			Maximized: f.Maximized(),
		}
		if ps, ok := f.(preferredSizer); ok {
			if p := ps.Preferred(); p.Width != 0 || p.Height != 0 {
				frame.Preferred = &Size{Width: p.Width, Height: p.Height}
			}
		}
		sc.Frames = append(sc.Frames, frame)
	}
	return sc
}

// Marshal encodes the scenario as YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
