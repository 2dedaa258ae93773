package platform

import (
	"testing"

	"github.com/1broseidon/mditile/internal/desktop"
)

func TestPaneCoordinatesRoundTrip(t *testing.T) {
	pane := Rect{X: 1920, Y: 32, Width: 1920, Height: 1048}
	window := Rect{X: 1944, Y: 56, Width: 800, Height: 600}

	p := toPane(window, pane)
	if p != (desktop.Point{X: 24, Y: 24}) {
		t.Fatalf("expected pane position 24,24, got %+v", p)
	}

	x, y := fromPane(p, pane)
	if x != window.X || y != window.Y {
		t.Fatalf("expected screen position %d,%d, got %d,%d", window.X, window.Y, x, y)
	}
}

func TestRectContainsCenter(t *testing.T) {
	pane := Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

	tests := []struct {
		name string
		win  Rect
		want bool
	}{
		{"inside", Rect{X: 100, Y: 100, Width: 400, Height: 300}, true},
		{"mostly on next monitor", Rect{X: 1800, Y: 0, Width: 800, Height: 600}, false},
		{"straddling with centre inside", Rect{X: 1500, Y: 900, Width: 400, Height: 300}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cx, cy := tt.win.Center()
			if got := pane.Contains(cx, cy); got != tt.want {
				t.Fatalf("Contains(%d,%d) = %v, want %v", cx, cy, got, tt.want)
			}
		})
	}
}

func TestOnDesktop(t *testing.T) {
	tests := []struct {
		idx, current int
		sticky       bool
		want         bool
	}{
		{0, 0, false, true},
		{1, 0, false, false},
		{-1, 0, false, false},
		{-1, 0, true, true},
	}
	for _, tt := range tests {
		if got := onDesktop(tt.idx, tt.current, tt.sticky); got != tt.want {
			t.Errorf("onDesktop(%d, %d, %v) = %v, want %v", tt.idx, tt.current, tt.sticky, got, tt.want)
		}
	}
}
