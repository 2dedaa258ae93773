package platform

import "github.com/1broseidon/mditile/internal/desktop"

// Backend opens window-system sessions. Each session is a consistent view
// of the frames on the active display for one arrangement pass.
type Backend interface {
	Session() (desktop.WindowManager, error)
	Disconnect()
}

// Options controls which windows a backend exposes as frames.
type Options struct {
	// Display overrides $DISPLAY when non-empty.
	Display string
	// IncludeSticky also arranges windows shown on every virtual desktop.
	IncludeSticky bool
}

// Rect is a rectangle in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// toPane converts a screen rectangle's origin to pane coordinates.
func toPane(r, pane Rect) desktop.Point {
	return desktop.Point{X: r.X - pane.X, Y: r.Y - pane.Y}
}

// fromPane converts a pane position to screen coordinates.
func fromPane(p desktop.Point, pane Rect) (int, int) {
	return pane.X + p.X, pane.Y + p.Y
}

// onDesktop reports whether a window on virtual desktop idx (-1 for sticky)
// belongs to the current desktop's session.
func onDesktop(idx, current int, includeSticky bool) bool {
	if idx < 0 {
		return includeSticky
	}
	return idx == current
}
