package desktop

// Point is a frame position relative to the top-left corner of the pane.
type Point struct {
	X int
	Y int
}

// Size is a frame or pane size in pane units.
type Size struct {
	Width  int
	Height int
}

// Frame is a single child window that can be arranged inside a pane.
type Frame interface {
	ID() uint32
	Title() string

	Iconified() bool
	SetIconified(iconified bool)
	Maximized() bool
	SetMaximized(maximized bool)

	// Pack resizes the frame to its natural preferred size.
	Pack()

	Size() Size
	SetSize(size Size)
	Position() Point
	SetPosition(pos Point)
}

// Raiser is implemented by frames that can be moved to the top of the
// stacking order.
type Raiser interface {
	ToFront()
}

// NormalBounder is implemented by frames that remember their bounds while
// maximized.
type NormalBounder interface {
	NormalBounds() (Point, Size)
}

// NormalBounds returns the bounds f has when not maximized, falling back to
// its current bounds.
func NormalBounds(f Frame) (Point, Size) {
	if nb, ok := f.(NormalBounder); ok {
		return nb.NormalBounds()
	}
	return f.Position(), f.Size()
}

// Pane is the fixed container frames are arranged within.
type Pane interface {
	Width() int
	Height() int
}

// WindowManager owns the frames of one desktop session.
//
// Windows must return the same frames in the same order for the duration of
// a single layout pass.
type WindowManager interface {
	Windows() []Frame
	DesktopPane() Pane
	SetSelectedWindow(frame Frame)
}

// FindFrame returns the frame with the given ID, or nil.
func FindFrame(wm WindowManager, id uint32) Frame {
	for _, f := range wm.Windows() {
		if f.ID() == id {
			return f
		}
	}
	return nil
}
