package desktop

// Selector is implemented by window managers that can report the active frame.
type Selector interface {
	SelectedWindow() Frame
}

// FrameInfo is a point-in-time copy of a frame's state.
type FrameInfo struct {
	ID        uint32 `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	X         int    `json:"x" yaml:"x"`
	Y         int    `json:"y" yaml:"y"`
	Width     int    `json:"width" yaml:"width"`
	Height    int    `json:"height" yaml:"height"`
	Iconified bool   `json:"iconified" yaml:"iconified"`
	Maximized bool   `json:"maximized" yaml:"maximized"`
	Selected  bool   `json:"selected" yaml:"selected"`
}

// Snapshot copies the state of every frame in window manager order.
func Snapshot(wm WindowManager) []FrameInfo {
	var selectedID uint32
	hasSelected := false
	if sel, ok := wm.(Selector); ok {
		if f := sel.SelectedWindow(); f != nil {
			selectedID = f.ID()
			hasSelected = true
		}
	}

	frames := wm.Windows()
	infos := make([]FrameInfo, 0, len(frames))
	for _, f := range frames {
		pos := f.Position()
		size := f.Size()
		infos = append(infos, FrameInfo{
			ID:        f.ID(),
			Title:     f.Title(),
			X:         pos.X,
			Y:         pos.Y,
			Width:     size.Width,
			Height:    size.Height,
			Iconified: f.Iconified(),
			Maximized: f.Maximized(),
			Selected:  hasSelected && f.ID() == selectedID,
		})
	}
	return infos
}
