package desktop

// RaiseToFront deiconifies frame if needed, selects it and raises it above
// its siblings.
func RaiseToFront(frame Frame, wm WindowManager) {
	if frame == nil {
		return
	}
	if frame.Iconified() {
		frame.SetIconified(false)
	}
	wm.SetSelectedWindow(frame)
	if r, ok := frame.(Raiser); ok {
		r.ToFront()
	}
}
