package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateRemove = 0
	stateAdd    = 1

	stateHidden     = "_NET_WM_STATE_HIDDEN"
	stateMaxHorz    = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaxVert    = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateFullscreen = "_NET_WM_STATE_FULLSCREEN"
)

// Geometry is a window rectangle in root coordinates.
type Geometry struct {
	X      int
	Y      int
	Width  int
	Height int
}

// WindowState is the subset of _NET_WM_STATE the arranger cares about.
type WindowState struct {
	Hidden     bool
	Maximized  bool
	Fullscreen bool
}

// ClientWindows returns managed client windows in mapping order.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	return clients, nil
}

// IsNormalWindow reports whether win is an ordinary application window
// rather than a dock, desktop, splash or notification.
func (c *Connection) IsNormalWindow(win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, win)
	if err != nil || len(types) == 0 {
		return true
	}
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		}
	}
	return false
}

// State reads the window's EWMH state. Both maximized atoms must be present
// for the window to count as maximized.
func (c *Connection) State(win xproto.Window) WindowState {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return WindowState{}
	}

	var st WindowState
	var horz, vert bool
	for _, s := range states {
		switch s {
		case stateHidden:
			st.Hidden = true
		case stateMaxHorz:
			horz = true
		case stateMaxVert:
			vert = true
		case stateFullscreen:
			st.Fullscreen = true
		}
	}
	st.Maximized = horz && vert
	return st
}

// SetMaximized adds or removes both maximized states.
func (c *Connection) SetMaximized(win xproto.Window, maximized bool) error {
	action := stateRemove
	if maximized {
		action = stateAdd
	}
	for _, atom := range []string{stateMaxHorz, stateMaxVert} {
		if err := ewmh.WmStateReq(c.XUtil, win, action, atom); err != nil {
			return fmt.Errorf("failed to update %s on window %d: %w", atom, win, err)
		}
	}
	return nil
}

// WindowGeometry returns the window rectangle in root coordinates.
func (c *Connection) WindowGeometry(win xproto.Window) (Geometry, error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to get geometry of window %d: %w", win, err)
	}

	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return Geometry{}, fmt.Errorf("failed to translate coordinates of window %d: %w", win, err)
	}

	return Geometry{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, nil
}

// PreferredSize returns the natural size advertised in WM_NORMAL_HINTS,
// preferring the program-specified size, then the base size, then the
// minimum size. ok is false when the client advertises none of them.
func (c *Connection) PreferredSize(win xproto.Window) (width, height int, ok bool) {
	hints, err := icccm.WmNormalHintsGet(c.XUtil, win)
	if err != nil {
		return 0, 0, false
	}

	switch {
	case hints.Flags&icccm.SizeHintPSize != 0 && hints.Width > 0 && hints.Height > 0:
		return int(hints.Width), int(hints.Height), true
	case hints.Flags&icccm.SizeHintPBaseSize != 0 && hints.BaseWidth > 0 && hints.BaseHeight > 0:
		return int(hints.BaseWidth), int(hints.BaseHeight), true
	case hints.Flags&icccm.SizeHintPMinSize != 0 && hints.MinWidth > 0 && hints.MinHeight > 0:
		return int(hints.MinWidth), int(hints.MinHeight), true
	}
	return 0, 0, false
}

// MoveResizeWindow places win at the given root coordinates and size.
func (c *Connection) MoveResizeWindow(win xproto.Window, g Geometry) error {
	if g.Width < 1 || g.Height < 1 {
		return fmt.Errorf("invalid size %dx%d for window %d", g.Width, g.Height, win)
	}

	// EWMH requests respect window manager decorations; fall back to a raw
	// configure when the window manager rejects them.
	if err := ewmh.MoveresizeWindow(c.XUtil, win, g.X, g.Y, g.Width, g.Height); err != nil {
		xwindow.New(c.XUtil, win).MoveResize(g.X, g.Y, g.Width, g.Height)
	}
	return nil
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(win xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, win); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, win); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}
