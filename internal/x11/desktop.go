package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// stickyDesktop is the _NET_WM_DESKTOP value of windows shown on every desktop.
const stickyDesktop = 0xFFFFFFFF

// sourcePager marks client messages as coming from a pager or tool rather
// than an application, which window managers honour without focus stealing
// checks.
const sourcePager = 2

// CurrentDesktop returns the index of the visible virtual desktop.
func (c *Connection) CurrentDesktop() (int, error) {
	desktop, err := ewmh.CurrentDesktopGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get current desktop: %w", err)
	}
	return int(desktop), nil
}

// WindowDesktop returns the desktop a window lives on, or -1 for windows
// shown on all desktops.
func (c *Connection) WindowDesktop(win xproto.Window) (int, error) {
	desktop, err := ewmh.WmDesktopGet(c.XUtil, win)
	if err != nil {
		return 0, fmt.Errorf("failed to get window desktop: %w", err)
	}
	if desktop == stickyDesktop {
		return -1, nil
	}
	return int(desktop), nil
}

// ActivateWindow asks the window manager to focus win, mapping it first if
// it is iconic. The message is built by hand because the ewmh request
// helpers panic on this xgbutil version.
func (c *Connection) ActivateWindow(win xproto.Window) error {
	if err := c.sendRootMessage(win, "_NET_ACTIVE_WINDOW", []uint32{sourcePager}); err != nil {
		return fmt.Errorf("failed to activate window %d: %w", win, err)
	}
	return nil
}

// RaiseWindow puts win on top of its siblings.
func (c *Connection) RaiseWindow(win xproto.Window) error {
	err := xproto.ConfigureWindowChecked(
		c.XUtil.Conn(),
		win,
		xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove},
	).Check()
	if err != nil {
		return fmt.Errorf("failed to raise window %d: %w", win, err)
	}
	return nil
}

// IconifyWindow asks the window manager to minimize win via WM_CHANGE_STATE.
func (c *Connection) IconifyWindow(win xproto.Window) error {
	const iconicState = 3
	if err := c.sendRootMessage(win, "WM_CHANGE_STATE", []uint32{iconicState}); err != nil {
		return fmt.Errorf("failed to iconify window %d: %w", win, err)
	}
	return nil
}

// ActiveWindow returns the focused window, or 0 when none is focused.
func (c *Connection) ActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to get active window: %w", err)
	}
	return win, nil
}
