//go:build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/charmbracelet/log"
)

// LinuxBackend exposes the client windows of an X11 display as frames. The
// pane is the work area of the active monitor.
type LinuxBackend struct {
	conn   *x11.Connection
	mu     sync.Mutex
	opts   Options
	logger *log.Logger
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend wraps an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, opts Options, logger *log.Logger) *LinuxBackend {
	if logger == nil {
		logger = log.Default()
	}
	return &LinuxBackend{conn: conn, opts: opts, logger: logger}
}

// NewLinuxBackendFromDisplay opens a new X11 connection.
func NewLinuxBackendFromDisplay(opts Options, logger *log.Logger) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn, opts, logger), nil
}

// Disconnect closes the X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop runs the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for hotkey registration.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// SetIncludeSticky changes whether windows on all desktops are arranged.
// It applies from the next session.
func (b *LinuxBackend) SetIncludeSticky(include bool) {
	b.mu.Lock()
	b.opts.IncludeSticky = include
	b.mu.Unlock()
}

// RootWindow returns the X11 root window.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Session snapshots the frames on the current virtual desktop whose centre
// lies on the active monitor, in client-list (mapping) order.
func (b *LinuxBackend) Session() (desktop.WindowManager, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	conn := b.conn

	mon, err := conn.ActiveMonitor()
	if err != nil {
		return nil, err
	}
	pane := Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}

	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	current, desktopErr := conn.CurrentDesktop()
	b.mu.Lock()
	includeSticky := b.opts.IncludeSticky
	b.mu.Unlock()

	s := &x11Session{
		conn:   conn,
		pane:   pane,
		logger: b.logger,
	}
	for _, win := range clients {
		if !conn.IsNormalWindow(win) {
			continue
		}
		if desktopErr == nil {
			if idx, err := conn.WindowDesktop(win); err == nil && !onDesktop(idx, current, includeSticky) {
				continue
			}
		}

		state := conn.State(win)
		if state.Fullscreen {
			continue
		}

		g, err := conn.WindowGeometry(win)
		if err != nil {
			b.logger.Debug("Skipping window without geometry", "win", win, "err", err)
			continue
		}
		rect := Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
		if cx, cy := rect.Center(); !pane.Contains(cx, cy) {
			continue
		}

		s.frames = append(s.frames, &x11Frame{
			session: s,
			win:     win,
			title:   conn.WindowTitle(win),
			rect:    rect,
			state:   state,
		})
	}

	b.logger.Debug("Opened X11 session",
		"monitor", mon.Name,
		"pane", fmt.Sprintf("%dx%d+%d+%d", pane.Width, pane.Height, pane.X, pane.Y),
		"frames", len(s.frames))
	return s, nil
}

// x11Session is the window manager view of one pass. Frame state is read
// once and then tracked locally, since the window manager applies requests
// asynchronously.
type x11Session struct {
	conn   *x11.Connection
	pane   Rect
	frames []desktop.Frame
	logger *log.Logger
}

var (
	_ desktop.WindowManager = (*x11Session)(nil)
	_ desktop.Selector      = (*x11Session)(nil)
)

func (s *x11Session) Windows() []desktop.Frame {
	return s.frames
}

func (s *x11Session) DesktopPane() desktop.Pane {
	return desktop.StaticPane{W: s.pane.Width, H: s.pane.Height}
}

func (s *x11Session) SetSelectedWindow(frame desktop.Frame) {
	f, ok := frame.(*x11Frame)
	if !ok {
		return
	}
	if err := s.conn.ActivateWindow(f.win); err != nil {
		s.logger.Warn("Failed to select window", "win", f.win, "err", err)
	}
}

func (s *x11Session) SelectedWindow() desktop.Frame {
	win, err := s.conn.ActiveWindow()
	if err != nil || win == 0 {
		return nil
	}
	for _, f := range s.frames {
		if f.ID() == uint32(win) {
			return f
		}
	}
	return nil
}

type x11Frame struct {
	session *x11Session
	win     xproto.Window
	title   string
	rect    Rect
	state   x11.WindowState
}

var (
	_ desktop.Frame  = (*x11Frame)(nil)
	_ desktop.Raiser = (*x11Frame)(nil)
)

func (f *x11Frame) ID() uint32      { return uint32(f.win) }
func (f *x11Frame) Title() string   { return f.title }
func (f *x11Frame) Iconified() bool { return f.state.Hidden }
func (f *x11Frame) Maximized() bool { return f.state.Maximized }

func (f *x11Frame) SetIconified(iconified bool) {
	var err error
	if iconified {
		err = f.session.conn.IconifyWindow(f.win)
	} else {
		err = f.session.conn.ActivateWindow(f.win)
	}
	if err != nil {
		f.session.logger.Warn("Failed to change iconified state", "win", f.win, "iconified", iconified, "err", err)
		return
	}
	f.state.Hidden = iconified
}

func (f *x11Frame) SetMaximized(maximized bool) {
	if err := f.session.conn.SetMaximized(f.win, maximized); err != nil {
		f.session.logger.Warn("Failed to change maximized state", "win", f.win, "maximized", maximized, "err", err)
		return
	}
	f.state.Maximized = maximized
}

func (f *x11Frame) Pack() {
	w, h, ok := f.session.conn.PreferredSize(f.win)
	if !ok {
		return
	}
	f.rect.Width = w
	f.rect.Height = h
	f.apply()
}

func (f *x11Frame) Size() desktop.Size {
	return desktop.Size{Width: f.rect.Width, Height: f.rect.Height}
}

func (f *x11Frame) SetSize(size desktop.Size) {
	f.rect.Width = max(size.Width, 0)
	f.rect.Height = max(size.Height, 0)
	f.apply()
}

func (f *x11Frame) Position() desktop.Point {
	return toPane(f.rect, f.session.pane)
}

func (f *x11Frame) SetPosition(pos desktop.Point) {
	f.rect.X, f.rect.Y = fromPane(pos, f.session.pane)
	f.apply()
}

func (f *x11Frame) ToFront() {
	if err := f.session.conn.RaiseWindow(f.win); err != nil {
		f.session.logger.Warn("Failed to raise window", "win", f.win, "err", err)
	}
}

func (f *x11Frame) apply() {
	g := x11.Geometry{X: f.rect.X, Y: f.rect.Y, Width: f.rect.Width, Height: f.rect.Height}
	if err := f.session.conn.MoveResizeWindow(f.win, g); err != nil {
		f.session.logger.Warn("Failed to move window", "win", f.win, "err", err)
	}
}
