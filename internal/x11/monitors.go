package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor is a physical output area in root coordinates.
type Monitor struct {
	ID   int
	Name string
	Geometry
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// Monitors lists the enabled RandR outputs.
func (c *Connection) Monitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Geometry: Geometry{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}
	return monitors, nil
}

// ActiveMonitor returns the monitor holding the focused window, or the one
// under the pointer, clipped to the EWMH work area so panels and docks are
// excluded.
func (c *Connection) ActiveMonitor() (Monitor, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	active := -1
	if win, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && win != 0 {
		if g, err := c.WindowGeometry(win); err == nil {
			active = monitorAt(monitors, g.X+g.Width/2, g.Y+g.Height/2)
		}
	}
	if active < 0 {
		if ptr, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
			active = monitorAt(monitors, int(ptr.RootX), int(ptr.RootY))
		}
	}
	if active < 0 {
		active = 0
	}

	mon := monitors[active]
	if area, ok := c.workArea(); ok {
		mon.Geometry = clip(mon.Geometry, area)
	}
	return mon, nil
}

func (c *Connection) workArea() (Geometry, bool) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return Geometry{}, false
	}

	idx := 0
	if cur, err := c.CurrentDesktop(); err == nil && cur >= 0 && cur < len(areas) {
		idx = cur
	}
	wa := areas[idx]
	return Geometry{X: int(wa.X), Y: int(wa.Y), Width: int(wa.Width), Height: int(wa.Height)}, true
}

func monitorAt(monitors []Monitor, x, y int) int {
	for i := range monitors {
		if monitors[i].contains(x, y) {
			return i
		}
	}
	return -1
}

// clip intersects g with area, returning g unchanged when they do not overlap.
func clip(g, area Geometry) Geometry {
	x1 := max(g.X, area.X)
	y1 := max(g.Y, area.Y)
	x2 := min(g.X+g.Width, area.X+area.Width)
	y2 := min(g.Y+g.Height, area.Y+area.Height)
	if x2 <= x1 || y2 <= y1 {
		return g
	}
	return Geometry{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
