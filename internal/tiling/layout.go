package tiling

import (
	"math"

	"github.com/1broseidon/mditile/internal/desktop"
)

// CascadeOffset is the step between consecutive cascaded frames on both axes.
const CascadeOffset = 24

// TileGrid is the initial grid shape chosen for a tiling pass.
type TileGrid struct {
	Rows         int `json:"rows"`
	Columns      int `json:"columns"`
	ExtraColumns int `json:"extra_columns"`
}

// CalculateTileGrid derives the grid for n frames. The trailing ExtraColumns
// columns get one more row than the leading ones so every frame gets a cell.
func CalculateTileGrid(n int) TileGrid {
	if n <= 0 {
		return TileGrid{}
	}

	rows := int(math.Sqrt(float64(n)))
	return TileGrid{
		Rows:         rows,
		Columns:      n / rows,
		ExtraColumns: n % rows,
	}
}

// Cascade places every non-iconified frame on a diagonal staircase starting
// at the pane origin, wrapping an axis back to 0 when the packed frame would
// overflow it. Each placed frame is selected in turn, so the last one ends up
// active.
func Cascade(wm desktop.WindowManager) {
	frames := wm.Windows()
	if len(frames) == 0 {
		return
	}
	pane := wm.DesktopPane()

	x, y := 0, 0
	for _, frame := range frames {
		if frame.Iconified() {
			continue
		}

		frame.Pack()
		size := frame.Size()
		if x+size.Width > pane.Width() {
			x = 0
		}
		if y+size.Height > pane.Height() {
			y = 0
		}

		frame.SetPosition(desktop.Point{X: x, Y: y})
		wm.SetSelectedWindow(frame)

		x += CascadeOffset
		y += CascadeOffset
	}
}

// Tile fills the pane with a grid of equally sized cells, one per
// non-iconified frame, walking down each column before moving right.
// The grid is derived from the total frame count, iconified frames included.
// Once the leading full-height columns are used up, the remaining columns get
// an extra row each to absorb the remainder.
func Tile(wm desktop.WindowManager) {
	frames := wm.Windows()
	grid := CalculateTileGrid(len(frames))
	if grid.Rows == 0 {
		return
	}
	pane := wm.DesktopPane()
	if pane.Width() <= 0 || pane.Height() <= 0 {
		return
	}

	rows := grid.Rows
	cellWidth := pane.Width() / grid.Columns
	cellHeight := pane.Height() / rows

	col, row := 0, 0
	for _, frame := range frames {
		if frame.Iconified() {
			continue
		}
		if frame.Maximized() {
			frame.SetMaximized(false)
		}

		frame.SetPosition(desktop.Point{X: col * cellWidth, Y: row * cellHeight})
		frame.SetSize(desktop.Size{Width: cellWidth, Height: cellHeight})

		row++
		if row == rows {
			row = 0
			col++
			if col == grid.Columns-grid.ExtraColumns {
				rows++
				cellHeight = pane.Height() / rows
			}
		}
	}
}
