// Package preview draws a desktop pane and its frames as text, for the
// simulate and frames commands.
package preview

import (
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const (
	defaultWidth = 80
	minWidth     = 20
	maxWidth     = 160
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	numberStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TerminalWidth returns the width of stdout, or a fallback when stdout is not
// a terminal.
func TerminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultWidth
	}
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

// CanvasSize picks a canvas that fits width columns and keeps the pane's
// aspect ratio, assuming terminal cells are about twice as tall as wide.
func CanvasSize(pane desktop.Size, width int) (int, int) {
	if width > maxWidth {
		width = maxWidth
	}
	if width < minWidth {
		width = minWidth
	}
	if pane.Width <= 0 || pane.Height <= 0 {
		return width, 3
	}
	height := width * pane.Height / pane.Width / 2
	if height < 5 {
		height = 5
	}
	if height > width {
		height = width
	}
	return width, height
}

// Canvas renders frames onto a width x height character grid. Later frames
// are drawn over earlier ones; iconified frames are not drawn.
func Canvas(frames []desktop.FrameInfo, pane desktop.Size, width, height int) []string {
	if width < 5 || height < 3 {
		return emptyCanvas(width, height)
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	if pane.Width > 0 && pane.Height > 0 {
		for i, f := range frames {
			if f.Iconified {
				continue
			}
			drawFrame(canvas, f, i+1, pane, width, height)
		}
	}
	drawBorder(canvas, width, height)

	lines := make([]string, height)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

// Legend lists each frame with its number on the canvas and its bounds.
func Legend(frames []desktop.FrameInfo) []string {
	if len(frames) == 0 {
		return []string{dimStyle.Render("no frames")}
	}
	lines := make([]string, 0, len(frames))
	for i, f := range frames {
		line := fmt.Sprintf("%s %s  %d,%d %dx%d",
			numberStyle.Render(fmt.Sprintf("%2d", i+1)),
			titleStyle.Render(f.Title),
			f.X, f.Y, f.Width, f.Height)
		var flags []string
		if f.Iconified {
			flags = append(flags, "iconified")
		}
		if f.Maximized {
			flags = append(flags, "maximized")
		}
		if len(flags) > 0 {
			line += " " + dimStyle.Render("("+strings.Join(flags, ", ")+")")
		}
		if f.Selected {
			line += " " + selectedStyle.Render("selected")
		}
		lines = append(lines, line)
	}
	return lines
}

// Render returns the canvas followed by the legend, sized for width columns.
func Render(frames []desktop.FrameInfo, pane desktop.Size, width int) string {
	w, h := CanvasSize(pane, width)
	header := dimStyle.Render(fmt.Sprintf("pane %dx%d", pane.Width, pane.Height))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		strings.Join(Canvas(frames, pane, w, h), "\n"),
		strings.Join(Legend(frames), "\n"),
	)
}

func drawFrame(canvas [][]rune, f desktop.FrameInfo, num int, pane desktop.Size, canvasW, canvasH int) {
	innerW, innerH := canvasW-2, canvasH-2
	x1 := 1 + f.X*innerW/pane.Width
	y1 := 1 + f.Y*innerH/pane.Height
	x2 := 1 + (f.X+f.Width)*innerW/pane.Width
	y2 := 1 + (f.Y+f.Height)*innerH/pane.Height

	if x1 < 1 {
		x1 = 1
	}
	if y1 < 1 {
		y1 = 1
	}
	if x2 > canvasW-2 {
		x2 = canvasW - 2
	}
	if y2 > canvasH-2 {
		y2 = canvasH - 2
	}

	// Need at least 2x2 for a frame
	if x2 <= x1 || y2 <= y1 {
		return
	}

	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			canvas[y][x] = ' '
		}
	}
	for x := x1; x <= x2; x++ {
		canvas[y1][x] = '─'
		canvas[y2][x] = '─'
	}
	for y := y1; y <= y2; y++ {
		canvas[y][x1] = '│'
		canvas[y][x2] = '│'
	}
	canvas[y1][x1] = '┌'
	canvas[y1][x2] = '┐'
	canvas[y2][x1] = '└'
	canvas[y2][x2] = '┘'

	// Label goes on the title row so stacked frames stay distinguishable.
	label := fmt.Sprintf("%d", num)
	for i, r := range label {
		if x1+1+i < x2 {
			canvas[y1][x1+1+i] = r
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

func emptyCanvas(width, height int) []string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := make([]string, height)
	empty := strings.Repeat(" ", width)
	for i := range lines {
		lines[i] = empty
	}
	return lines
}
