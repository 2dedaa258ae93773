package tiling

import (
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/charmbracelet/log"
)

// Source opens a window manager session for one arrangement pass.
type Source interface {
	Session() (desktop.WindowManager, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() (desktop.WindowManager, error)

func (f SourceFunc) Session() (desktop.WindowManager, error) { return f() }

// StaticSource always returns the same window manager.
func StaticSource(wm desktop.WindowManager) Source {
	return SourceFunc(func() (desktop.WindowManager, error) { return wm, nil })
}

// Action names an arrangement strategy.
type Action string

const (
	ActionCascade Action = "cascade"
	ActionTile    Action = "tile"
)

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	switch Action(name) {
	case ActionCascade, ActionTile:
		return Action(name), nil
	default:
		return "", fmt.Errorf("unknown arrangement %q (want cascade or tile)", name)
	}
}

// Apply runs the strategy against wm.
func (a Action) Apply(wm desktop.WindowManager) {
	switch a {
	case ActionCascade:
		Cascade(wm)
	case ActionTile:
		Tile(wm)
	}
}

// Result summarizes one arrangement pass.
type Result struct {
	Action   Action   `json:"action"`
	Frames   int      `json:"frames"`
	Arranged int      `json:"arranged"`
	Grid     TileGrid `json:"grid"`
}

// Status describes the arranger's history since it was created.
type Status struct {
	Passes     int       `json:"passes"`
	LastAction Action    `json:"last_action,omitempty"`
	LastRunAt  time.Time `json:"last_run_at,omitempty"`
	CanUndo    bool      `json:"can_undo"`
}

type savedGeometry struct {
	pos       desktop.Point
	size      desktop.Size
	maximized bool
}

// Arranger serializes arrangement passes over a window source. Hotkeys and
// IPC requests call it from different goroutines; only one pass touches the
// window manager at a time.
type Arranger struct {
	mu       sync.Mutex
	source   Source
	logger   *log.Logger
	passes   int
	last     Action
	lastRun  time.Time
	previous map[uint32]savedGeometry
}

// NewArranger creates an arranger reading windows from source.
func NewArranger(source Source, logger *log.Logger) *Arranger {
	if logger == nil {
		logger = log.Default()
	}
	return &Arranger{
		source: source,
		logger: logger,
	}
}

// Cascade runs a cascade pass.
func (a *Arranger) Cascade() (Result, error) {
	return a.Arrange(ActionCascade)
}

// Tile runs a tile pass.
func (a *Arranger) Tile() (Result, error) {
	return a.Arrange(ActionTile)
}

// Arrange runs one pass of the given strategy.
func (a *Arranger) Arrange(action Action) (Result, error) {
	if _, err := ParseAction(string(action)); err != nil {
		return Result{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	wm, err := a.source.Session()
	if err != nil {
		a.logger.Error("Failed to open window session", "err", err)
		return Result{}, fmt.Errorf("failed to open window session: %w", err)
	}

	frames := wm.Windows()
	pane := wm.DesktopPane()
	res := Result{Action: action, Frames: len(frames)}
	for _, f := range frames {
		if !f.Iconified() {
			res.Arranged++
		}
	}
	if action == ActionTile {
		res.Grid = CalculateTileGrid(len(frames))
	}

	a.logger.Info("Arranging frames",
		"action", action,
		"frames", res.Frames,
		"arranged", res.Arranged,
		"pane", fmt.Sprintf("%dx%d", pane.Width(), pane.Height()))
	if action == ActionTile && res.Frames > 0 {
		a.logger.Debug("Tile grid",
			"rows", res.Grid.Rows,
			"columns", res.Grid.Columns,
			"extra_columns", res.Grid.ExtraColumns)
	}

	previous := captureGeometry(frames)
	action.Apply(wm)

	for _, info := range desktop.Snapshot(wm) {
		if info.Iconified {
			continue
		}
		a.logger.Debug("Placed frame",
			"id", info.ID,
			"title", info.Title,
			"pos", fmt.Sprintf("%d,%d", info.X, info.Y),
			"size", fmt.Sprintf("%dx%d", info.Width, info.Height))
	}

	a.passes++
	a.last = action
	a.lastRun = time.Now()
	a.previous = previous
	return res, nil
}

// Undo restores the geometry frames had before the last pass. Frames that
// have disappeared since are skipped.
func (a *Arranger) Undo() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.previous) == 0 {
		return fmt.Errorf("nothing to undo")
	}

	wm, err := a.source.Session()
	if err != nil {
		return fmt.Errorf("failed to open window session: %w", err)
	}

	restored := 0
	for _, f := range wm.Windows() {
		g, ok := a.previous[f.ID()]
		if !ok {
			continue
		}
		// Normal bounds go back first so a maximized frame restores to
		// them later.
		if f.Maximized() {
			f.SetMaximized(false)
		}
		f.SetPosition(g.pos)
		f.SetSize(g.size)
		if g.maximized {
			f.SetMaximized(true)
		}
		restored++
	}
	a.logger.Info("Restored previous geometry", "frames", restored)
	a.previous = nil
	return nil
}

// Raise brings the frame with the given ID to the front.
func (a *Arranger) Raise(id uint32) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	wm, err := a.source.Session()
	if err != nil {
		return fmt.Errorf("failed to open window session: %w", err)
	}
	frame := desktop.FindFrame(wm, id)
	if frame == nil {
		return fmt.Errorf("frame %d not found", id)
	}
	desktop.RaiseToFront(frame, wm)
	a.logger.Info("Raised frame", "id", id, "title", frame.Title())
	return nil
}

// Frames returns the current state of every frame.
func (a *Arranger) Frames() ([]desktop.FrameInfo, desktop.Size, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	wm, err := a.source.Session()
	if err != nil {
		return nil, desktop.Size{}, fmt.Errorf("failed to open window session: %w", err)
	}
	pane := wm.DesktopPane()
	return desktop.Snapshot(wm), desktop.Size{Width: pane.Width(), Height: pane.Height()}, nil
}

// Status reports pass history.
func (a *Arranger) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Status{
		Passes:     a.passes,
		LastAction: a.last,
		LastRunAt:  a.lastRun,
		CanUndo:    len(a.previous) > 0,
	}
}

func captureGeometry(frames []desktop.Frame) map[uint32]savedGeometry {
	saved := make(map[uint32]savedGeometry, len(frames))
	for _, f := range frames {
		if f.Iconified() {
			continue
		}
		pos, size := desktop.NormalBounds(f)
		saved[f.ID()] = savedGeometry{
			pos:       pos,
			size:      size,
			maximized: f.Maximized(),
		}
	}
	return saved
}
