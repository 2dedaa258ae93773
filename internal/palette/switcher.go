package palette

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/tiling"
)

const raisePrefix = "raise:"

// Choice is what the user picked in the window switcher.
type Choice struct {
	Arrange tiling.Action // set for cascade and tile
	Undo    bool
	RaiseID uint32 // set when a frame was picked
}

// SwitcherItems lists the arrangement commands followed by one row per
// frame. The focused frame is marked active so the palette opens on it.
func SwitcherItems(frames []desktop.FrameInfo) []Item {
	items := []Item{
		{Label: "Arrange", IsHeader: true},
		{Label: "Cascade windows", Action: string(tiling.ActionCascade), Meta: "cascade stack"},
		{Label: "Tile windows", Action: string(tiling.ActionTile), Meta: "tile grid"},
		{Label: "Undo last arrangement", Action: "undo", Meta: "undo restore"},
	}
	if len(frames) == 0 {
		return items
	}

	items = append(items, Item{Label: "Windows", IsHeader: true})
	for _, f := range frames {
		label := f.Title
		if label == "" {
			label = fmt.Sprintf("0x%08x", f.ID)
		}
		switch {
		case f.Iconified:
			label += "  (iconified)"
		case f.Maximized:
			label += "  (maximized)"
		}
		items = append(items, Item{
			Label:    label,
			Action:   raisePrefix + strconv.FormatUint(uint64(f.ID), 10),
			Meta:     fmt.Sprintf("0x%x", f.ID),
			IsActive: f.Selected,
		})
	}
	return items
}

// ParseChoice decodes the action of an item built by SwitcherItems.
func ParseChoice(item Item) (Choice, error) {
	switch {
	case item.Action == "undo":
		return Choice{Undo: true}, nil
	case strings.HasPrefix(item.Action, raisePrefix):
		id, err := strconv.ParseUint(strings.TrimPrefix(item.Action, raisePrefix), 10, 32)
		if err != nil || id == 0 {
			return Choice{}, fmt.Errorf("palette: bad window id in %q", item.Action)
		}
		return Choice{RaiseID: uint32(id)}, nil
	default:
		action, err := tiling.ParseAction(item.Action)
		if err != nil {
			return Choice{}, err
		}
		return Choice{Arrange: action}, nil
	}
}
