package mcp

import "github.com/1broseidon/mditile/internal/desktop"

// ArrangeInput is the input for the cascade and tile tools.
type ArrangeInput struct{}

// ArrangeOutput is the output for the cascade and tile tools.
type ArrangeOutput struct {
	Action       string `json:"action"`
	Frames       int    `json:"frames"`
	Arranged     int    `json:"arranged"`
	Rows         int    `json:"rows,omitempty"`
	Columns      int    `json:"columns,omitempty"`
	ExtraColumns int    `json:"extra_columns,omitempty"`
}

// UndoInput is the input for the undo tool.
type UndoInput struct{}

// UndoOutput is the output for the undo tool.
type UndoOutput struct {
	Restored bool `json:"restored"`
}

// ListFramesInput is the input for the list_frames tool.
type ListFramesInput struct {
	IncludeIconified *bool `json:"include_iconified,omitempty" jsonschema:"Include iconified frames in the listing (default: true)"`
}

// ListFramesOutput is the output for the list_frames tool.
type ListFramesOutput struct {
	PaneWidth  int                 `json:"pane_width"`
	PaneHeight int                 `json:"pane_height"`
	Frames     []desktop.FrameInfo `json:"frames"`
}

// RaiseFrameInput is the input for the raise_frame tool.
type RaiseFrameInput struct {
	ID uint32 `json:"id" jsonschema:"Window ID of the frame to raise, as reported by list_frames"`
}

// RaiseFrameOutput is the output for the raise_frame tool.
type RaiseFrameOutput struct {
	ID     uint32 `json:"id"`
	Raised bool   `json:"raised"`
}
