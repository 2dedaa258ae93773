package ipc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/tiling"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandCascade    CommandType = "CASCADE"
	CommandTile       CommandType = "TILE"
	CommandUndo       CommandType = "UNDO"
	CommandRaise      CommandType = "RAISE"
	CommandListFrames CommandType = "LIST_FRAMES"
	CommandGetStatus  CommandType = "GET_STATUS"
	CommandReload     CommandType = "RELOAD"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ArrangeData is returned by CASCADE and TILE.
type ArrangeData = tiling.Result

// RaisePayload selects the frame for RAISE.
type RaisePayload struct {
	ID uint32 `json:"id"`
}

// PaneInfo is the size of the pane frames are arranged in.
type PaneInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FramesData represents the data returned by LIST_FRAMES
type FramesData struct {
	Pane   PaneInfo            `json:"pane"`
	Frames []desktop.FrameInfo `json:"frames"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	Passes        int           `json:"passes"`
	LastAction    tiling.Action `json:"last_action,omitempty"`
	LastRunAt     *time.Time    `json:"last_run_at,omitempty"`
	CanUndo       bool          `json:"can_undo"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	DaemonRunning bool          `json:"daemon_running"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
