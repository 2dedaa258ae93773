package main

import (
	"errors"
	"testing"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/ipc"
	"github.com/1broseidon/mditile/internal/palette"
	"github.com/1broseidon/mditile/internal/tiling"
)

type pickBackend struct {
	pick  func(items []palette.Item) (palette.Item, error)
	shown []palette.Item
}

func (b *pickBackend) Show(_ string, items []palette.Item, _ string) (palette.Item, error) {
	b.shown = items
	return b.pick(items)
}

type recordingClient struct {
	raised  uint32
	undone  bool
	arrange tiling.Action
}

func (c *recordingClient) ListFrames() (*ipc.FramesData, error) {
	return &ipc.FramesData{
		Pane:   ipc.PaneInfo{Width: 800, Height: 600},
		Frames: []desktop.FrameInfo{{ID: 11, Title: "editor"}, {ID: 12, Title: "logs"}},
	}, nil
}

func (c *recordingClient) Arrange(action tiling.Action) (*ipc.ArrangeData, error) {
	c.arrange = action
	return &ipc.ArrangeData{Action: action}, nil
}

func (c *recordingClient) Undo() error {
	c.undone = true
	return nil
}

func (c *recordingClient) Raise(id uint32) error {
	c.raised = id
	return nil
}

func pickAction(action string) func([]palette.Item) (palette.Item, error) {
	return func(items []palette.Item) (palette.Item, error) {
		for _, it := range items {
			if it.Action == action {
				return it, nil
			}
		}
		return palette.Item{}, errors.New("not offered: " + action)
	}
}

func TestRunSwitcher_Dispatch(t *testing.T) {
	tests := []struct {
		name   string
		action string
		check  func(*recordingClient) bool
	}{
		{"raise", "raise:12", func(c *recordingClient) bool { return c.raised == 12 }},
		{"tile", "tile", func(c *recordingClient) bool { return c.arrange == tiling.ActionTile }},
		{"cascade", "cascade", func(c *recordingClient) bool { return c.arrange == tiling.ActionCascade }},
		{"undo", "undo", func(c *recordingClient) bool { return c.undone }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &recordingClient{}
			if err := runSwitcher(&pickBackend{pick: pickAction(tt.action)}, client); err != nil {
				t.Fatalf("runSwitcher: %v", err)
			}
			if !tt.check(client) {
				t.Fatalf("action %q not dispatched: %+v", tt.action, client)
			}
		})
	}
}

func TestRunSwitcher_Cancelled(t *testing.T) {
	client := &recordingClient{}
	backend := &pickBackend{pick: func([]palette.Item) (palette.Item, error) { return palette.Item{}, palette.ErrCancelled }}

	err := runSwitcher(backend, client)
	if !errors.Is(err, palette.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if client.raised != 0 || client.undone || client.arrange != "" {
		t.Fatalf("cancel must not dispatch anything: %+v", client)
	}
}
