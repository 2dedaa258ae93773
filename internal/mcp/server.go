package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/ipc"
	"github.com/1broseidon/mditile/internal/tiling"
	"github.com/charmbracelet/log"
)

const (
	ServerName    = "mditile"
	ServerVersion = "0.1.0"
)

// Client is the daemon API the tools forward to. *ipc.Client satisfies it.
type Client interface {
	Arrange(action tiling.Action) (*ipc.ArrangeData, error)
	Undo() error
	Raise(id uint32) error
	ListFrames() (*ipc.FramesData, error)
}

// Server exposes the running daemon's arrangement commands as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	client    Client
	logger    *log.Logger
}

// NewServer creates an MCP server forwarding to client.
func NewServer(client Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		client: client,
		logger: logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cascade",
		Description: "Cascade the windows on the active monitor: each visible window keeps its natural size and is offset 24px down and right from the previous one, wrapping to the edge when it would overflow. The last window ends up focused.",
	}, s.handleCascade)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tile",
		Description: "Tile the windows on the active monitor into a near-square grid of equal cells, filling each column top to bottom. Maximized windows are restored first. Returns the grid shape used.",
	}, s.handleTile)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "undo",
		Description: "Restore window positions and sizes from before the last cascade or tile. Only one level of history is kept.",
	}, s.handleUndo)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_frames",
		Description: "List the windows the daemon would arrange, in arrangement order, with their pane-relative geometry, iconified/maximized state and which one is focused.",
	}, s.handleListFrames)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "raise_frame",
		Description: "Bring a window to the front and focus it, restoring it first if it is iconified. Use an id from list_frames.",
	}, s.handleRaiseFrame)
}

func (s *Server) handleCascade(_ context.Context, _ *mcpsdk.CallToolRequest, _ ArrangeInput) (*mcpsdk.CallToolResult, ArrangeOutput, error) {
	return s.arrange(tiling.ActionCascade)
}

func (s *Server) handleTile(_ context.Context, _ *mcpsdk.CallToolRequest, _ ArrangeInput) (*mcpsdk.CallToolResult, ArrangeOutput, error) {
	return s.arrange(tiling.ActionTile)
}

func (s *Server) arrange(action tiling.Action) (*mcpsdk.CallToolResult, ArrangeOutput, error) {
	res, err := s.client.Arrange(action)
	if err != nil {
		return nil, ArrangeOutput{}, fmt.Errorf("%s failed: %w", action, err)
	}
	s.logger.Debug("MCP arrange", "action", action, "frames", res.Frames)
	return nil, ArrangeOutput{
		Action:       string(res.Action),
		Frames:       res.Frames,
		Arranged:     res.Arranged,
		Rows:         res.Grid.Rows,
		Columns:      res.Grid.Columns,
		ExtraColumns: res.Grid.ExtraColumns,
	}, nil
}

func (s *Server) handleUndo(_ context.Context, _ *mcpsdk.CallToolRequest, _ UndoInput) (*mcpsdk.CallToolResult, UndoOutput, error) {
	if err := s.client.Undo(); err != nil {
		return nil, UndoOutput{}, fmt.Errorf("undo failed: %w", err)
	}
	return nil, UndoOutput{Restored: true}, nil
}

func (s *Server) handleListFrames(_ context.Context, _ *mcpsdk.CallToolRequest, args ListFramesInput) (*mcpsdk.CallToolResult, ListFramesOutput, error) {
	data, err := s.client.ListFrames()
	if err != nil {
		return nil, ListFramesOutput{}, fmt.Errorf("failed to list frames: %w", err)
	}

	out := ListFramesOutput{
		PaneWidth:  data.Pane.Width,
		PaneHeight: data.Pane.Height,
		Frames:     data.Frames,
	}
	if args.IncludeIconified != nil && !*args.IncludeIconified {
		out.Frames = out.Frames[:0:0]
		for _, f := range data.Frames {
			if !f.Iconified {
				out.Frames = append(out.Frames, f)
			}
		}
	}
	if out.Frames == nil {
		out.Frames = []desktop.FrameInfo{}
	}
	return nil, out, nil
}

func (s *Server) handleRaiseFrame(_ context.Context, _ *mcpsdk.CallToolRequest, args RaiseFrameInput) (*mcpsdk.CallToolResult, RaiseFrameOutput, error) {
	if args.ID == 0 {
		return nil, RaiseFrameOutput{}, fmt.Errorf("id is required")
	}
	if err := s.client.Raise(args.ID); err != nil {
		return nil, RaiseFrameOutput{}, fmt.Errorf("raise failed: %w", err)
	}
	return nil, RaiseFrameOutput{ID: args.ID, Raised: true}, nil
}
