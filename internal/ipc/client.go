package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/mditile/internal/runtimepath"
	"github.com/1broseidon/mditile/internal/tiling"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Arrange asks the daemon to cascade or tile the current pane.
func (c *Client) Arrange(action tiling.Action) (*ArrangeData, error) {
	cmd := CommandCascade
	if action == tiling.ActionTile {
		cmd = CommandTile
	} else if action != tiling.ActionCascade {
		return nil, fmt.Errorf("unknown arrangement %q", action)
	}

	resp, err := c.sendRequest(&Request{Command: cmd})
	if err != nil {
		return nil, err
	}

	var data ArrangeData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse arrange data: %w", err)
	}
	return &data, nil
}

// Cascade sends a CASCADE command to the daemon.
func (c *Client) Cascade() (*ArrangeData, error) {
	return c.Arrange(tiling.ActionCascade)
}

// Tile sends a TILE command to the daemon.
func (c *Client) Tile() (*ArrangeData, error) {
	return c.Arrange(tiling.ActionTile)
}

// Undo sends an UNDO command to the daemon.
func (c *Client) Undo() error {
	_, err := c.sendRequest(&Request{Command: CommandUndo})
	return err
}

// Raise brings the frame with the given window ID to the front.
func (c *Client) Raise(id uint32) error {
	payload, err := json.Marshal(RaisePayload{ID: id})
	if err != nil {
		return fmt.Errorf("failed to marshal raise payload: %w", err)
	}

	_, err = c.sendRequest(&Request{Command: CommandRaise, Payload: payload})
	return err
}

// ListFrames retrieves the frames on the active pane.
func (c *Client) ListFrames() (*FramesData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListFrames})
	if err != nil {
		return nil, err
	}

	var data FramesData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to parse frames data: %w", err)
	}
	return &data, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
