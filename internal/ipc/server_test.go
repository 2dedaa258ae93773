package ipc

import (
	"bufio"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/mditile/internal/config"
	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/logging"
	"github.com/1broseidon/mditile/internal/runtimepath"
	"github.com/1broseidon/mditile/internal/tiling"
)

func startTestServer(t *testing.T) (*Server, *desktop.Memory, chan struct{}) {
	t.Helper()
	t.Setenv(runtimepath.SocketEnv, filepath.Join(t.TempDir(), "ipc.sock"))

	m := desktop.NewMemory(1000, 900)
	for _, title := range []string{"a", "b", "c"} {
		m.AddFrame(desktop.FrameSpec{
			Title:    title,
			Position: desktop.Point{X: 10, Y: 10},
			Size:     desktop.Size{Width: 200, Height: 100},
		})
	}
	arranger := tiling.NewArranger(tiling.StaticSource(m), logging.Discard())

	reload := make(chan struct{}, 1)
	srv, err := NewServer(config.DefaultConfig(), arranger, logging.Discard(), reload)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, m, reload
}

func TestServer_TileAndListFrames(t *testing.T) {
	_, _, _ = startTestServer(t)
	client := NewClient()

	res, err := client.Tile()
	if err != nil {
		t.Fatalf("Tile: %v", err)
	}
	if res.Action != tiling.ActionTile || res.Frames != 3 || res.Arranged != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Grid != (tiling.TileGrid{Rows: 1, Columns: 3}) {
		t.Fatalf("unexpected grid %+v", res.Grid)
	}

	data, err := client.ListFrames()
	if err != nil {
		t.Fatalf("ListFrames: %v", err)
	}
	if data.Pane != (PaneInfo{Width: 1000, Height: 900}) {
		t.Fatalf("unexpected pane %+v", data.Pane)
	}
	if len(data.Frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(data.Frames))
	}
	if f := data.Frames[1]; f.X != 333 || f.Y != 0 || f.Width != 333 || f.Height != 900 {
		t.Fatalf("unexpected second frame %+v", f)
	}
}

func TestServer_UndoAndStatus(t *testing.T) {
	_, m, _ := startTestServer(t)
	client := NewClient()

	if err := client.Undo(); err == nil {
		t.Fatalf("expected undo with no history to fail")
	}

	if _, err := client.Cascade(); err != nil {
		t.Fatalf("Cascade: %v", err)
	}
	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.Passes != 1 || status.LastAction != tiling.ActionCascade || !status.CanUndo || !status.DaemonRunning {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.LastRunAt == nil {
		t.Fatalf("expected last_run_at")
	}

	if err := client.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	for _, f := range m.Windows() {
		if got := f.Position(); got != (desktop.Point{X: 10, Y: 10}) {
			t.Fatalf("frame %q not restored: %+v", f.Title(), got)
		}
	}
}

func TestServer_Raise(t *testing.T) {
	_, m, _ := startTestServer(t)
	client := NewClient()

	first := m.Windows()[0]
	if err := client.Raise(first.ID()); err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if m.SelectedWindow() != first {
		t.Fatalf("expected raised frame to be selected")
	}
	stack := m.Stacking()
	if stack[len(stack)-1] != first.ID() {
		t.Fatalf("expected frame on top, got %v", stack)
	}

	if err := client.Raise(9999); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServer_Reload(t *testing.T) {
	srv, _, reload := startTestServer(t)
	want := config.DefaultConfig()
	want.LogLevel = "debug"
	srv.SetConfigLoader(func() (*config.Config, error) { return want, nil })

	if err := NewClient().Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	select {
	case <-reload:
	case <-time.After(time.Second):
		t.Fatalf("expected reload notification")
	}
	if srv.GetConfig().LogLevel != "debug" {
		t.Fatalf("expected reloaded config")
	}

	srv.SetConfigLoader(func() (*config.Config, error) { return nil, errors.New("bad yaml") })
	if err := NewClient().Reload(); err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("expected reload error, got %v", err)
	}
	if srv.GetConfig() != want {
		t.Fatalf("failed reload must keep previous config")
	}
}

func TestServer_ReloadReadsConfiguredPath(t *testing.T) {
	srv, _, _ := startTestServer(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	srv.SetConfigLoader(func() (*config.Config, error) { return config.LoadFromPath(path) })

	if err := NewClient().Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := srv.GetConfig().LogLevel; got != "debug" {
		t.Fatalf("log_level = %q, want debug from %s", got, path)
	}
}

func TestServer_RejectsBadRequests(t *testing.T) {
	srv, _, _ := startTestServer(t)

	tests := []struct {
		name    string
		line    string
		wantErr string
	}{
		{"unknown command", `{"command":"FLY"}`, "Unknown command"},
		{"malformed json", `{"command":`, "Invalid request"},
		{"raise without payload", `{"command":"RAISE"}`, "missing id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, err := net.Dial("unix", srv.SocketPath())
			if err != nil {
				t.Fatalf("dial: %v", err)
			}
			defer conn.Close()
			conn.SetDeadline(time.Now().Add(2 * time.Second))

			if _, err := conn.Write([]byte(tt.line + "\n")); err != nil {
				t.Fatalf("write: %v", err)
			}
			line, err := bufio.NewReader(conn).ReadBytes('\n')
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			var resp Response
			if err := json.Unmarshal(line, &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != "ERROR" || !strings.Contains(resp.Error, tt.wantErr) {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}

func TestClient_NoDaemon(t *testing.T) {
	t.Setenv(runtimepath.SocketEnv, filepath.Join(t.TempDir(), "missing.sock"))
	if err := NewClient().Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
