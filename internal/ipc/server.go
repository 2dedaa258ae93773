package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/mditile/internal/config"
	"github.com/1broseidon/mditile/internal/desktop"
	"github.com/1broseidon/mditile/internal/runtimepath"
	"github.com/1broseidon/mditile/internal/tiling"
	"github.com/charmbracelet/log"
)

// Arranger is the part of tiling.Arranger the server drives.
type Arranger interface {
	Arrange(action tiling.Action) (tiling.Result, error)
	Undo() error
	Raise(id uint32) error
	Frames() ([]desktop.FrameInfo, desktop.Size, error)
	Status() tiling.Status
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Config
	cfgMu        sync.RWMutex
	loadConfig   func() (*config.Config, error)
	arranger     Arranger
	logger       *log.Logger
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Config, arranger Arranger, logger *log.Logger, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		loadConfig: config.Load,
		arranger:   arranger,
		logger:     logger,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// SetConfigLoader replaces the function RELOAD uses to read configuration.
// The default reads the standard config path.
func (s *Server) SetConfigLoader(load func() (*config.Config, error)) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.loadConfig = load
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				return
			}
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) isShuttingDown() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection serves one newline-terminated JSON request.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("Failed to marshal response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("Failed to send response", "err", err)
	}
}

func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandCascade:
		return s.handleArrange(tiling.ActionCascade)
	case CommandTile:
		return s.handleArrange(tiling.ActionTile)
	case CommandUndo:
		return s.handleUndo()
	case CommandRaise:
		return s.handleRaise(req.Payload)
	case CommandListFrames:
		return s.handleListFrames()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleArrange(action tiling.Action) *Response {
	res, err := s.arranger.Arrange(action)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("%s failed: %v", action, err))
	}
	resp, err := NewOKResponse(res)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleUndo() *Response {
	if err := s.arranger.Undo(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Undo failed: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleRaise(payload json.RawMessage) *Response {
	var req RaisePayload
	if len(payload) == 0 {
		return NewErrorResponse("Invalid raise payload: missing id")
	}
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid raise payload: %v", err))
	}
	if err := s.arranger.Raise(req.ID); err != nil {
		return NewErrorResponse(fmt.Sprintf("Raise failed: %v", err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleListFrames() *Response {
	frames, pane, err := s.arranger.Frames()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to list frames: %v", err))
	}
	if frames == nil {
		frames = []desktop.FrameInfo{}
	}
	resp, err := NewOKResponse(FramesData{
		Pane:   PaneInfo{Width: pane.Width, Height: pane.Height},
		Frames: frames,
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetStatus() *Response {
	st := s.arranger.Status()
	status := StatusData{
		Passes:        st.Passes,
		LastAction:    st.LastAction,
		CanUndo:       st.CanUndo,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
	}
	if !st.LastRunAt.IsZero() {
		at := st.LastRunAt
		status.LastRunAt = &at
	}

	resp, _ := NewOKResponse(status)
	return resp
}

// handleReload reloads the configuration and notifies the daemon.
func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: Received RELOAD command")

	s.cfgMu.RLock()
	load := s.loadConfig
	s.cfgMu.RUnlock()

	newCfg, err := load()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}

	s.cfgMu.Lock()
	s.cfg = newCfg
	s.cfgMu.Unlock()

	// Notify the main daemon via channel (non-blocking)
	select {
	case s.reloadChan <- struct{}{}:
	default:
	}

	s.logger.Info("IPC: Config reloaded successfully")

	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}

// GetConfig returns the current config (thread-safe)
func (s *Server) GetConfig() *config.Config {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// UpdateConfig updates the config (thread-safe)
func (s *Server) UpdateConfig(cfg *config.Config) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	s.cfg = cfg
}
