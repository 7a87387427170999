package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/1broseidon/mira/internal/bridge"
	"github.com/1broseidon/mira/internal/events"
	"github.com/1broseidon/mira/internal/platform"
	"github.com/1broseidon/mira/internal/runtimepath"
)

// Commands is the command bridge served over IPC.
type Commands interface {
	SetOverlayPassthrough(passThrough bool) error
	SetOverlayVisible(visible bool) error
	EmitToOverlay(event string, payload json.RawMessage) error
	SaveToolbarPosition(x, y int32) error
	ResetToolbarPosition() error
	SetToolbarWidth(width float64) error
	QuitApp()
	OpenAboutWindow() error
	Status() bridge.Status
	Monitors() ([]platform.Monitor, error)
	Windows() []bridge.WindowInfo
}

// Subscriber opens event streams.
type Subscriber interface {
	Subscribe(label string) *events.Subscription
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	cmds         Commands
	hub          Subscriber
	shuttingDown bool
	shutdownMu   sync.Mutex
	streams      map[*events.Subscription]struct{}
}

// NewServer creates a new IPC server on the default socket path.
func NewServer(cmds Commands, hub Subscriber) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	return NewServerAt(socketPath, cmds, hub), nil
}

// NewServerAt creates a server listening on socketPath.
func NewServerAt(socketPath string, cmds Commands, hub Subscriber) *Server {
	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cmds:       cmds,
		hub:        hub,
		streams:    make(map[*events.Subscription]struct{}),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	// Accept connections
	go s.acceptLoop()

	return nil
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	if req.Command == CommandSubscribe {
		s.handleSubscribe(conn, reader, req.Payload)
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	if err := writeLine(conn, resp); err != nil {
		log.Printf("Failed to send response: %v", err)
	}

	// Quit only after the caller has its answer.
	if req.Command == CommandQuitApp && resp.Status == "OK" {
		log.Println("IPC: Received QUIT_APP command")
		s.cmds.QuitApp()
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandSetOverlayPassthrough:
		return s.handleSetOverlayPassthrough(req.Payload)
	case CommandSetOverlayVisible:
		return s.handleSetOverlayVisible(req.Payload)
	case CommandEmitToOverlay:
		return s.handleEmitToOverlay(req.Payload)
	case CommandSaveToolbarPosition:
		return s.handleSaveToolbarPosition(req.Payload)
	case CommandResetToolbarPosition:
		return result(s.cmds.ResetToolbarPosition(), "Failed to reset toolbar position")
	case CommandSetToolbarWidth:
		return s.handleSetToolbarWidth(req.Payload)
	case CommandQuitApp:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandOpenAboutWindow:
		return result(s.cmds.OpenAboutWindow(), "Failed to open about window")
	case CommandGetStatus:
		resp, err := NewOKResponse(s.cmds.Status())
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return resp
	case CommandGetMonitors:
		return s.handleGetMonitors()
	case CommandGetWindows:
		resp, _ := NewOKResponse(WindowsData{Windows: s.cmds.Windows()})
		return resp
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func result(err error, context string) *Response {
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("%s: %v", context, err))
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleSetOverlayPassthrough(payload json.RawMessage) *Response {
	var req PassthroughPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.PassThrough == nil {
		return NewErrorResponse("pass_through is required")
	}
	return result(s.cmds.SetOverlayPassthrough(*req.PassThrough), "Failed to set overlay passthrough")
}

func (s *Server) handleSetOverlayVisible(payload json.RawMessage) *Response {
	var req VisiblePayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.Visible == nil {
		return NewErrorResponse("visible is required")
	}
	return result(s.cmds.SetOverlayVisible(*req.Visible), "Failed to set overlay visibility")
}

func (s *Server) handleEmitToOverlay(payload json.RawMessage) *Response {
	var req EmitPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	return result(s.cmds.EmitToOverlay(req.Event, req.Payload), "Failed to emit to overlays")
}

func (s *Server) handleSaveToolbarPosition(payload json.RawMessage) *Response {
	var req ToolbarPositionPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.X == nil || req.Y == nil {
		return NewErrorResponse("x and y are required")
	}
	return result(s.cmds.SaveToolbarPosition(*req.X, *req.Y), "Failed to save toolbar position")
}

func (s *Server) handleSetToolbarWidth(payload json.RawMessage) *Response {
	var req ToolbarWidthPayload
	if err := decodePayload(payload, &req); err != nil {
		return NewErrorResponse(err.Error())
	}
	if req.Width == nil {
		return NewErrorResponse("width is required")
	}
	return result(s.cmds.SetToolbarWidth(*req.Width), "Failed to set toolbar width")
}

// handleGetMonitors returns information about all monitors
func (s *Server) handleGetMonitors() *Response {
	monitors, err := s.cmds.Monitors()
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to get monitors: %v", err))
	}
	resp, _ := NewOKResponse(MonitorsData{Monitors: monitors})
	return resp
}

// handleSubscribe acknowledges the subscription and then streams events,
// one JSON object per line, until either side goes away.
func (s *Server) handleSubscribe(conn net.Conn, reader *bufio.Reader, payload json.RawMessage) {
	var req SubscribePayload
	if err := decodePayload(payload, &req); err != nil {
		s.sendError(conn, err.Error())
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		s.sendError(conn, "label is required")
		return
	}

	sub := s.hub.Subscribe(req.Label)
	if !s.track(sub) {
		sub.Close()
		s.sendError(conn, "server is shutting down")
		return
	}
	defer s.untrack(sub)

	resp, _ := NewOKResponse(nil)
	if err := writeLine(conn, resp); err != nil {
		return
	}
	log.Printf("IPC: %s subscribed to events", req.Label)

	// A read returning means the client hung up.
	go func() {
		_, _ = io.Copy(io.Discard, reader)
		sub.Close()
	}()

	for ev := range sub.C {
		if err := writeLine(conn, ev); err != nil {
			break
		}
	}
	log.Printf("IPC: %s unsubscribed", req.Label)
}

func (s *Server) track(sub *events.Subscription) bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	if s.shuttingDown {
		return false
	}
	s.streams[sub] = struct{}{}
	return true
}

func (s *Server) untrack(sub *events.Subscription) {
	sub.Close()
	s.shutdownMu.Lock()
	delete(s.streams, sub)
	s.shutdownMu.Unlock()
}

func writeLine(conn net.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	data = append(data, '\n')
	_, err = conn.Write(data)
	return err
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop shuts down the IPC server and ends every event stream. It does not
// wait for in-flight requests.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	streams := make([]*events.Subscription, 0, len(s.streams))
	for sub := range s.streams {
		streams = append(streams, sub)
	}
	s.shutdownMu.Unlock()

	for _, sub := range streams {
		sub.Close()
	}
	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}
