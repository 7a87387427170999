package mcp

import (
	"context"
	"encoding/json"
	"slices"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/mira/internal/ipc"
)

const (
	ServerName    = "mira"
	ServerVersion = "0.1.0"
)

// Daemon is the running mira daemon as seen through its IPC socket.
// *ipc.Client satisfies it.
type Daemon interface {
	SetOverlayPassthrough(passThrough bool) error
	SetOverlayVisible(visible bool) error
	EmitToOverlay(event string, payload json.RawMessage) error
	SaveToolbarPosition(x, y int32) error
	ResetToolbarPosition() error
	SetToolbarWidth(width float64) error
	QuitApp() error
	OpenAboutWindow() error
	GetStatus() (*ipc.StatusData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetWindows() (*ipc.WindowsData, error)
}

// Server is the MCP server exposing the mira command bridge as tools.
type Server struct {
	mcpServer  *mcpsdk.Server
	daemon     Daemon
	registered []string
}

// NewServer creates an MCP server that forwards every tool call to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}

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

// ToolInfo names one tool the server exposes.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{"set_overlay_passthrough", "Make every overlay window ignore (true) or capture (false) mouse input. Pass-through overlays let clicks reach the applications underneath."},
	{"set_overlay_visible", "Show or hide every overlay window."},
	{"emit_to_overlay", "Broadcast a named event with an optional JSON payload to every overlay window."},
	{"save_toolbar_position", "Persist a toolbar position in physical pixels. The position is restored on the next start."},
	{"reset_toolbar_position", "Move the toolbar back to its default spot on its current monitor and forget the saved position."},
	{"set_toolbar_width", "Resize the toolbar to a logical width (clamped to 360..900) and keep it inside the monitor work area."},
	{"open_about_window", "Show and focus the About window, creating it on first use."},
	{"quit_app", "Terminate the mira daemon."},
	{"get_status", "Report daemon uptime, the overlay windows and their monitor offsets, and whether cursor tracking and global shortcuts are active."},
	{"list_monitors", "List connected monitors with their physical bounds, work areas and scale factors."},
	{"list_windows", "List the daemon's windows by label with their native X11 window ids."},
}

// Tools lists the exposed tools in registration order.
func Tools() []ToolInfo {
	return slices.Clone(tools)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, s.tool("set_overlay_passthrough"), s.handleSetOverlayPassthrough)
	mcpsdk.AddTool(s.mcpServer, s.tool("set_overlay_visible"), s.handleSetOverlayVisible)
	mcpsdk.AddTool(s.mcpServer, s.tool("emit_to_overlay"), s.handleEmitToOverlay)
	mcpsdk.AddTool(s.mcpServer, s.tool("save_toolbar_position"), s.handleSaveToolbarPosition)
	mcpsdk.AddTool(s.mcpServer, s.tool("reset_toolbar_position"), s.handleResetToolbarPosition)
	mcpsdk.AddTool(s.mcpServer, s.tool("set_toolbar_width"), s.handleSetToolbarWidth)
	mcpsdk.AddTool(s.mcpServer, s.tool("open_about_window"), s.handleOpenAboutWindow)
	mcpsdk.AddTool(s.mcpServer, s.tool("quit_app"), s.handleQuitApp)
	mcpsdk.AddTool(s.mcpServer, s.tool("get_status"), s.handleGetStatus)
	mcpsdk.AddTool(s.mcpServer, s.tool("list_monitors"), s.handleListMonitors)
	mcpsdk.AddTool(s.mcpServer, s.tool("list_windows"), s.handleListWindows)
}

// tool builds the definition for name from the tools table.
func (s *Server) tool(name string) *mcpsdk.Tool {
	for _, t := range tools {
		if t.Name == name {
			s.registered = append(s.registered, name)
			return &mcpsdk.Tool{Name: t.Name, Description: t.Description}
		}
	}
	panic("mcp: no description for tool " + name)
}
