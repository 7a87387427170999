package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleSetOverlayPassthrough(_ context.Context, _ *mcpsdk.CallToolRequest, args SetOverlayPassthroughInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.SetOverlayPassthrough(args.PassThrough); err != nil {
		return nil, AckOutput{}, fmt.Errorf("set_overlay_passthrough: %w", err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleSetOverlayVisible(_ context.Context, _ *mcpsdk.CallToolRequest, args SetOverlayVisibleInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.SetOverlayVisible(args.Visible); err != nil {
		return nil, AckOutput{}, fmt.Errorf("set_overlay_visible: %w", err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleEmitToOverlay(_ context.Context, _ *mcpsdk.CallToolRequest, args EmitToOverlayInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	event := strings.TrimSpace(args.Event)
	if event == "" {
		return nil, AckOutput{}, fmt.Errorf("emit_to_overlay: event is required")
	}

	var payload json.RawMessage
	if args.Payload != nil {
		data, err := json.Marshal(args.Payload)
		if err != nil {
			return nil, AckOutput{}, fmt.Errorf("emit_to_overlay: invalid payload: %w", err)
		}
		payload = data
	}

	if err := s.daemon.EmitToOverlay(event, payload); err != nil {
		return nil, AckOutput{}, fmt.Errorf("emit_to_overlay: %w", err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleSaveToolbarPosition(_ context.Context, _ *mcpsdk.CallToolRequest, args SaveToolbarPositionInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.SaveToolbarPosition(args.X, args.Y); err != nil {
		return nil, AckOutput{}, fmt.Errorf("save_toolbar_position: %w", err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleResetToolbarPosition(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.ResetToolbarPosition(); err != nil {
		return nil, AckOutput{}, fmt.Errorf("reset_toolbar_position: %w", err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleSetToolbarWidth(_ context.Context, _ *mcpsdk.CallToolRequest, args SetToolbarWidthInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.SetToolbarWidth(args.Width); err != nil {
		return nil, AckOutput{}, fmt.Errorf("set_toolbar_width: %w", err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleOpenAboutWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.OpenAboutWindow(); err != nil {
		return nil, AckOutput{}, fmt.Errorf("open_about_window: %w", err)
	}
	return nil, AckOutput{OK: true}, nil
}

func (s *Server) handleQuitApp(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, AckOutput, error) {
	if err := s.daemon.QuitApp(); err != nil {
		return nil, AckOutput{}, fmt.Errorf("quit_app: %w", err)
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "mira is shutting down"}},
	}, AckOutput{OK: true}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("get_status: %w", err)
	}
	return nil, StatusOutput{
		UptimeSeconds:    status.UptimeSeconds,
		Overlays:         status.Overlays,
		PollerRunning:    status.PollerRunning,
		ShortcutsEnabled: status.ShortcutsEnabled,
		DroppedEvents:    status.DroppedEvents,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, fmt.Errorf("list_monitors: %w", err)
	}
	return nil, ListMonitorsOutput{Monitors: data.Monitors}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ NoInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.daemon.GetWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}
	return nil, ListWindowsOutput{Windows: data.Windows}, nil
}
