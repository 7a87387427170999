package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/mira/internal/bridge"
	"github.com/1broseidon/mira/internal/platform"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandSetOverlayPassthrough CommandType = "SET_OVERLAY_PASSTHROUGH"
	CommandSetOverlayVisible     CommandType = "SET_OVERLAY_VISIBLE"
	CommandEmitToOverlay         CommandType = "EMIT_TO_OVERLAY"
	CommandSaveToolbarPosition   CommandType = "SAVE_TOOLBAR_POSITION"
	CommandResetToolbarPosition  CommandType = "RESET_TOOLBAR_POSITION"
	CommandSetToolbarWidth       CommandType = "SET_TOOLBAR_WIDTH"
	CommandQuitApp               CommandType = "QUIT_APP"
	CommandOpenAboutWindow       CommandType = "OPEN_ABOUT_WINDOW"
	CommandGetStatus             CommandType = "GET_STATUS"
	CommandGetMonitors           CommandType = "GET_MONITORS"
	CommandGetWindows            CommandType = "GET_WINDOWS"
	// CommandSubscribe turns the connection into an event stream for one
	// window label.
	CommandSubscribe CommandType = "SUBSCRIBE"
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

type PassthroughPayload struct {
	PassThrough *bool `json:"pass_through"`
}

type VisiblePayload struct {
	Visible *bool `json:"visible"`
}

type EmitPayload struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ToolbarPositionPayload struct {
	X *int32 `json:"x"`
	Y *int32 `json:"y"`
}

type ToolbarWidthPayload struct {
	Width *float64 `json:"width"`
}

type SubscribePayload struct {
	Label string `json:"label"`
}

// StatusData is returned by GET_STATUS.
type StatusData = bridge.Status

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []platform.Monitor `json:"monitors"`
}

// WindowsData is returned by GET_WINDOWS.
type WindowsData struct {
	Windows []bridge.WindowInfo `json:"windows"`
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

func decodePayload(payload json.RawMessage, out any) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
