package mcp

import (
	"github.com/1broseidon/mira/internal/bridge"
	"github.com/1broseidon/mira/internal/overlay"
	"github.com/1broseidon/mira/internal/platform"
)

// SetOverlayPassthroughInput is the input for the set_overlay_passthrough tool.
type SetOverlayPassthroughInput struct {
	PassThrough bool `json:"pass_through" jsonschema:"required,true to let mouse input fall through the overlays"`
}

// SetOverlayVisibleInput is the input for the set_overlay_visible tool.
type SetOverlayVisibleInput struct {
	Visible bool `json:"visible" jsonschema:"required,true to show the overlays, false to hide them"`
}

// EmitToOverlayInput is the input for the emit_to_overlay tool.
type EmitToOverlayInput struct {
	Event   string `json:"event" jsonschema:"required,Event name delivered to the overlays"`
	Payload any    `json:"payload,omitempty" jsonschema:"Optional JSON payload"`
}

// SaveToolbarPositionInput is the input for the save_toolbar_position tool.
type SaveToolbarPositionInput struct {
	X int32 `json:"x" jsonschema:"required,Physical x of the toolbar's top-left corner"`
	Y int32 `json:"y" jsonschema:"required,Physical y of the toolbar's top-left corner"`
}

// SetToolbarWidthInput is the input for the set_toolbar_width tool.
type SetToolbarWidthInput struct {
	Width float64 `json:"width" jsonschema:"required,Logical toolbar width"`
}

// NoInput is used by tools that take no arguments.
type NoInput struct{}

// AckOutput is returned by tools that only change state.
type AckOutput struct {
	OK bool `json:"ok"`
}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	UptimeSeconds    int64          `json:"uptime_seconds"`
	Overlays         []overlay.Info `json:"overlays"`
	PollerRunning    bool           `json:"poller_running"`
	ShortcutsEnabled bool           `json:"shortcuts_enabled"`
	DroppedEvents    uint64         `json:"dropped_events"`
}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []platform.Monitor `json:"monitors"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []bridge.WindowInfo `json:"windows"`
}
