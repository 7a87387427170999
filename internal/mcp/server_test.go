package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/1broseidon/mira/internal/bridge"
	"github.com/1broseidon/mira/internal/geometry"
	"github.com/1broseidon/mira/internal/ipc"
	"github.com/1broseidon/mira/internal/overlay"
	"github.com/1broseidon/mira/internal/platform"
)

type fakeDaemon struct {
	err error

	passThrough *bool
	visible     *bool
	event       string
	payload     json.RawMessage
	saved       *geometry.Point
	width       float64
	resets      int
	abouts      int
	quits       int
}

func (f *fakeDaemon) SetOverlayPassthrough(passThrough bool) error {
	f.passThrough = &passThrough
	return f.err
}

func (f *fakeDaemon) SetOverlayVisible(visible bool) error {
	f.visible = &visible
	return f.err
}

func (f *fakeDaemon) EmitToOverlay(event string, payload json.RawMessage) error {
	f.event = event
	f.payload = payload
	return f.err
}

func (f *fakeDaemon) SaveToolbarPosition(x, y int32) error {
	f.saved = &geometry.Point{X: x, Y: y}
	return f.err
}

func (f *fakeDaemon) ResetToolbarPosition() error {
	f.resets++
	return f.err
}

func (f *fakeDaemon) SetToolbarWidth(width float64) error {
	f.width = width
	return f.err
}

func (f *fakeDaemon) QuitApp() error {
	f.quits++
	return f.err
}

func (f *fakeDaemon) OpenAboutWindow() error {
	f.abouts++
	return f.err
}

func (f *fakeDaemon) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.StatusData{
		UptimeSeconds: 42,
		Overlays:      []overlay.Info{{Label: "overlay", Scale: 1}},
		PollerRunning: true,
	}, nil
}

func (f *fakeDaemon) GetMonitors() (*ipc.MonitorsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.MonitorsData{Monitors: []platform.Monitor{{
		ID:          1,
		Name:        "DP-1",
		Size:        geometry.Size{Width: 1920, Height: 1080},
		ScaleFactor: 1,
	}}}, nil
}

func (f *fakeDaemon) GetWindows() (*ipc.WindowsData, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ipc.WindowsData{Windows: []bridge.WindowInfo{
		{Label: "toolbar", ID: 7, Kind: "toolbar"},
	}}, nil
}

func TestNewServerRegistersTools(t *testing.T) {
	s := NewServer(&fakeDaemon{})
	if s.mcpServer == nil {
		t.Fatal("expected underlying MCP server")
	}

	listed := Tools()
	if len(listed) != 11 {
		t.Fatalf("Tools() = %d entries, want 11", len(listed))
	}
	if len(s.registered) != len(listed) {
		t.Fatalf("registered %v, want every listed tool", s.registered)
	}
	for i, info := range listed {
		if s.registered[i] != info.Name {
			t.Fatalf("registered[%d] = %q, want %q", i, s.registered[i], info.Name)
		}
		if strings.TrimSpace(info.Description) == "" {
			t.Fatalf("tool %q has no description", info.Name)
		}
	}
}

func TestToolsReturnsCopy(t *testing.T) {
	listed := Tools()
	listed[0].Name = "changed"
	if Tools()[0].Name != "set_overlay_passthrough" {
		t.Fatal("Tools() must not expose the registration table")
	}
}

func TestStateToolsForward(t *testing.T) {
	ctx := context.Background()
	d := &fakeDaemon{}
	s := NewServer(d)

	if _, out, err := s.handleSetOverlayPassthrough(ctx, nil, SetOverlayPassthroughInput{PassThrough: true}); err != nil || !out.OK {
		t.Fatalf("set_overlay_passthrough: out=%+v err=%v", out, err)
	}
	if d.passThrough == nil || !*d.passThrough {
		t.Fatalf("passthrough not forwarded: %v", d.passThrough)
	}

	if _, _, err := s.handleSetOverlayVisible(ctx, nil, SetOverlayVisibleInput{Visible: false}); err != nil {
		t.Fatalf("set_overlay_visible: %v", err)
	}
	if d.visible == nil || *d.visible {
		t.Fatalf("visible not forwarded: %v", d.visible)
	}

	if _, _, err := s.handleSaveToolbarPosition(ctx, nil, SaveToolbarPositionInput{X: 100, Y: -20}); err != nil {
		t.Fatalf("save_toolbar_position: %v", err)
	}
	if d.saved == nil || *d.saved != (geometry.Point{X: 100, Y: -20}) {
		t.Fatalf("saved = %v", d.saved)
	}

	if _, _, err := s.handleSetToolbarWidth(ctx, nil, SetToolbarWidthInput{Width: 640}); err != nil {
		t.Fatalf("set_toolbar_width: %v", err)
	}
	if d.width != 640 {
		t.Fatalf("width = %v, want 640", d.width)
	}

	if _, _, err := s.handleResetToolbarPosition(ctx, nil, NoInput{}); err != nil {
		t.Fatalf("reset_toolbar_position: %v", err)
	}
	if _, _, err := s.handleOpenAboutWindow(ctx, nil, NoInput{}); err != nil {
		t.Fatalf("open_about_window: %v", err)
	}
	if d.resets != 1 || d.abouts != 1 {
		t.Fatalf("resets=%d abouts=%d, want 1 and 1", d.resets, d.abouts)
	}
}

func TestEmitToOverlayMarshalsPayload(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d)

	payload := map[string]any{"color": "red"}
	if _, _, err := s.handleEmitToOverlay(context.Background(), nil, EmitToOverlayInput{Event: " set-color ", Payload: payload}); err != nil {
		t.Fatalf("emit_to_overlay: %v", err)
	}
	if d.event != "set-color" {
		t.Fatalf("event = %q, want set-color", d.event)
	}
	if string(d.payload) != `{"color":"red"}` {
		t.Fatalf("payload = %s", d.payload)
	}
}

func TestEmitToOverlayWithoutPayload(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d)

	if _, _, err := s.handleEmitToOverlay(context.Background(), nil, EmitToOverlayInput{Event: "clear"}); err != nil {
		t.Fatalf("emit_to_overlay: %v", err)
	}
	if d.payload != nil {
		t.Fatalf("payload = %s, want nil", d.payload)
	}
}

func TestEmitToOverlayRequiresEvent(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d)

	if _, _, err := s.handleEmitToOverlay(context.Background(), nil, EmitToOverlayInput{Event: "  "}); err == nil {
		t.Fatal("expected error for empty event")
	}
	if d.event != "" {
		t.Fatalf("daemon should not be called, got event %q", d.event)
	}
}

func TestQuitAppReturnsText(t *testing.T) {
	d := &fakeDaemon{}
	s := NewServer(d)

	res, out, err := s.handleQuitApp(context.Background(), nil, NoInput{})
	if err != nil {
		t.Fatalf("quit_app: %v", err)
	}
	if !out.OK || d.quits != 1 {
		t.Fatalf("out=%+v quits=%d", out, d.quits)
	}
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %+v", res)
	}
}

func TestQueryTools(t *testing.T) {
	ctx := context.Background()
	s := NewServer(&fakeDaemon{})

	_, status, err := s.handleGetStatus(ctx, nil, NoInput{})
	if err != nil {
		t.Fatalf("get_status: %v", err)
	}
	if status.UptimeSeconds != 42 || !status.PollerRunning || len(status.Overlays) != 1 {
		t.Fatalf("status = %+v", status)
	}

	_, monitors, err := s.handleListMonitors(ctx, nil, NoInput{})
	if err != nil {
		t.Fatalf("list_monitors: %v", err)
	}
	if len(monitors.Monitors) != 1 || monitors.Monitors[0].Name != "DP-1" {
		t.Fatalf("monitors = %+v", monitors)
	}

	_, windows, err := s.handleListWindows(ctx, nil, NoInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(windows.Windows) != 1 || windows.Windows[0].ID != 7 {
		t.Fatalf("windows = %+v", windows)
	}
}

func TestDaemonErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	daemonErr := errors.New("failed to connect to daemon")
	s := NewServer(&fakeDaemon{err: daemonErr})

	_, _, err := s.handleSetOverlayVisible(ctx, nil, SetOverlayVisibleInput{Visible: true})
	if !errors.Is(err, daemonErr) {
		t.Fatalf("err = %v, want wrapped daemon error", err)
	}
	if !strings.HasPrefix(err.Error(), "set_overlay_visible: ") {
		t.Fatalf("err = %q, want tool name prefix", err)
	}

	if _, _, err := s.handleGetStatus(ctx, nil, NoInput{}); !errors.Is(err, daemonErr) {
		t.Fatalf("get_status err = %v", err)
	}
	if _, _, err := s.handleListMonitors(ctx, nil, NoInput{}); !errors.Is(err, daemonErr) {
		t.Fatalf("list_monitors err = %v", err)
	}
	if _, _, err := s.handleListWindows(ctx, nil, NoInput{}); !errors.Is(err, daemonErr) {
		t.Fatalf("list_windows err = %v", err)
	}
}

var _ Daemon = (*ipc.Client)(nil)
