// Package bridge implements the commands the front end invokes on the daemon.
// Every command runs under one lock, so window mutations are serialized.
package bridge

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/1broseidon/mira/internal/overlay"
	"github.com/1broseidon/mira/internal/platform"
	"github.com/1broseidon/mira/internal/toolbar"
)

// AboutLabel is the label of the informational window.
const AboutLabel = "about"

// AboutWindowOptions are the creation options for the about window.
func AboutWindowOptions() platform.WindowOptions {
	return platform.WindowOptions{
		Title:            "About Mira",
		Decorated:        true,
		Resizable:        true,
		Visible:          true,
		LogicalWidth:     520,
		LogicalHeight:    560,
		MinLogicalWidth:  460,
		MinLogicalHeight: 480,
	}
}

// DropCounter reports events lost to full subscriber queues.
type DropCounter interface {
	Dropped() uint64
}

// Status is a snapshot of the daemon state.
type Status struct {
	UptimeSeconds    int64          `json:"uptime_seconds"`
	Overlays         []overlay.Info `json:"overlays"`
	PollerRunning    bool           `json:"poller_running"`
	ShortcutsEnabled bool           `json:"shortcuts_enabled"`
	DroppedEvents    uint64         `json:"dropped_events"`
}

// WindowInfo maps a window label to its native id so a renderer can attach.
type WindowInfo struct {
	Label string `json:"label"`
	ID    uint32 `json:"id"`
	Kind  string `json:"kind"`
}

// Bridge holds the collaborators the commands act on.
type Bridge struct {
	mu       sync.Mutex
	tk       platform.Toolkit
	overlays *overlay.Manager
	toolbar  *toolbar.Controller
	drops    DropCounter
	started  time.Time

	pollerRunning    atomic.Bool
	shortcutsEnabled atomic.Bool
}

// New creates a bridge. drops may be nil.
func New(tk platform.Toolkit, overlays *overlay.Manager, tb *toolbar.Controller, drops DropCounter) *Bridge {
	return &Bridge{
		tk:       tk,
		overlays: overlays,
		toolbar:  tb,
		drops:    drops,
		started:  time.Now(),
	}
}

// MarkPollerRunning records that the cursor poller has been started.
func (b *Bridge) MarkPollerRunning() { b.pollerRunning.Store(true) }

// SetShortcutsEnabled records whether global shortcuts were registered.
func (b *Bridge) SetShortcutsEnabled(enabled bool) { b.shortcutsEnabled.Store(enabled) }

// SetOverlayPassthrough makes every overlay click-through (true) or
// capture pointer input for drawing (false).
func (b *Bridge) SetOverlayPassthrough(passThrough bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlays.SetPassthrough(passThrough)
}

// SetOverlayVisible shows or hides every overlay.
func (b *Bridge) SetOverlayVisible(visible bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlays.SetVisible(visible)
}

// EmitToOverlay relays an event from the toolbar to every overlay.
func (b *Bridge) EmitToOverlay(event string, payload json.RawMessage) error {
	if strings.TrimSpace(event) == "" {
		return fmt.Errorf("event name is required")
	}
	var p any
	if len(payload) > 0 {
		if !json.Valid(payload) {
			return fmt.Errorf("payload for %s is not valid JSON", event)
		}
		p = payload
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.overlays.Emit(event, p)
}

// SaveToolbarPosition persists the toolbar position.
func (b *Bridge) SaveToolbarPosition(x, y int32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.toolbar.SavePosition(x, y)
}

// ResetToolbarPosition moves the toolbar to its default position and
// deletes the saved one.
func (b *Bridge) ResetToolbarPosition() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.toolbar.ResetPosition()
	return err
}

// SetToolbarWidth resizes the toolbar to a logical width.
func (b *Bridge) SetToolbarWidth(width float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.toolbar.SetWidth(width)
	return err
}

// QuitApp terminates the process with exit code 0.
func (b *Bridge) QuitApp() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tk.Exit(0)
}

// OpenAboutWindow focuses the about window, creating it if needed.
func (b *Bridge) OpenAboutWindow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w, ok := b.tk.Window(AboutLabel); ok {
		if err := w.Show(); err != nil {
			return err
		}
		return w.SetFocus()
	}

	w, err := b.tk.CreateWindow(AboutLabel, AboutWindowOptions())
	if err != nil {
		return fmt.Errorf("create about window: %w", err)
	}
	return w.SetFocus()
}

// Status reports the daemon state.
func (b *Bridge) Status() Status {
	st := Status{
		UptimeSeconds:    int64(time.Since(b.started).Seconds()),
		Overlays:         b.overlays.Infos(),
		PollerRunning:    b.pollerRunning.Load(),
		ShortcutsEnabled: b.shortcutsEnabled.Load(),
	}
	if b.drops != nil {
		st.DroppedEvents = b.drops.Dropped()
	}
	return st
}

// Monitors lists the enumerated monitors.
func (b *Bridge) Monitors() ([]platform.Monitor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tk.AvailableMonitors()
}

// Windows lists the daemon's windows: overlays first, then toolbar and
// about when they exist.
func (b *Bridge) Windows() []WindowInfo {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []WindowInfo
	for _, label := range b.overlays.Labels() {
		if w, ok := b.tk.Window(label); ok {
			out = append(out, WindowInfo{Label: label, ID: w.ID(), Kind: "overlay"})
		}
	}
	for _, label := range []string{toolbar.Label, AboutLabel} {
		if w, ok := b.tk.Window(label); ok {
			out = append(out, WindowInfo{Label: label, ID: w.ID(), Kind: label})
		}
	}
	return out
}
