// Package overlay owns the per-monitor overlay windows.
package overlay

import (
	"fmt"
	"sync"

	"github.com/1broseidon/mira/internal/platform"
)

// PrimaryLabel is the label of the overlay on the primary monitor.
// Secondary overlays are labelled overlay-1, overlay-2, ...
const PrimaryLabel = "overlay"

// Label returns the overlay label for the n-th monitor (0 is primary).
func Label(n int) string {
	if n == 0 {
		return PrimaryLabel
	}
	return fmt.Sprintf("%s-%d", PrimaryLabel, n)
}

// Info describes one overlay and the transform from physical screen pixels
// into its logical space. It is immutable once created.
type Info struct {
	Label    string  `json:"label"`
	MonitorX int32   `json:"monitor_x"`
	MonitorY int32   `json:"monitor_y"`
	Scale    float64 `json:"scale"`
}

// WindowOptions are the creation options for an overlay window.
func WindowOptions() platform.WindowOptions {
	return platform.WindowOptions{
		Title:       "Mira Overlay",
		Transparent: true,
		AlwaysOnTop: true,
		SkipTaskbar: true,
		// Sized to the monitor by configure.
		LogicalWidth:  1,
		LogicalHeight: 1,
	}
}

type entry struct {
	info Info
	win  platform.Window
}

// Manager is the registry of overlay windows, populated once at startup.
type Manager struct {
	tk      platform.Toolkit
	emitter platform.Emitter

	mu       sync.RWMutex
	overlays []entry
	index    map[string]int
}

// NewManager creates an empty registry.
func NewManager(tk platform.Toolkit, emitter platform.Emitter) *Manager {
	return &Manager{
		tk:      tk,
		emitter: emitter,
		index:   make(map[string]int),
	}
}

// Setup configures primaryWin over the primary monitor and creates one
// overlay for every other monitor. Monitors sharing the primary's geometry
// are skipped. Any failure aborts setup.
func (m *Manager) Setup(primaryWin platform.Window, primary platform.Monitor, available []platform.Monitor) error {
	if err := m.Attach(primaryWin, primary); err != nil {
		return err
	}

	seen := map[string]bool{primary.Key(): true}
	n := 1
	for _, mon := range available {
		if seen[mon.Key()] {
			continue
		}
		seen[mon.Key()] = true
		if _, err := m.CreateOverlayFor(Label(n), mon); err != nil {
			return err
		}
		n++
	}
	return nil
}

// CreateOverlayFor creates (or reuses) the window label and makes it an
// overlay covering mon.
func (m *Manager) CreateOverlayFor(label string, mon platform.Monitor) (platform.Window, error) {
	win, err := platform.GetOrCreate(m.tk, label, WindowOptions())
	if err != nil {
		return nil, err
	}
	if err := m.Attach(win, mon); err != nil {
		return nil, err
	}
	return win, nil
}

// Attach configures win to cover mon exactly, click-through and visible, and
// registers it.
func (m *Manager) Attach(win platform.Window, mon platform.Monitor) error {
	label := win.Label()
	if err := win.SetPhysicalSize(mon.Size); err != nil {
		return fmt.Errorf("overlay %s: %w", label, err)
	}
	if err := win.SetPosition(mon.Position); err != nil {
		return fmt.Errorf("overlay %s: %w", label, err)
	}
	if err := win.SetIgnoreCursorEvents(true); err != nil {
		return fmt.Errorf("overlay %s: %w", label, err)
	}
	if err := win.Show(); err != nil {
		return fmt.Errorf("overlay %s: %w", label, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.index[label]; dup {
		return fmt.Errorf("overlay %s already registered", label)
	}
	m.index[label] = len(m.overlays)
	m.overlays = append(m.overlays, entry{
		info: Info{
			Label:    label,
			MonitorX: mon.Position.X,
			MonitorY: mon.Position.Y,
			Scale:    mon.ScaleFactor,
		},
		win: win,
	})
	return nil
}

// SetPassthrough applies pointer passthrough to every overlay. It keeps
// going after a failure and returns the first error.
func (m *Manager) SetPassthrough(passThrough bool) error {
	return m.each(func(w platform.Window) error {
		return w.SetIgnoreCursorEvents(passThrough)
	})
}

// SetVisible shows or hides every overlay.
func (m *Manager) SetVisible(visible bool) error {
	return m.each(func(w platform.Window) error {
		if visible {
			return w.Show()
		}
		return w.Hide()
	})
}

// Emit sends event to every overlay.
func (m *Manager) Emit(event string, payload any) error {
	var first error
	for _, label := range m.Labels() {
		if err := m.emitter.Emit(label, event, payload); err != nil && first == nil {
			first = fmt.Errorf("emit %s to %s: %w", event, label, err)
		}
	}
	return first
}

func (m *Manager) each(fn func(platform.Window) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var first error
	for _, e := range m.overlays {
		if err := fn(e.win); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Labels returns overlay labels, primary first.
func (m *Manager) Labels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	labels := make([]string, len(m.overlays))
	for i, e := range m.overlays {
		labels[i] = e.info.Label
	}
	return labels
}

// Infos returns a snapshot of the overlay descriptors.
func (m *Manager) Infos() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	infos := make([]Info, len(m.overlays))
	for i, e := range m.overlays {
		infos[i] = e.info
	}
	return infos
}

// Contains reports whether label is a registered overlay.
func (m *Manager) Contains(label string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.index[label]
	return ok
}

// Len returns the number of overlays.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.overlays)
}
