package platform

import (
	"errors"
	"fmt"

	"github.com/1broseidon/mira/internal/geometry"
)

var (
	// ErrWindowNotFound is returned when a labelled window does not exist.
	ErrWindowNotFound = errors.New("window not found")
	// ErrNoMonitor is returned when no monitor can be resolved.
	ErrNoMonitor = errors.New("no monitor available")
)

// Monitor describes a physical display. Position and Size are physical
// pixels; WorkArea excludes docks and panels.
type Monitor struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Position    geometry.Point `json:"position"`
	Size        geometry.Size  `json:"size"`
	ScaleFactor float64        `json:"scale_factor"`
	WorkArea    geometry.Rect  `json:"work_area"`
}

// Bounds returns the full physical rectangle of the monitor.
func (m Monitor) Bounds() geometry.Rect {
	return geometry.Rect{X: m.Position.X, Y: m.Position.Y, Width: m.Size.Width, Height: m.Size.Height}
}

// Key identifies a monitor for deduplication.
func (m Monitor) Key() string {
	return fmt.Sprintf("%d,%d,%d,%d", m.Position.X, m.Position.Y, m.Size.Width, m.Size.Height)
}

// CursorPosition is a global cursor sample in physical pixels.
type CursorPosition struct {
	X float64
	Y float64
}

// WindowOptions configures a newly created window. Logical sizes are
// multiplied by the scale factor of the monitor the window lands on.
type WindowOptions struct {
	Title            string
	Decorated        bool
	Transparent      bool
	AlwaysOnTop      bool
	SkipTaskbar      bool
	Resizable        bool
	Visible          bool
	LogicalWidth     float64
	LogicalHeight    float64
	MinLogicalWidth  float64
	MinLogicalHeight float64
}

// Window is a top-level window owned by the daemon.
type Window interface {
	Label() string
	// ID is the native window handle (an X11 window id on Linux).
	ID() uint32
	SetPhysicalSize(size geometry.Size) error
	SetLogicalSize(width, height float64) error
	SetPosition(pos geometry.Point) error
	OuterPosition() (geometry.Point, error)
	// CurrentMonitor returns ErrNoMonitor when the window is off-screen.
	CurrentMonitor() (Monitor, error)
	SetIgnoreCursorEvents(ignore bool) error
	SetAlwaysOnTop(onTop bool) error
	Show() error
	Hide() error
	SetFocus() error
}

// Toolkit abstracts the windowing system collaborator.
type Toolkit interface {
	PrimaryMonitor() (Monitor, error)
	AvailableMonitors() ([]Monitor, error)
	CursorPosition() (CursorPosition, error)
	Window(label string) (Window, bool)
	CreateWindow(label string, opts WindowOptions) (Window, error)
	// Exit terminates the process with the given code.
	Exit(code int)
}

// Emitter delivers a named event to the front end of one window label.
// Implementations must be safe for concurrent use.
type Emitter interface {
	Emit(label, event string, payload any) error
}

// GetOrCreate returns the window registered under label, creating it with
// opts if it does not exist yet.
func GetOrCreate(tk Toolkit, label string, opts WindowOptions) (Window, error) {
	if w, ok := tk.Window(label); ok {
		return w, nil
	}
	w, err := tk.CreateWindow(label, opts)
	if err != nil {
		return nil, fmt.Errorf("create window %q: %w", label, err)
	}
	return w, nil
}

// MonitorAt returns the monitor whose bounds contain p.
func MonitorAt(monitors []Monitor, p geometry.Point) (Monitor, error) {
	for _, m := range monitors {
		if m.Bounds().Contains(p) {
			return m, nil
		}
	}
	return Monitor{}, ErrNoMonitor
}
