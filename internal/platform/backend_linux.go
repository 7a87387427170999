//go:build linux

package platform

import (
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/1broseidon/mira/internal/geometry"
	"github.com/1broseidon/mira/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxToolkit wraps an existing X11 connection behind the Toolkit interface.
type LinuxToolkit struct {
	conn  *x11.Connection
	scale float64

	mu      sync.Mutex
	windows map[string]*linuxWindow
	onExit  []func()
}

var _ Toolkit = (*LinuxToolkit)(nil)

// NewLinuxToolkit creates a toolkit on conn. A positive scaleOverride replaces
// the Xft.dpi derived scale factor.
func NewLinuxToolkit(conn *x11.Connection, scaleOverride float64) *LinuxToolkit {
	scale := scaleOverride
	if scale <= 0 {
		scale = conn.ScaleFactor()
	}
	return &LinuxToolkit{
		conn:    conn,
		scale:   scale,
		windows: make(map[string]*linuxWindow),
	}
}

// Connection returns the underlying X11 connection.
func (t *LinuxToolkit) Connection() *x11.Connection {
	return t.conn
}

// OnExit registers fn to run before the process exits via Exit.
func (t *LinuxToolkit) OnExit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onExit = append(t.onExit, fn)
}

// Exit runs the exit hooks, closes the X11 connection and exits.
func (t *LinuxToolkit) Exit(code int) {
	t.mu.Lock()
	hooks := append([]func(){}, t.onExit...)
	t.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	t.conn.Close()
	os.Exit(code)
}

// AvailableMonitors returns every active monitor, primary included.
func (t *LinuxToolkit) AvailableMonitors() ([]Monitor, error) {
	monitors, err := t.conn.GetMonitors()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoMonitor, err)
	}
	out := make([]Monitor, 0, len(monitors))
	for _, m := range monitors {
		out = append(out, t.monitorFrom(m))
	}
	return out, nil
}

// PrimaryMonitor returns the RandR primary monitor.
func (t *LinuxToolkit) PrimaryMonitor() (Monitor, error) {
	m, err := t.conn.GetPrimaryMonitor()
	if err != nil {
		return Monitor{}, fmt.Errorf("%w: %v", ErrNoMonitor, err)
	}
	return t.monitorFrom(*m), nil
}

// CursorPosition samples the global pointer position.
func (t *LinuxToolkit) CursorPosition() (CursorPosition, error) {
	x, y, err := t.conn.PointerPosition()
	if err != nil {
		return CursorPosition{}, err
	}
	return CursorPosition{X: float64(x), Y: float64(y)}, nil
}

// Window looks up a window created by this toolkit.
func (t *LinuxToolkit) Window(label string) (Window, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[label]
	if !ok {
		return nil, false
	}
	return w, true
}

// CreateWindow creates a window centered on the primary monitor's work area.
func (t *LinuxToolkit) CreateWindow(label string, opts WindowOptions) (Window, error) {
	t.mu.Lock()
	_, exists := t.windows[label]
	t.mu.Unlock()
	if exists {
		return nil, fmt.Errorf("window %q already exists", label)
	}

	width := physical(opts.LogicalWidth, t.scale)
	height := physical(opts.LogicalHeight, t.scale)
	spec := x11.WindowSpec{
		Title:       opts.Title,
		WindowType:  x11.WindowTypeUtility,
		Width:       width,
		Height:      height,
		MinWidth:    physical(opts.MinLogicalWidth, t.scale),
		MinHeight:   physical(opts.MinLogicalHeight, t.scale),
		Decorated:   opts.Decorated,
		Transparent: opts.Transparent,
		Resizable:   opts.Resizable,
		AlwaysOnTop: opts.AlwaysOnTop,
		SkipTaskbar: opts.SkipTaskbar,
	}
	if opts.Decorated {
		spec.WindowType = x11.WindowTypeNormal
	}
	if primary, err := t.PrimaryMonitor(); err == nil {
		wa := primary.WorkArea
		spec.X = int(wa.X) + (int(wa.Width)-width)/2
		spec.Y = int(wa.Y) + (int(wa.Height)-height)/2
	}

	wid, err := t.conn.CreateWindow(spec)
	if err != nil {
		return nil, err
	}
	w := &linuxWindow{
		tk:        t,
		label:     label,
		id:        wid,
		resizable: opts.Resizable,
		size:      geometry.Size{Width: int32(width), Height: int32(height)},
	}
	if opts.Visible {
		if err := w.Show(); err != nil {
			_ = t.conn.DestroyWindow(wid)
			return nil, err
		}
	}

	t.mu.Lock()
	t.windows[label] = w
	t.mu.Unlock()
	return w, nil
}

func (t *LinuxToolkit) monitorFrom(m x11.Monitor) Monitor {
	return Monitor{
		ID:          m.ID,
		Name:        m.Name,
		Position:    geometry.Point{X: int32(m.Bounds.X), Y: int32(m.Bounds.Y)},
		Size:        geometry.Size{Width: int32(m.Bounds.Width), Height: int32(m.Bounds.Height)},
		ScaleFactor: t.scale,
		WorkArea: geometry.Rect{
			X:      int32(m.WorkArea.X),
			Y:      int32(m.WorkArea.Y),
			Width:  int32(m.WorkArea.Width),
			Height: int32(m.WorkArea.Height),
		},
	}
}

func physical(logical, scale float64) int {
	return int(math.Round(logical * scale))
}

type linuxWindow struct {
	tk        *LinuxToolkit
	label     string
	id        xproto.Window
	resizable bool
	size      geometry.Size
}

func (w *linuxWindow) Label() string { return w.label }

func (w *linuxWindow) ID() uint32 { return uint32(w.id) }

func (w *linuxWindow) SetPhysicalSize(size geometry.Size) error {
	if err := w.tk.conn.ResizeWindow(w.id, int(size.Width), int(size.Height), w.resizable); err != nil {
		return fmt.Errorf("resize %s: %w", w.label, err)
	}
	w.size = size
	return nil
}

func (w *linuxWindow) SetLogicalSize(width, height float64) error {
	scale := w.tk.scale
	if m, err := w.CurrentMonitor(); err == nil {
		scale = m.ScaleFactor
	}
	return w.SetPhysicalSize(geometry.Size{
		Width:  int32(physical(width, scale)),
		Height: int32(physical(height, scale)),
	})
}

func (w *linuxWindow) SetPosition(pos geometry.Point) error {
	if err := w.tk.conn.MoveWindow(w.id, int(pos.X), int(pos.Y)); err != nil {
		return fmt.Errorf("move %s: %w", w.label, err)
	}
	return nil
}

func (w *linuxWindow) OuterPosition() (geometry.Point, error) {
	x, y, err := w.tk.conn.OuterPosition(w.id)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("outer position of %s: %w", w.label, err)
	}
	return geometry.Point{X: int32(x), Y: int32(y)}, nil
}

// CurrentMonitor resolves the monitor containing the window's center.
func (w *linuxWindow) CurrentMonitor() (Monitor, error) {
	pos, err := w.OuterPosition()
	if err != nil {
		return Monitor{}, err
	}
	monitors, err := w.tk.AvailableMonitors()
	if err != nil {
		return Monitor{}, err
	}
	center := geometry.Point{X: pos.X + w.size.Width/2, Y: pos.Y + w.size.Height/2}
	if m, err := MonitorAt(monitors, center); err == nil {
		return m, nil
	}
	return MonitorAt(monitors, pos)
}

func (w *linuxWindow) SetIgnoreCursorEvents(ignore bool) error {
	if err := w.tk.conn.SetInputPassthrough(w.id, ignore); err != nil {
		return fmt.Errorf("set input passthrough on %s: %w", w.label, err)
	}
	return nil
}

func (w *linuxWindow) SetAlwaysOnTop(onTop bool) error {
	if err := w.tk.conn.SetAbove(w.id, onTop); err != nil {
		return fmt.Errorf("set always-on-top on %s: %w", w.label, err)
	}
	return nil
}

func (w *linuxWindow) Show() error {
	if err := w.tk.conn.MapWindow(w.id); err != nil {
		return fmt.Errorf("show %s: %w", w.label, err)
	}
	return nil
}

func (w *linuxWindow) Hide() error {
	if err := w.tk.conn.UnmapWindow(w.id); err != nil {
		return fmt.Errorf("hide %s: %w", w.label, err)
	}
	return nil
}

func (w *linuxWindow) SetFocus() error {
	if err := w.tk.conn.ActivateWindow(w.id); err != nil {
		return fmt.Errorf("focus %s: %w", w.label, err)
	}
	return nil
}
