// Package platformtest provides an in-memory platform.Toolkit for tests.
package platformtest

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/1broseidon/mira/internal/geometry"
	"github.com/1broseidon/mira/internal/platform"
)

// Toolkit is a fake platform.Toolkit. Monitors[0] is the primary unless
// NoMonitor is set.
type Toolkit struct {
	mu sync.Mutex

	Monitors  []platform.Monitor
	NoMonitor bool
	// Cursor samples are returned in order; the last one repeats.
	Cursor    []platform.CursorPosition
	CursorErr error
	// CreateErr makes CreateWindow fail for the given labels.
	CreateErr map[string]error

	ExitCode int
	Exited   bool

	windows map[string]*Window
	created []string
	cursorN int
}

var _ platform.Toolkit = (*Toolkit)(nil)

// New returns a fake with the given monitors.
func New(monitors ...platform.Monitor) *Toolkit {
	return &Toolkit{Monitors: monitors, windows: make(map[string]*Window)}
}

// Monitor builds a monitor whose work area equals its bounds.
func Monitor(x, y, w, h int32, scale float64) platform.Monitor {
	return platform.Monitor{
		Name:        fmt.Sprintf("fake-%d-%d", x, y),
		Position:    geometry.Point{X: x, Y: y},
		Size:        geometry.Size{Width: w, Height: h},
		ScaleFactor: scale,
		WorkArea:    geometry.Rect{X: x, Y: y, Width: w, Height: h},
	}
}

func (t *Toolkit) PrimaryMonitor() (platform.Monitor, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.NoMonitor || len(t.Monitors) == 0 {
		return platform.Monitor{}, platform.ErrNoMonitor
	}
	return t.Monitors[0], nil
}

func (t *Toolkit) AvailableMonitors() ([]platform.Monitor, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.NoMonitor {
		return nil, platform.ErrNoMonitor
	}
	return append([]platform.Monitor(nil), t.Monitors...), nil
}

func (t *Toolkit) CursorPosition() (platform.CursorPosition, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.CursorErr != nil {
		return platform.CursorPosition{}, t.CursorErr
	}
	if len(t.Cursor) == 0 {
		return platform.CursorPosition{}, errors.New("no cursor samples")
	}
	i := min(t.cursorN, len(t.Cursor)-1)
	t.cursorN++
	return t.Cursor[i], nil
}

func (t *Toolkit) Window(label string) (platform.Window, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	w, ok := t.windows[label]
	if !ok {
		return nil, false
	}
	return w, true
}

// Fake returns the concrete fake window for label, or nil.
func (t *Toolkit) Fake(label string) *Window {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.windows[label]
}

// Add registers a pre-existing window, as if declared in the app config.
func (t *Toolkit) Add(label string) *Window {
	t.mu.Lock()
	defer t.mu.Unlock()
	w := &Window{tk: t, label: label, id: uint32(len(t.windows) + 1)}
	t.windows[label] = w
	return w
}

func (t *Toolkit) CreateWindow(label string, opts platform.WindowOptions) (platform.Window, error) {
	t.mu.Lock()
	if err := t.CreateErr[label]; err != nil {
		t.mu.Unlock()
		return nil, err
	}
	if _, ok := t.windows[label]; ok {
		t.mu.Unlock()
		return nil, fmt.Errorf("window %q already exists", label)
	}
	scale := 1.0
	if len(t.Monitors) > 0 {
		scale = t.Monitors[0].ScaleFactor
	}
	w := &Window{
		tk:      t,
		label:   label,
		id:      uint32(len(t.windows) + 1),
		Options: opts,
		Visible: opts.Visible,
		OnTop:   opts.AlwaysOnTop,
		Size: geometry.Size{
			Width:  int32(math.Round(opts.LogicalWidth * scale)),
			Height: int32(math.Round(opts.LogicalHeight * scale)),
		},
	}
	t.windows[label] = w
	t.created = append(t.created, label)
	t.mu.Unlock()
	return w, nil
}

// Created lists labels passed to CreateWindow, in order.
func (t *Toolkit) Created() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.created...)
}

func (t *Toolkit) Exit(code int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Exited = true
	t.ExitCode = code
}

// Window is a fake platform.Window recording every mutation.
type Window struct {
	tk    *Toolkit
	label string
	id    uint32

	Options      platform.WindowOptions
	Position     geometry.Point
	Size         geometry.Size
	IgnoreCursor bool
	Visible      bool
	OnTop        bool
	Focused      bool
	// OnTopCalls records every SetAlwaysOnTop argument.
	OnTopCalls []bool
	// Fail makes every mutating call return this error.
	Fail error
}

func (w *Window) Label() string { return w.label }

func (w *Window) ID() uint32 { return w.id }

func (w *Window) SetPhysicalSize(size geometry.Size) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Size = size
	return nil
}

func (w *Window) SetLogicalSize(width, height float64) error {
	scale := 1.0
	if m, err := w.CurrentMonitor(); err == nil {
		scale = m.ScaleFactor
	}
	return w.SetPhysicalSize(geometry.Size{
		Width:  int32(math.Round(width * scale)),
		Height: int32(math.Round(height * scale)),
	})
}

func (w *Window) SetPosition(pos geometry.Point) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Position = pos
	return nil
}

func (w *Window) OuterPosition() (geometry.Point, error) {
	return w.Position, nil
}

func (w *Window) CurrentMonitor() (platform.Monitor, error) {
	monitors, err := w.tk.AvailableMonitors()
	if err != nil {
		return platform.Monitor{}, err
	}
	return platform.MonitorAt(monitors, w.Position)
}

func (w *Window) SetIgnoreCursorEvents(ignore bool) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.IgnoreCursor = ignore
	return nil
}

func (w *Window) SetAlwaysOnTop(onTop bool) error {
	if w.Fail != nil {
		return w.Fail
	}
	w.OnTop = onTop
	w.OnTopCalls = append(w.OnTopCalls, onTop)
	return nil
}

func (w *Window) Show() error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Visible = true
	return nil
}

func (w *Window) Hide() error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Visible = false
	return nil
}

func (w *Window) SetFocus() error {
	if w.Fail != nil {
		return w.Fail
	}
	w.Focused = true
	return nil
}

// Event is one recorded emission.
type Event struct {
	Label   string
	Event   string
	Payload any
}

// Recorder is a platform.Emitter that records emissions.
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

func (r *Recorder) Emit(label, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Event{Label: label, Event: event, Payload: payload})
	return nil
}

// Events returns a copy of the recorded emissions.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Reset discards recorded emissions.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
