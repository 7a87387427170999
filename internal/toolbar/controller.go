// Package toolbar positions, sizes and persists the floating toolbar window.
package toolbar

import (
	"fmt"

	"github.com/1broseidon/mira/internal/geometry"
	"github.com/1broseidon/mira/internal/platform"
	"github.com/1broseidon/mira/internal/position"
)

// Label is the toolbar window label.
const Label = "toolbar"

// WindowOptions are the creation options for the toolbar window.
func WindowOptions() platform.WindowOptions {
	return platform.WindowOptions{
		Title:         "Mira",
		Transparent:   true,
		AlwaysOnTop:   true,
		SkipTaskbar:   true,
		Visible:       true,
		LogicalWidth:  geometry.ToolbarDefaultWidth,
		LogicalHeight: geometry.ToolbarHeight,
	}
}

// Controller drives the toolbar window.
type Controller struct {
	tk    platform.Toolkit
	store *position.Store
}

// NewController creates a controller persisting through store.
func NewController(tk platform.Toolkit, store *position.Store) *Controller {
	return &Controller{tk: tk, store: store}
}

func (c *Controller) window() (platform.Window, error) {
	w, ok := c.tk.Window(Label)
	if !ok {
		return nil, fmt.Errorf("%s: %w", Label, platform.ErrWindowNotFound)
	}
	return w, nil
}

// monitor returns the toolbar's current monitor, falling back to the primary.
func (c *Controller) monitor(w platform.Window) (platform.Monitor, error) {
	if m, err := w.CurrentMonitor(); err == nil {
		return m, nil
	}
	m, err := c.tk.PrimaryMonitor()
	if err != nil {
		return platform.Monitor{}, fmt.Errorf("toolbar monitor: %w", err)
	}
	return m, nil
}

// Place positions the toolbar on primary at startup: the saved position
// clamped into the work area if there is one, the default otherwise.
func (c *Controller) Place(primary platform.Monitor) (geometry.Point, error) {
	w, err := c.window()
	if err != nil {
		return geometry.Point{}, err
	}
	pos := InitialPosition(c.store, primary)
	if err := c.apply(w, pos); err != nil {
		return geometry.Point{}, err
	}
	return pos, nil
}

// InitialPosition computes the startup toolbar position on mon.
func InitialPosition(store *position.Store, mon platform.Monitor) geometry.Point {
	if saved, ok := store.Load(); ok {
		return clampInto(saved.Point(), mon)
	}
	return defaultPosition(mon)
}

// defaultPosition centers the toolbar near the top of mon's work area. On a
// work area narrower than the toolbar the centering offset goes negative, so
// the result is clamped like any other position.
func defaultPosition(mon platform.Monitor) geometry.Point {
	return clampInto(geometry.DefaultToolbarPosition(mon.WorkArea, mon.ScaleFactor), mon)
}

func clampInto(p geometry.Point, mon platform.Monitor) geometry.Point {
	foot := geometry.ToolbarFootprint(geometry.ToolbarDefaultWidth, mon.ScaleFactor)
	return geometry.Clamp(p, mon.WorkArea, foot.Width, foot.Height)
}

// SetWidth resizes the toolbar to the clamped logical width, re-clamps its
// position against the new footprint and persists the result.
func (c *Controller) SetWidth(width float64) (geometry.Point, error) {
	w, err := c.window()
	if err != nil {
		return geometry.Point{}, err
	}
	mon, err := c.monitor(w)
	if err != nil {
		return geometry.Point{}, err
	}

	clamped := geometry.ClampToolbarWidth(width)
	foot := geometry.ToolbarFootprint(clamped, mon.ScaleFactor)
	if err := w.SetLogicalSize(clamped, geometry.ToolbarHeight); err != nil {
		return geometry.Point{}, err
	}

	cur, err := w.OuterPosition()
	if err != nil {
		return geometry.Point{}, err
	}
	pos := geometry.Clamp(cur, mon.WorkArea, foot.Width, foot.Height)
	if err := c.apply(w, pos); err != nil {
		return geometry.Point{}, err
	}
	if err := c.store.Save(position.FromPoint(pos)); err != nil {
		return pos, fmt.Errorf("save toolbar position: %w", err)
	}
	return pos, nil
}

// ResetPosition moves the toolbar to its default position and forgets the
// saved one.
func (c *Controller) ResetPosition() (geometry.Point, error) {
	w, err := c.window()
	if err != nil {
		return geometry.Point{}, err
	}
	mon, err := c.monitor(w)
	if err != nil {
		return geometry.Point{}, err
	}

	pos := defaultPosition(mon)
	if err := c.apply(w, pos); err != nil {
		return geometry.Point{}, err
	}
	_ = c.store.Delete()
	return pos, nil
}

// SavePosition persists a position reported by the front end after a drag.
func (c *Controller) SavePosition(x, y int32) error {
	if err := c.store.Save(position.Position{X: x, Y: y}); err != nil {
		return fmt.Errorf("save toolbar position: %w", err)
	}
	return nil
}

// Raise re-asserts always-on-top so the toolbar stacks above the overlays,
// which are also always-on-top. The most recently set window wins ties.
func (c *Controller) Raise() error {
	w, err := c.window()
	if err != nil {
		return err
	}
	return raise(w)
}

func (c *Controller) apply(w platform.Window, pos geometry.Point) error {
	if err := w.SetPosition(pos); err != nil {
		return err
	}
	return raise(w)
}

func raise(w platform.Window) error {
	if err := w.SetAlwaysOnTop(false); err != nil {
		return err
	}
	return w.SetAlwaysOnTop(true)
}
