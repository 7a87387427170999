package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ErrNoShape is returned when input passthrough is requested on a server
// without the SHAPE extension.
var ErrNoShape = errors.New("x11: SHAPE extension unavailable")

// EWMH window types used for host windows.
const (
	WindowTypeUtility = "_NET_WM_WINDOW_TYPE_UTILITY"
	WindowTypeNormal  = "_NET_WM_WINDOW_TYPE_NORMAL"
)

// WindowSpec describes a top-level window created by the daemon. Sizes are in
// physical pixels.
type WindowSpec struct {
	Title       string
	WindowType  string
	X, Y        int
	Width       int
	Height      int
	MinWidth    int
	MinHeight   int
	Decorated   bool
	Transparent bool
	Resizable   bool
	AlwaysOnTop bool
	SkipTaskbar bool
}

// CreateWindow creates (but does not map) a top-level window. Transparent
// windows get a 32-bit ARGB visual when the screen offers one.
func (c *Connection) CreateWindow(spec WindowSpec) (xproto.Window, error) {
	conn := c.XUtil.Conn()
	screen := c.XUtil.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	depth := screen.RootDepth
	visual := screen.RootVisual
	colormap := screen.DefaultColormap
	background := screen.BlackPixel
	if spec.Transparent {
		if argb, ok := c.argbVisual(); ok {
			cmap, err := xproto.NewColormapId(conn)
			if err != nil {
				return 0, fmt.Errorf("failed to allocate colormap id: %w", err)
			}
			if err := xproto.CreateColormapChecked(conn, xproto.ColormapAllocNone, cmap, c.Root, argb).Check(); err != nil {
				return 0, fmt.Errorf("failed to create ARGB colormap: %w", err)
			}
			depth = 32
			visual = argb
			colormap = cmap
			background = 0
		}
	}

	mask := uint32(xproto.CwBackPixel | xproto.CwBorderPixel | xproto.CwEventMask | xproto.CwColormap)
	values := []uint32{
		background,
		0,
		uint32(xproto.EventMaskStructureNotify | xproto.EventMaskExposure),
		uint32(colormap),
	}
	err = xproto.CreateWindowChecked(conn, depth, wid, c.Root,
		int16(spec.X), int16(spec.Y), uint16(max(spec.Width, 1)), uint16(max(spec.Height, 1)), 0,
		xproto.WindowClassInputOutput, visual, mask, values).Check()
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	if err := c.setHints(wid, spec); err != nil {
		_ = xproto.DestroyWindowChecked(conn, wid).Check()
		return 0, err
	}
	return wid, nil
}

func (c *Connection) setHints(wid xproto.Window, spec WindowSpec) error {
	xu := c.XUtil

	if err := icccm.WmClassSet(xu, wid, &icccm.WmClass{Instance: "mira", Class: "Mira"}); err != nil {
		return fmt.Errorf("failed to set WM_CLASS: %w", err)
	}
	if spec.Title != "" {
		if err := ewmh.WmNameSet(xu, wid, spec.Title); err != nil {
			return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
		}
		_ = icccm.WmNameSet(xu, wid, spec.Title)
	}

	windowType := spec.WindowType
	if windowType == "" {
		windowType = WindowTypeNormal
	}
	if err := ewmh.WmWindowTypeSet(xu, wid, []string{windowType}); err != nil {
		return fmt.Errorf("failed to set window type: %w", err)
	}

	if !spec.Decorated {
		hints := &motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationNone}
		if err := motif.WmHintsSet(xu, wid, hints); err != nil {
			return fmt.Errorf("failed to set motif hints: %w", err)
		}
	}

	if err := c.setSizeHints(wid, spec.Width, spec.Height, spec.MinWidth, spec.MinHeight, spec.Resizable); err != nil {
		return err
	}

	var states []string
	if spec.AlwaysOnTop {
		states = append(states, "_NET_WM_STATE_ABOVE")
	}
	if spec.SkipTaskbar {
		states = append(states, "_NET_WM_STATE_SKIP_TASKBAR", "_NET_WM_STATE_SKIP_PAGER")
	}
	if len(states) > 0 {
		if err := ewmh.WmStateSet(xu, wid, states); err != nil {
			return fmt.Errorf("failed to set _NET_WM_STATE: %w", err)
		}
	}
	return nil
}

// setSizeHints pins min and max size to the current size for fixed windows.
func (c *Connection) setSizeHints(wid xproto.Window, width, height, minWidth, minHeight int, resizable bool) error {
	hints := &icccm.NormalHints{Flags: icccm.SizeHintUSPosition | icccm.SizeHintPMinSize}
	if resizable {
		hints.MinWidth = uint(max(minWidth, 1))
		hints.MinHeight = uint(max(minHeight, 1))
	} else {
		hints.Flags |= icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(width), uint(width)
		hints.MinHeight, hints.MaxHeight = uint(height), uint(height)
	}
	if err := icccm.WmNormalHintsSet(c.XUtil, wid, hints); err != nil {
		return fmt.Errorf("failed to set WM_NORMAL_HINTS: %w", err)
	}
	return nil
}

func (c *Connection) argbVisual() (xproto.Visualid, bool) {
	for _, d := range c.XUtil.Screen().AllowedDepths {
		if d.Depth != 32 {
			continue
		}
		for _, v := range d.Visuals {
			if v.Class == xproto.VisualClassTrueColor {
				return v.VisualId, true
			}
		}
	}
	return 0, false
}

// MapWindow shows a window.
func (c *Connection) MapWindow(wid xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), wid).Check()
}

// UnmapWindow hides a window.
func (c *Connection) UnmapWindow(wid xproto.Window) error {
	return xproto.UnmapWindowChecked(c.XUtil.Conn(), wid).Check()
}

// DestroyWindow destroys a window created by CreateWindow.
func (c *Connection) DestroyWindow(wid xproto.Window) error {
	return xproto.DestroyWindowChecked(c.XUtil.Conn(), wid).Check()
}

// MoveWindow positions a window's top-left corner in root coordinates.
func (c *Connection) MoveWindow(wid xproto.Window, x, y int) error {
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))}).Check()
}

// ResizeWindow changes a window's size. Fixed-size windows have their size
// hints updated first so the window manager accepts the new size.
func (c *Connection) ResizeWindow(wid xproto.Window, width, height int, resizable bool) error {
	if !resizable {
		if err := c.setSizeHints(wid, width, height, 0, 0, false); err != nil {
			return err
		}
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), wid,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(max(width, 1)), uint32(max(height, 1))}).Check()
}

// OuterPosition returns the top-left corner of the window including the
// window manager frame.
func (c *Connection) OuterPosition(wid xproto.Window) (int, int, error) {
	geom, err := xwindow.New(c.XUtil, wid).DecorGeometry()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get window geometry: %w", err)
	}
	return geom.X(), geom.Y(), nil
}

// SetInputPassthrough makes a window ignore pointer input by giving it an
// empty input shape. Disabling restores the default input region.
func (c *Connection) SetInputPassthrough(wid xproto.Window, enabled bool) error {
	if !c.hasShape {
		return ErrNoShape
	}
	conn := c.XUtil.Conn()
	if enabled {
		return shape.RectanglesChecked(conn, shape.SoSet, shape.SkInput,
			xproto.ClipOrderingUnsorted, wid, 0, 0, nil).Check()
	}
	return shape.MaskChecked(conn, shape.SoSet, shape.SkInput, wid, 0, 0, xproto.Pixmap(0)).Check()
}

// SetAbove toggles _NET_WM_STATE_ABOVE on a mapped window. Enabling also
// raises the window.
func (c *Connection) SetAbove(wid xproto.Window, above bool) error {
	action := uint32(stateRemove)
	if above {
		action = stateAdd
	}
	if err := c.setWmState(wid, action, "_NET_WM_STATE_ABOVE"); err != nil {
		return err
	}
	if !above {
		return nil
	}
	return xproto.ConfigureWindowChecked(c.XUtil.Conn(), wid,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}
