package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Area is a rectangle in root-window pixels.
type Area struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (a Area) intersect(b Area) Area {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return Area{}
	}
	return Area{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func (a Area) empty() bool {
	return a.Width <= 0 || a.Height <= 0
}

// Monitor represents a physical display
type Monitor struct {
	ID       int
	Name     string
	Primary  bool
	Bounds   Area
	WorkArea Area
}

// GetMonitors retrieves all active monitors using XRandR. Each monitor's work
// area excludes dock struts (panels, taskbars) overlapping it.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primaryOutput randr.Output
	if reply, err := randr.GetOutputPrimary(conn, c.Root).Reply(); err == nil {
		primaryOutput = reply.Output
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(conn, crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		primary := false
		for _, out := range crtcInfo.Outputs {
			if primaryOutput != 0 && out == primaryOutput {
				primary = true
			}
		}

		bounds := Area{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		monitors = append(monitors, Monitor{
			ID:       i,
			Name:     outputName,
			Primary:  primary,
			Bounds:   bounds,
			WorkArea: bounds,
		})
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	// Without an explicit primary output the first CRTC wins.
	hasPrimary := false
	for _, m := range monitors {
		hasPrimary = hasPrimary || m.Primary
	}
	if !hasPrimary {
		monitors[0].Primary = true
	}

	for i := range monitors {
		monitors[i].WorkArea = c.workAreaFor(monitors[i].Bounds)
	}
	return monitors, nil
}

// GetPrimaryMonitor returns the RandR primary monitor.
func (c *Connection) GetPrimaryMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	for i := range monitors {
		if monitors[i].Primary {
			return &monitors[i], nil
		}
	}
	return &monitors[0], nil
}

// workAreaFor shrinks bounds by dock struts, falling back to the intersection
// with _NET_WORKAREA, falling back to the full bounds.
func (c *Connection) workAreaFor(bounds Area) Area {
	if area, ok := c.applyDockStruts(bounds); ok {
		return area
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return bounds
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]
	isect := bounds.intersect(Area{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)})
	if isect.empty() {
		return bounds
	}
	return isect
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (c *Connection) applyDockStruts(bounds Area) (Area, bool) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return bounds, false
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return bounds, false
	}

	var struts dockStruts
	for _, windowID := range clients {
		if !c.isDock(windowID) {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			struts.accumulate(bounds, rootWidth, rootHeight, sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			struts.accumulate(bounds, rootWidth, rootHeight, &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootHeight - 1),
				RightEndY:  uint(rootHeight - 1),
				TopEndX:    uint(rootWidth - 1),
				BottomEndX: uint(rootWidth - 1),
			})
		}
	}

	if struts == (dockStruts{}) {
		return bounds, false
	}

	area := Area{
		X:      bounds.X + struts.left,
		Y:      bounds.Y + struts.top,
		Width:  max(bounds.Width-struts.left-struts.right, 1),
		Height: max(bounds.Height-struts.top-struts.bottom, 1),
	}
	return area, true
}

func (c *Connection) isDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

// accumulate widens the struts by the parts of sp that overlap bounds.
func (s *dockStruts) accumulate(bounds Area, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial) {
	if sp.Top > 0 {
		isect := bounds.intersect(Area{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)})
		s.top = max(s.top, isect.Height)
	}
	if sp.Bottom > 0 {
		isect := bounds.intersect(Area{X: int(sp.BottomStartX), Y: rootHeight - int(sp.Bottom), Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom)})
		s.bottom = max(s.bottom, isect.Height)
	}
	if sp.Left > 0 {
		isect := bounds.intersect(Area{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1})
		s.left = max(s.left, isect.Width)
	}
	if sp.Right > 0 {
		isect := bounds.intersect(Area{X: rootWidth - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1})
		s.right = max(s.right, isect.Width)
	}
}
