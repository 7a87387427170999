package geometry

// Toolbar sizing in logical units. Physical sizes are these multiplied by the
// monitor scale factor and truncated.
const (
	ToolbarDefaultWidth = 572.0
	ToolbarHeight       = 60.0
	ToolbarMinWidth     = 360.0
	ToolbarMaxWidth     = 900.0
	ToolbarTopMargin    = 24.0
)

// Point is a physical-pixel screen coordinate.
type Point struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Size is a physical-pixel extent.
type Size struct {
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

// Rect describes a rectangular region in physical screen coordinates.
type Rect struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

// Contains reports whether the point lies inside r (right/bottom exclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Clamp moves pos so that a width×height box anchored at pos stays inside
// workArea.
//
// When the box is larger than the work area on an axis the allowed range is
// empty (max < min); the position then collapses to min, i.e. flush with the
// work-area origin on that axis.
func Clamp(pos Point, workArea Rect, width, height int32) Point {
	return Point{
		X: clampAxis(pos.X, workArea.X, workArea.X+workArea.Width-width),
		Y: clampAxis(pos.Y, workArea.Y, workArea.Y+workArea.Height-height),
	}
}

func clampAxis(v, lo, hi int32) int32 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// ToolbarFootprint returns the physical size of a toolbar with the given
// logical width on a monitor with the given scale factor.
func ToolbarFootprint(logicalWidth, scale float64) Size {
	return Size{
		Width:  int32(logicalWidth * scale),
		Height: int32(ToolbarHeight * scale),
	}
}

// DefaultToolbarPosition centers a default-width toolbar horizontally in the
// work area, ToolbarTopMargin logical pixels below its top edge.
func DefaultToolbarPosition(workArea Rect, scale float64) Point {
	width := int32(ToolbarDefaultWidth * scale)
	margin := int32(ToolbarTopMargin * scale)
	return Point{
		X: workArea.X + (workArea.Width-width)/2,
		Y: workArea.Y + margin,
	}
}

// ClampToolbarWidth bounds a requested logical toolbar width.
func ClampToolbarWidth(width float64) float64 {
	if width != width { // NaN
		return ToolbarMinWidth
	}
	if width < ToolbarMinWidth {
		return ToolbarMinWidth
	}
	if width > ToolbarMaxWidth {
		return ToolbarMaxWidth
	}
	return width
}
