package geometry

import "fmt"

// Handle identifies an anchor on one side of a block.
type Handle string

// The four handle positions.
const (
	Top    Handle = "top"
	Right  Handle = "right"
	Bottom Handle = "bottom"
	Left   Handle = "left"
)

// Handles are the anchors a connection uses on its source and target.
type Handles struct {
	Source Handle `json:"source"`
	Target Handle `json:"target"`
}

// AllHandles lists every handle in clockwise order starting at the top.
var AllHandles = []Handle{Top, Right, Bottom, Left}

// ParseHandle converts s to a Handle.
func ParseHandle(s string) (Handle, error) {
	switch h := Handle(s); h {
	case Top, Right, Bottom, Left:
		return h, nil
	}
	return "", fmt.Errorf("unknown handle %q", s)
}

// IsHorizontal reports whether the handle sits on a vertical side, so that
// an edge leaving it travels along the x axis.
func (h Handle) IsHorizontal() bool { return h == Left || h == Right }

// direction is the unit vector pointing away from the block at h.
func (h Handle) direction() Point {
	switch h {
	case Right:
		return Point{X: 1}
	case Left:
		return Point{X: -1}
	case Bottom:
		return Point{Y: 1}
	case Top:
		return Point{Y: -1}
	}
	return Point{}
}

// AnchorPoint returns the midpoint of the side of r named by h.
// A zero-size rectangle yields the same point for every handle.
func AnchorPoint(r Rect, h Handle) Point {
	switch h {
	case Top:
		return Point{X: r.X + r.W/2, Y: r.Y}
	case Right:
		return Point{X: r.X + r.W, Y: r.Y + r.H/2}
	case Bottom:
		return Point{X: r.X + r.W/2, Y: r.Y + r.H}
	case Left:
		return Point{X: r.X, Y: r.Y + r.H/2}
	}
	return r.Center()
}

// SelectHandles picks the handles for a connection from src to dst.
// Connections always leave the right side of the source and enter the left
// side of the target, whatever the relative position of the two blocks.
func SelectHandles(src, dst Rect) Handles {
	return Handles{Source: Right, Target: Left}
}
