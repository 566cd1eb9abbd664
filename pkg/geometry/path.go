package geometry

import (
	"strconv"
	"strings"
)

// DefaultCurvature scales the bezier control-point offset by the distance
// between the two endpoints.
const DefaultCurvature = 0.2

// Path command opcodes, using SVG path syntax.
const (
	OpMove  byte = 'M'
	OpLine  byte = 'L'
	OpCubic byte = 'C'
)

// Command is one absolute SVG path command and its coordinates.
type Command struct {
	Op     byte
	Points []Point
}

// Path is an ordered list of path commands.
type Path struct {
	Commands []Command
}

// Points returns every coordinate of the path in drawing order.
func (p Path) Points() []Point {
	var pts []Point
	for _, c := range p.Commands {
		pts = append(pts, c.Points...)
	}
	return pts
}

// String renders the path as an SVG "d" attribute, for example
// "M 100 25 C 140 25, 260 25, 300 25".
func (p Path) String() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(c.Op)
		for j, pt := range c.Points {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte(' ')
			b.WriteString(FormatFloat(pt.X))
			b.WriteByte(' ')
			b.WriteString(FormatFloat(pt.Y))
		}
	}
	return b.String()
}

// MarshalText lets a Path be embedded in JSON documents as its SVG string.
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// FormatFloat formats a coordinate the way path strings print it: the
// shortest decimal form, with negative zero printed as "0".
func FormatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StraightPath draws a single line segment from p1 to p2.
func StraightPath(p1, p2 Point) Path {
	return Path{Commands: []Command{
		{Op: OpMove, Points: []Point{p1}},
		{Op: OpLine, Points: []Point{p2}},
	}}
}

// OrthogonalPath draws three right-angle segments from p1 to p2.
//
// When h1 is horizontal (left or right) the path bends at the horizontal
// midpoint: p1 → (midX, p1.y) → (midX, p2.y) → p2. When h1 is vertical it
// bends at the vertical midpoint instead. Only the source handle decides the
// orientation; h2 is accepted for symmetry with [BezierPath].
func OrthogonalPath(p1 Point, h1 Handle, p2 Point, h2 Handle) Path {
	var b1, b2 Point
	if h1.IsHorizontal() {
		midX := (p1.X + p2.X) / 2
		b1 = Point{X: midX, Y: p1.Y}
		b2 = Point{X: midX, Y: p2.Y}
	} else {
		midY := (p1.Y + p2.Y) / 2
		b1 = Point{X: p1.X, Y: midY}
		b2 = Point{X: p2.X, Y: midY}
	}
	return Path{Commands: []Command{
		{Op: OpMove, Points: []Point{p1}},
		{Op: OpLine, Points: []Point{b1}},
		{Op: OpLine, Points: []Point{b2}},
		{Op: OpLine, Points: []Point{p2}},
	}}
}

// BezierPath draws a cubic curve from p1 to p2.
//
// Each control point is pushed away from its endpoint along the axis of that
// endpoint's handle (right +x, left -x, bottom +y, top -y) by
// curvature × distance(p1, p2). The two ends are projected independently, so
// curves always leave a block through its connection side. A non-positive
// curvature is replaced by [DefaultCurvature].
func BezierPath(p1 Point, h1 Handle, p2 Point, h2 Handle, curvature float64) Path {
	if curvature <= 0 {
		curvature = DefaultCurvature
	}
	offset := curvature * p1.Distance(p2)
	c1 := project(p1, h1, offset)
	c2 := project(p2, h2, offset)
	return Path{Commands: []Command{
		{Op: OpMove, Points: []Point{p1}},
		{Op: OpCubic, Points: []Point{c1, c2, p2}},
	}}
}

func project(p Point, h Handle, d float64) Point {
	dir := h.direction()
	return Point{X: p.X + dir.X*d, Y: p.Y + dir.Y*d}
}
