package geometry

import "fmt"

// Style selects the path builder used for a connection.
type Style string

// Supported connection styles.
const (
	StyleStraight   Style = "straight"
	StyleBezier     Style = "bezier"
	StyleOrthogonal Style = "orthogonal"
)

// DefaultStyle is used when a connection does not name a style.
const DefaultStyle = StyleBezier

// ParseStyle converts s to a Style. The empty string maps to [DefaultStyle].
func ParseStyle(s string) (Style, error) {
	switch st := Style(s); st {
	case "":
		return DefaultStyle, nil
	case StyleStraight, StyleBezier, StyleOrthogonal:
		return st, nil
	}
	return "", fmt.Errorf("unknown edge style %q (must be straight, bezier, or orthogonal)", s)
}

// BuildPath draws a path between two anchors using the builder for style.
// Unknown styles fall back to [DefaultStyle].
func BuildPath(style Style, p1 Point, h1 Handle, p2 Point, h2 Handle, curvature float64) Path {
	switch style {
	case StyleStraight:
		return StraightPath(p1, p2)
	case StyleOrthogonal:
		return OrthogonalPath(p1, h1, p2, h2)
	default:
		return BezierPath(p1, h1, p2, h2, curvature)
	}
}
