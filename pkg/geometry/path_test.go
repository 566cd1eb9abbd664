package geometry

import (
	"strings"
	"testing"
)

func TestStraightPath(t *testing.T) {
	p1, p2 := Point{3, 4}, Point{-7, 11.25}
	pts := StraightPath(p1, p2).Points()
	if len(pts) != 2 {
		t.Fatalf("StraightPath has %d points, want 2", len(pts))
	}
	if pts[0] != p1 || pts[1] != p2 {
		t.Errorf("StraightPath points = %v, want [%v %v]", pts, p1, p2)
	}
}

func TestOrthogonalPath(t *testing.T) {
	p1, p2 := Point{10, 20}, Point{110, 80}

	tests := []struct {
		name   string
		h1, h2 Handle
		want   []Point
	}{
		{"right source bends on x", Right, Left, []Point{p1, {60, 20}, {60, 80}, p2}},
		{"left source bends on x", Left, Right, []Point{p1, {60, 20}, {60, 80}, p2}},
		{"top source bends on y", Top, Bottom, []Point{p1, {10, 50}, {110, 50}, p2}},
		{"bottom source bends on y", Bottom, Top, []Point{p1, {10, 50}, {110, 50}, p2}},
		{"source axis wins over target", Right, Top, []Point{p1, {60, 20}, {60, 80}, p2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrthogonalPath(p1, tt.h1, p2, tt.h2).Points()
			if len(got) != len(tt.want) {
				t.Fatalf("got %d points, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !samePoint(got[i], tt.want[i]) {
					t.Errorf("point %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOrthogonalPathSegmentsAreAxisAligned(t *testing.T) {
	pts := OrthogonalPath(Point{0, 0}, Right, Point{37, -91}, Left).Points()
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if !approx(a.X, b.X) && !approx(a.Y, b.Y) {
			t.Errorf("segment %v -> %v is diagonal", a, b)
		}
	}
}

func TestBezierPathControlPoints(t *testing.T) {
	p1, p2 := Point{0, 0}, Point{30, 40} // distance 50
	offset := DefaultCurvature * 50

	tests := []struct {
		name   string
		h1, h2 Handle
		c1, c2 Point
	}{
		{"right to left", Right, Left, Point{offset, 0}, Point{30 - offset, 40}},
		{"left to right", Left, Right, Point{-offset, 0}, Point{30 + offset, 40}},
		{"bottom to top", Bottom, Top, Point{0, offset}, Point{30, 40 - offset}},
		{"top to bottom", Top, Bottom, Point{0, -offset}, Point{30, 40 + offset}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := BezierPath(p1, tt.h1, p2, tt.h2, DefaultCurvature).Points()
			if len(pts) != 4 {
				t.Fatalf("got %d points, want 4", len(pts))
			}
			if !samePoint(pts[0], p1) || !samePoint(pts[3], p2) {
				t.Errorf("endpoints = %v, %v; want %v, %v", pts[0], pts[3], p1, p2)
			}
			if !samePoint(pts[1], tt.c1) {
				t.Errorf("control 1 = %v, want %v", pts[1], tt.c1)
			}
			if !samePoint(pts[2], tt.c2) {
				t.Errorf("control 2 = %v, want %v", pts[2], tt.c2)
			}
		})
	}
}

func TestBezierPathCurvature(t *testing.T) {
	p1, p2 := Point{0, 0}, Point{100, 0}

	pts := BezierPath(p1, Right, p2, Left, 0.5).Points()
	if !samePoint(pts[1], Point{50, 0}) {
		t.Errorf("curvature 0.5: control 1 = %v, want (50, 0)", pts[1])
	}

	def := BezierPath(p1, Right, p2, Left, 0).Points()
	if !samePoint(def[1], Point{20, 0}) {
		t.Errorf("zero curvature should use the default: control 1 = %v, want (20, 0)", def[1])
	}
}

func TestBezierPathDegenerate(t *testing.T) {
	p := Point{5, 5}
	pts := BezierPath(p, Right, p, Left, DefaultCurvature).Points()
	for i, q := range pts {
		if !samePoint(q, p) {
			t.Errorf("point %d = %v, want %v for a zero-length curve", i, q, p)
		}
	}
}

func TestBuildPath(t *testing.T) {
	p1, p2 := Point{0, 0}, Point{100, 50}
	tests := []struct {
		style  Style
		prefix string
		points int
	}{
		{StyleStraight, "M 0 0 L", 2},
		{StyleOrthogonal, "M 0 0 L", 4},
		{StyleBezier, "M 0 0 C", 4},
		{"unknown", "M 0 0 C", 4},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			p := BuildPath(tt.style, p1, Right, p2, Left, DefaultCurvature)
			if !strings.HasPrefix(p.String(), tt.prefix) {
				t.Errorf("String() = %q, want prefix %q", p.String(), tt.prefix)
			}
			if n := len(p.Points()); n != tt.points {
				t.Errorf("got %d points, want %d", n, tt.points)
			}
		})
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", StyleBezier, false},
		{"straight", StyleStraight, false},
		{"bezier", StyleBezier, false},
		{"orthogonal", StyleOrthogonal, false},
		{"step", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
