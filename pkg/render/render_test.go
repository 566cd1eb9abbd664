package render

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	"github.com/matzehuels/campaigncanvas/pkg/geometry"
)

func testBoard() *canvas.Board {
	return &canvas.Board{
		ID:   "b1",
		Name: "Spring launch",
		Blocks: []canvas.Block{
			{ID: "a", Type: canvas.BlockText, X: 0, Y: 0, Width: 100, Height: 50, Content: "Headline\nsecond line"},
			{ID: "b", Type: canvas.BlockCTA, X: 200, Y: 0, Width: 100, Height: 50, Color: "#FF0000"},
		},
		Edges: []canvas.Edge{
			{ID: "e1", Source: "a", Target: "b", Style: geometry.StyleStraight, Color: "#00FF00"},
			{ID: "e2", Source: "a", Target: "ghost"},
		},
	}
}

func TestSVG(t *testing.T) {
	out := string(SVG(testBoard(), WithPadding(10)))

	tests := []struct {
		name string
		want string
	}{
		{"header", `viewBox="-10 -10 320 70"`},
		{"straight edge path", `d="M 100 25 L 200 25"`},
		{"edge color override normalised", `stroke="#00ff00"`},
		{"arrow marker", `marker-end="url(#arrow)"`},
		{"first line label", `>Headline</text>`},
		{"type label fallback", `>cta</text>`},
		{"block color", `fill="#ff0000"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(out, tt.want) {
				t.Errorf("SVG missing %q\n%s", tt.want, out)
			}
		})
	}

	if strings.Contains(out, "edge-e2") {
		t.Error("dangling edge should be skipped")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("SVG should be closed")
	}
}

func TestSVG_Options(t *testing.T) {
	out := string(SVG(testBoard(), WithTheme(DarkTheme), WithoutLabels()))
	if !strings.Contains(out, DarkTheme.Background) {
		t.Error("dark background missing")
	}
	if strings.Contains(out, "<text") {
		t.Error("labels should be omitted")
	}

	b := testBoard()
	b.Edges = []canvas.Edge{{ID: "e", Source: "a", Target: "b", Style: geometry.StyleBezier}}
	loose := string(SVG(b, WithCurvature(0.5)))
	// distance 100, curvature 0.5: control points 50 out from each end.
	if !strings.Contains(loose, `d="M 100 25 C 150 25, 150 25, 200 25"`) {
		t.Errorf("curvature not applied:\n%s", loose)
	}
}

func TestSVG_EscapesContent(t *testing.T) {
	b := &canvas.Board{Blocks: []canvas.Block{{ID: "x", Width: 10, Height: 10, Content: `<script>"hi"</script>`}}}
	out := string(SVG(b))
	if strings.Contains(out, "<script>") {
		t.Errorf("content not escaped:\n%s", out)
	}
}

func TestSVG_EmptyBoard(t *testing.T) {
	out := string(SVG(&canvas.Board{}, WithPadding(0)))
	if !strings.Contains(out, `viewBox="0 0 0 0"`) {
		t.Errorf("unexpected empty board header:\n%s", out)
	}
}

func TestBlockLabel(t *testing.T) {
	long := strings.Repeat("x", 80)
	tests := []struct {
		blk  canvas.Block
		want string
	}{
		{canvas.Block{Content: "  Buy now  "}, "Buy now"},
		{canvas.Block{Type: canvas.BlockImage}, "image"},
		{canvas.Block{}, ""},
		{canvas.Block{Content: long}, strings.Repeat("x", maxLabelRunes-1) + "…"},
	}
	for _, tt := range tests {
		if got := blockLabel(tt.blk); got != tt.want {
			t.Errorf("blockLabel(%+v) = %q, want %q", tt.blk, got, tt.want)
		}
	}
}

func TestThemeByName(t *testing.T) {
	if th, err := ThemeByName(""); err != nil || th.Name != "light" {
		t.Errorf("default theme = %v, %v", th.Name, err)
	}
	if th, err := ThemeByName("dark"); err != nil || th.Name != "dark" {
		t.Errorf("dark theme = %v, %v", th.Name, err)
	}
	if _, err := ThemeByName("neon"); err == nil {
		t.Error("unknown theme should fail")
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testBoard())
	for _, want := range []string{
		"rankdir=LR;",
		`label="Spring launch";`,
		`"a" [label="Headline"];`,
		`"b" [label="cta", fillcolor="#ff0000"];`,
		`"a" -> "b" [color="#00ff00", arrowhead=normal];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ghost") {
		t.Error("dangling edge should be skipped")
	}
}

func TestRenderDOT(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz wasm startup is slow")
	}
	svg, err := RenderDOT(context.Background(), ToDOT(testBoard()))
	if err != nil {
		t.Fatalf("RenderDOT() error = %v", err)
	}
	out := string(svg)
	if !strings.Contains(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("viewBox not normalised:\n%.300s", out)
	}
	if !strings.Contains(out, "Headline") {
		t.Error("node label missing from rendered SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg></svg>"))) != "<svg></svg>" {
		t.Error("input without viewBox should pass through")
	}
}
