package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Theme holds the colors and font used by [SVG].
type Theme struct {
	Name        string
	Background  string
	BlockFill   string
	BlockStroke string
	Text        string
	Edge        string
	FontFamily  string
	FontSize    float64
}

var (
	LightTheme = Theme{
		Name:        "light",
		Background:  "#ffffff",
		BlockFill:   "#f8fafc",
		BlockStroke: "#334155",
		Text:        "#0f172a",
		Edge:        "#64748b",
		FontFamily:  "Inter, Helvetica, Arial, sans-serif",
		FontSize:    13,
	}
	DarkTheme = Theme{
		Name:        "dark",
		Background:  "#0f172a",
		BlockFill:   "#1e293b",
		BlockStroke: "#94a3b8",
		Text:        "#f1f5f9",
		Edge:        "#cbd5e1",
		FontFamily:  "Inter, Helvetica, Arial, sans-serif",
		FontSize:    13,
	}
)

// ThemeByName returns the named theme.
func ThemeByName(name string) (Theme, error) {
	switch name {
	case "", "light":
		return LightTheme, nil
	case "dark":
		return DarkTheme, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme %q (want light or dark)", name)
	}
}

// textOn picks the theme text color, or a contrasting one when the block
// carries its own fill color.
func (t Theme) textOn(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return t.Text
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#0f172a"
	}
	return "#f8fafc"
}

// normalizeColor returns a lowercase #rrggbb form of s, or "" if s is not a
// hex color.
func normalizeColor(s string) string {
	c, err := colorful.Hex(s)
	if err != nil {
		return ""
	}
	return c.Hex()
}
