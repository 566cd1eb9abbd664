package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	"github.com/matzehuels/campaigncanvas/pkg/geometry"
)

// SVGOption configures [SVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme     Theme
	padding   float64
	curvature float64
	labels    bool
}

// WithTheme sets the color theme.
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }

// WithPadding sets the margin around the board bounds.
func WithPadding(p float64) SVGOption { return func(r *svgRenderer) { r.padding = max(p, 0) } }

// WithCurvature sets the bezier curvature; non-positive uses the default.
func WithCurvature(c float64) SVGOption { return func(r *svgRenderer) { r.curvature = c } }

// WithoutLabels omits block text.
func WithoutLabels() SVGOption { return func(r *svgRenderer) { r.labels = false } }

const maxLabelRunes = 48

// SVG renders the board. Edges whose endpoints are missing are skipped.
func SVG(b *canvas.Board, opts ...SVGOption) []byte {
	r := svgRenderer{theme: LightTheme, padding: 24, curvature: geometry.DefaultCurvature, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	bounds := b.Bounds()
	minX, minY := bounds.X-r.padding, bounds.Y-r.padding
	w, h := bounds.W+2*r.padding, bounds.H+2*r.padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		num(minX), num(minY), num(w), num(h), w, h)
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(minX), num(minY), num(w), num(h), r.theme.Background)

	buf.WriteString(`  <g class="edges" fill="none" stroke-width="2">` + "\n")
	for _, e := range b.Route(r.curvature) {
		r.renderEdge(&buf, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="blocks">` + "\n")
	for _, blk := range b.Blocks {
		r.renderBlock(&buf, blk)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, `  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="context-stroke"/>
    </marker>
  </defs>
  <style>
    .block-text { font-family: %s; font-size: %spx; }
  </style>
`, r.theme.FontFamily, num(r.theme.FontSize))
}

func (r *svgRenderer) renderEdge(buf *bytes.Buffer, e geometry.RoutedEdge) {
	stroke := normalizeColor(e.Color)
	if stroke == "" {
		stroke = r.theme.Edge
	}
	fmt.Fprintf(buf, `    <path id="edge-%s" class="edge edge-%s" d="%s" stroke="%s" marker-end="url(#arrow)" data-source="%s" data-target="%s"/>`+"\n",
		attr(e.EdgeID), e.Style, e.Path.String(), stroke, attr(e.Source), attr(e.Target))
}

func (r *svgRenderer) renderBlock(buf *bytes.Buffer, blk canvas.Block) {
	fill, text := r.theme.BlockFill, r.theme.Text
	if c := normalizeColor(blk.Color); c != "" {
		fill, text = c, r.theme.textOn(c)
	}
	fmt.Fprintf(buf, `    <rect id="block-%s" class="block block-%s" x="%s" y="%s" width="%s" height="%s" rx="6" fill="%s" stroke="%s" stroke-width="1.5"/>`+"\n",
		attr(blk.ID), attr(string(blk.Type)), num(blk.X), num(blk.Y), num(blk.Width), num(blk.Height), fill, r.theme.BlockStroke)

	if !r.labels {
		return
	}
	label := blockLabel(blk)
	if label == "" {
		return
	}
	c := blk.Rect().Center()
	fmt.Fprintf(buf, `    <text class="block-text" x="%s" y="%s" text-anchor="middle" dominant-baseline="middle" fill="%s" data-block="%s">%s</text>`+"\n",
		num(c.X), num(c.Y), text, attr(blk.ID), html.EscapeString(label))
}

// blockLabel is the first line of the content, or the block type when the
// block has no text.
func blockLabel(blk canvas.Block) string {
	s := strings.TrimSpace(blk.Content)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		s = string(blk.Type)
	}
	if r := []rune(s); len(r) > maxLabelRunes {
		s = string(r[:maxLabelRunes-1]) + "…"
	}
	return s
}

func attr(s string) string { return html.EscapeString(s) }

func num(f float64) string { return geometry.FormatFloat(f) }
