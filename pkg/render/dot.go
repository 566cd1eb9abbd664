package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	"github.com/matzehuels/campaigncanvas/pkg/geometry"
)

// ToDOT converts a board to Graphviz DOT. Blocks become boxes and edges
// become arrows; the graph flows left to right like the canvas. Edges whose
// endpoints are missing are skipped.
func ToDOT(b *canvas.Board) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	if b.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", b.Name)
	}
	buf.WriteString("\n")

	for _, blk := range b.Blocks {
		attrs := []string{fmt.Sprintf("label=%q", dotLabel(blk))}
		if c := normalizeColor(blk.Color); c != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", blk.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range b.Route(0) {
		var attrs []string
		if c := normalizeColor(e.Color); c != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", c))
		}
		switch e.Style {
		case geometry.StyleOrthogonal:
			attrs = append(attrs, "style=solid", "arrowhead=vee")
		case geometry.StyleStraight:
			attrs = append(attrs, "arrowhead=normal")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(blk canvas.Block) string {
	label := blockLabel(blk)
	if label == "" {
		return blk.ID
	}
	return label
}

// RenderDOT renders a DOT graph to SVG using the embedded Graphviz build.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based <svg> header with a
// viewBox anchored at the origin so the output scales like [SVG].
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
