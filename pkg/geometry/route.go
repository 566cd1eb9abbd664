package geometry

// Connection is the routing input for one edge: which blocks it joins and
// how it should be drawn.
type Connection struct {
	ID     string
	Source string
	Target string
	Style  Style
	Color  string
}

// RoutedEdge is a connection resolved to concrete anchors and a path,
// ready for a renderer.
type RoutedEdge struct {
	EdgeID  string  `json:"id"`
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	Style   Style   `json:"style"`
	Color   string  `json:"color,omitempty"`
	Handles Handles `json:"handles"`
	From    Point   `json:"from"`
	To      Point   `json:"to"`
	Path    Path    `json:"path"`
}

// RouteEdge resolves c against the source and target rectangles.
func RouteEdge(c Connection, src, dst Rect, curvature float64) RoutedEdge {
	h := SelectHandles(src, dst)
	from := AnchorPoint(src, h.Source)
	to := AnchorPoint(dst, h.Target)
	style := c.Style
	if style == "" {
		style = DefaultStyle
	}
	return RoutedEdge{
		EdgeID:  c.ID,
		Source:  c.Source,
		Target:  c.Target,
		Style:   style,
		Color:   c.Color,
		Handles: h,
		From:    from,
		To:      to,
		Path:    BuildPath(style, from, h.Source, to, h.Target, curvature),
	}
}

// Route resolves every connection whose endpoints are present in rects.
// Connections that reference a missing block are skipped. The output keeps
// the input order.
func Route(conns []Connection, rects map[string]Rect, curvature float64) []RoutedEdge {
	out := make([]RoutedEdge, 0, len(conns))
	for _, c := range conns {
		src, ok := rects[c.Source]
		if !ok {
			continue
		}
		dst, ok := rects[c.Target]
		if !ok {
			continue
		}
		out = append(out, RouteEdge(c, src, dst, curvature))
	}
	return out
}
