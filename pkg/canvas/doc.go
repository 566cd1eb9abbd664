// Package canvas defines the documents edited on a campaign canvas: blocks,
// the edges between them, and the board that holds both.
//
// A [Board] is what the store persists and what the renderers draw. Blocks
// carry their geometry plus free-form content; everything beyond geometry is
// opaque to the edge router and the history manager, which only copy it.
//
//	b := canvas.Board{
//	    Blocks: []canvas.Block{
//	        {ID: "hero", X: 0, Y: 0, Width: 100, Height: 50},
//	        {ID: "cta", X: 300, Y: 0, Width: 100, Height: 50},
//	    },
//	    Edges: []canvas.Edge{{ID: "e1", Source: "hero", Target: "cta"}},
//	}
//	if err := b.Validate(); err != nil { ... }
//	edges := b.Route(geometry.DefaultCurvature)
package canvas
