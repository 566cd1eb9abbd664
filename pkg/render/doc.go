// Package render draws boards.
//
// [SVG] produces a standalone document: blocks as labelled rectangles and
// edges as paths computed by the geometry package, so the output matches the
// curves the dashboards draw. [ToDOT] and [RenderDOT] export the board as a
// Graphviz node-link diagram instead, laid out left to right:
//
//	svg := render.SVG(board, render.WithTheme(render.DarkTheme))
//
//	dot := render.ToDOT(board)
//	out, err := render.RenderDOT(ctx, dot)
package render
