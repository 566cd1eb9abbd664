// Package geometry computes where canvas edges attach to blocks and how they
// are drawn between them.
//
// # Overview
//
// Every function in this package is pure: it takes block rectangles and
// handle positions and returns points or SVG path descriptions. Nothing is
// cached and nothing is mutated, so the package is safe to call from any
// number of goroutines.
//
// # Handles
//
// A [Handle] names the midpoint of one side of a block's bounding box.
// [AnchorPoint] turns a rectangle and a handle into a coordinate:
//
//	AnchorPoint(Rect{X: 0, Y: 0, W: 10, H: 20}, Right) // (10, 10)
//
// [SelectHandles] assigns handles to a connection. The policy is fixed:
// edges always leave the source on its right side and enter the target on
// its left side, so connections read left to right. Blocks that are not
// arranged left to right produce crossing edges; that is accepted.
//
// # Paths
//
// Three path builders share one output type, [Path]:
//
//   - [StraightPath]: a single line segment
//   - [OrthogonalPath]: three right-angle segments bending at the midpoint
//   - [BezierPath]: a cubic curve whose control points leave each block
//     along the axis of its handle
//
// [Path.String] renders absolute SVG path syntax and [Path.Points] returns
// the coordinates in drawing order (start, control points, end).
//
// # Routing
//
// [Route] and [RouteEdge] combine the pieces for a whole board. Edges whose
// source or target block is missing are skipped rather than reported: a
// dangling connection simply is not drawn.
package geometry
