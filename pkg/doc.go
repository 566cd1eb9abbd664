// Package pkg provides the core libraries behind campaigncanvas.
//
// # Overview
//
// campaigncanvas keeps campaign boards: positioned blocks (images, copy,
// calls to action, notes) joined by directed edges. The pkg directory is
// organized into four areas:
//
//  1. Canvas domain ([canvas], [geometry], [history])
//  2. Output ([render], [io])
//  3. Services ([functions], [ai], [fetch], [server])
//  4. Infrastructure ([store], [cache], [config], [errors], [httputil], [observability])
//
// # Architecture
//
// The typical data flow for a board:
//
//	Board JSON (file, store, or HTTP body)
//	         ↓
//	    [canvas] package (blocks, edges, validation)
//	         ↓
//	    [geometry] package (handle selection, anchors, edge paths)
//	         ↓
//	    [render] package (SVG, DOT, Graphviz SVG)
//
// and for an edge function call:
//
//	POST /functions/v1/{name}
//	         ↓
//	    [functions] package (decode, validate, prompt)
//	         ↓
//	    [ai] package (OpenAI, Gemini, or Anthropic) / [fetch] package (pages, oEmbed)
//	         ↓
//	    JSON answer or {"error": "..."}
//
// # Quick Start
//
// Route the edges of a board and render it:
//
//	b, _ := io.ImportJSON("launch.json")
//	for _, e := range b.Route(geometry.DefaultCurvature) {
//	    fmt.Println(e.EdgeID, e.Handles.Source, "→", e.Handles.Target, e.Path)
//	}
//	svg := render.SVG(b, render.WithTheme(render.DarkTheme))
//
// Track block edits with undo and redo:
//
//	h := history.New(func(blocks []canvas.Block) { b.Blocks = blocks })
//	h.Initialize(b.Blocks)
//	b.Blocks[0].X += 40
//	h.Capture(b.Blocks)
//	h.Undo() // b.Blocks[0] is back where it started
//
// # Main Packages
//
// ## Canvas Domain
//
// [canvas] - Blocks, edges and boards, with the validation every store and
// renderer relies on.
//
// [geometry] - The edge geometry engine: picks the facing sides of two
// blocks, places anchors on their borders and builds bezier, straight, or
// orthogonal paths.
//
// [history] - A bounded undo/redo timeline of block snapshots. Captures made
// while a snapshot is being restored are ignored.
//
// ## Services
//
// [functions] - The edge functions: extract-colors, analyze-sentiment,
// extract-table, scrape-url and summarize-youtube.
//
// [ai] - One completion interface over the OpenAI, Gemini and Anthropic SDKs,
// plus tolerant JSON extraction from model answers.
//
// [server] - The HTTP API: board CRUD per tenant, routed edges, SVG and DOT
// rendering, and the edge function endpoints.
//
// ## Infrastructure
//
// [store] - Board persistence with memory, file, SQLite, Redis and MongoDB
// backends behind one interface.
//
// [cache] - Response cache (file, Redis, memory, null) used by the fetch
// client.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/geometry/...     # Specific package
//
// [canvas]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/canvas
// [geometry]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/geometry
// [history]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/history
// [render]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/render
// [io]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/io
// [functions]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/functions
// [ai]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/ai
// [fetch]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/fetch
// [server]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/server
// [store]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/store
// [cache]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/matzehuels/campaigncanvas/pkg/observability
package pkg
