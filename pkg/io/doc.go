// Package io reads and writes board documents as JSON.
//
// # JSON Format
//
// A board document is the JSON form of [canvas.Board]:
//
//	{
//	  "id": "spring-launch",
//	  "name": "Spring launch",
//	  "blocks": [
//	    {"id": "hero", "type": "image", "x": 0, "y": 0, "width": 320, "height": 180},
//	    {"id": "copy", "type": "copy", "x": 400, "y": 40, "width": 240, "height": 100,
//	     "content": "Save 50% this week"}
//	  ],
//	  "edges": [
//	    {"id": "e1", "source": "hero", "target": "copy", "style": "bezier"}
//	  ]
//	}
//
// Blocks and edges without an id are assigned a fresh one on import so that
// hand-written documents can omit them. Every other field is preserved, so a
// document survives import followed by export unchanged.
//
// # Import
//
// Use [ImportJSON] to read a board from a file path, or [ReadJSON] to read
// from any io.Reader. Both validate the board (unique block IDs, finite
// geometry, known edge styles) and report which element is at fault.
//
// # Export
//
// Use [ExportJSON] to write a board to a file, or [WriteJSON] to write to any
// io.Writer. ExportJSON replaces the target atomically.
//
// [canvas.Board]: github.com/matzehuels/campaigncanvas/pkg/canvas.Board
package io
