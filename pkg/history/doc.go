// Package history keeps a bounded, branchable undo/redo timeline of canvas
// block collections.
//
// # Model
//
// A [Manager] owns an ordered sequence of [Snapshot] values and a cursor
// pointing at the current one. Every snapshot is a deep copy; the manager
// never holds on to the caller's live blocks.
//
//	m := history.New(func(blocks []canvas.Block) {
//	    board.Blocks = blocks // re-render
//	})
//	m.Initialize(board.Blocks) // seed once, on first load
//	...
//	m.Capture(board.Blocks)    // after every committed edit
//	m.Undo()                   // restore the previous snapshot
//
// Capturing after an undo discards every snapshot after the cursor, so the
// timeline branches at the point of the new edit. Once the sequence is longer
// than the capacity ([DefaultCapacity] unless [WithCapacity] is given) the
// oldest snapshots are dropped.
//
// # Restoring guard
//
// Undo and Redo hand a copy of the target snapshot to the restore callback.
// While that callback runs the manager is in the restoring state and
// ignores Capture, so edits the callback triggers (re-rendering, store
// writes that echo back as changes) do not pollute the timeline. The guard
// is cleared as soon as the outermost callback returns.
//
// Boundary conditions are not errors: Undo and Redo return false when there
// is nothing to move to, which callers use to disable controls.
//
// A Manager serialises its own state with a mutex but is meant to serve a
// single canvas session; do not share one between sessions.
package history
