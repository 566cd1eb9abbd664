package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
)

var (
	blockA = canvas.Block{ID: "A", X: 0, Y: 0, Width: 100, Height: 50}
	blockB = canvas.Block{ID: "B", X: 300, Y: 0, Width: 100, Height: 50}
	blockC = canvas.Block{ID: "C", X: 600, Y: 0, Width: 100, Height: 50, Meta: map[string]string{"k": "v"}}
)

// recorder collects the collections handed to the restore callback.
type recorder struct {
	calls [][]canvas.Block
}

func (r *recorder) restore(blocks []canvas.Block) { r.calls = append(r.calls, blocks) }

func (r *recorder) last() []canvas.Block {
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func numbered(i int) []canvas.Block {
	return []canvas.Block{{ID: fmt.Sprintf("b%d", i), X: float64(i)}}
}

func TestEmptyManager(t *testing.T) {
	m := New(nil)
	if m.Len() != 0 || m.Cursor() != -1 {
		t.Fatalf("new manager: len=%d cursor=%d, want 0, -1", m.Len(), m.Cursor())
	}
	if m.CanUndo() || m.CanRedo() {
		t.Error("empty manager should not allow undo or redo")
	}
	if m.Undo() || m.Redo() {
		t.Error("Undo/Redo on an empty manager should return false")
	}
	if _, ok := m.Current(); ok {
		t.Error("Current() on an empty manager should report false")
	}
}

func TestInitialize(t *testing.T) {
	m := New(nil)

	m.Initialize(nil)
	if m.Len() != 0 {
		t.Fatalf("Initialize(nil) should be ignored, len=%d", m.Len())
	}

	m.Initialize([]canvas.Block{blockA, blockB})
	if m.Len() != 1 || m.Cursor() != 0 {
		t.Fatalf("after Initialize: len=%d cursor=%d, want 1, 0", m.Len(), m.Cursor())
	}

	m.Initialize([]canvas.Block{blockC})
	if m.Len() != 1 {
		t.Errorf("second Initialize should be a no-op, len=%d", m.Len())
	}
	cur, _ := m.Current()
	if diff := cmp.Diff([]canvas.Block{blockA, blockB}, cur.Blocks); diff != "" {
		t.Errorf("seed snapshot changed (-want +got):\n%s", diff)
	}
}

func TestInitializeEmptyCollection(t *testing.T) {
	m := New(nil)
	m.Initialize([]canvas.Block{})
	if m.Len() != 1 || m.Cursor() != 0 {
		t.Fatalf("empty seed: len=%d cursor=%d, want 1, 0", m.Len(), m.Cursor())
	}
}

func TestUndoRestoresPreviousSnapshot(t *testing.T) {
	var rec recorder
	m := New(rec.restore)
	m.Initialize([]canvas.Block{blockA, blockB})
	m.Capture([]canvas.Block{blockA, blockB, blockC})

	if !m.CanUndo() {
		t.Fatal("CanUndo() = false after a capture")
	}
	if !m.Undo() {
		t.Fatal("Undo() = false, want true")
	}
	if diff := cmp.Diff([]canvas.Block{blockA, blockB}, rec.last()); diff != "" {
		t.Errorf("restored blocks mismatch (-want +got):\n%s", diff)
	}
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor())
	}

	if m.Undo() {
		t.Error("Undo() at cursor 0 should return false")
	}
	if m.Cursor() != 0 || m.Len() != 2 || len(rec.calls) != 1 {
		t.Errorf("failed undo changed state: cursor=%d len=%d restores=%d", m.Cursor(), m.Len(), len(rec.calls))
	}
}

func TestRedo(t *testing.T) {
	var rec recorder
	m := New(rec.restore)
	m.Initialize([]canvas.Block{blockA})
	m.Capture([]canvas.Block{blockA, blockB})

	if m.Redo() {
		t.Fatal("Redo() at the newest snapshot should return false")
	}
	m.Undo()
	if !m.CanRedo() {
		t.Fatal("CanRedo() = false after undo")
	}
	if !m.Redo() {
		t.Fatal("Redo() = false, want true")
	}
	if diff := cmp.Diff([]canvas.Block{blockA, blockB}, rec.last()); diff != "" {
		t.Errorf("redo restored wrong blocks (-want +got):\n%s", diff)
	}
	if m.CanRedo() {
		t.Error("CanRedo() should be false at the newest snapshot")
	}
}

func TestCaptureAfterUndoBranches(t *testing.T) {
	m := New(nil)
	m.Initialize(numbered(0))
	for i := 1; i <= 4; i++ {
		m.Capture(numbered(i))
	}
	m.Undo()
	m.Undo()
	if m.Cursor() != 2 || !m.CanRedo() {
		t.Fatalf("after two undos: cursor=%d canRedo=%v", m.Cursor(), m.CanRedo())
	}

	m.Capture(numbered(99))

	if m.CanRedo() {
		t.Error("CanRedo() should be false right after a branching capture")
	}
	if m.Len() != 4 || m.Cursor() != 3 {
		t.Errorf("len=%d cursor=%d, want 4, 3", m.Len(), m.Cursor())
	}
	var ids []string
	for _, s := range m.Snapshots() {
		ids = append(ids, s.Blocks[0].ID)
	}
	if diff := cmp.Diff([]string{"b0", "b1", "b2", "b99"}, ids); diff != "" {
		t.Errorf("timeline after branch (-want +got):\n%s", diff)
	}
}

func TestCapacityEviction(t *testing.T) {
	m := New(nil)
	for i := 0; i < 60; i++ {
		m.Capture(numbered(i))
	}
	if m.Len() != DefaultCapacity {
		t.Fatalf("len = %d, want %d", m.Len(), DefaultCapacity)
	}
	if m.Cursor() != DefaultCapacity-1 {
		t.Errorf("cursor = %d, want %d", m.Cursor(), DefaultCapacity-1)
	}
	snaps := m.Snapshots()
	if got := snaps[0].Blocks[0].ID; got != "b10" {
		t.Errorf("oldest retained = %s, want b10", got)
	}
	if got := snaps[len(snaps)-1].Blocks[0].ID; got != "b59" {
		t.Errorf("newest retained = %s, want b59", got)
	}
}

func TestWithCapacity(t *testing.T) {
	m := New(nil, WithCapacity(3))
	for i := 0; i < 5; i++ {
		m.Capture(numbered(i))
	}
	if m.Len() != 3 || m.Cursor() != 2 {
		t.Errorf("len=%d cursor=%d, want 3, 2", m.Len(), m.Cursor())
	}
	if New(nil, WithCapacity(0)).Capacity() != DefaultCapacity {
		t.Error("WithCapacity(0) should keep the default")
	}
}

func TestCaptureDuringRestoreIsIgnored(t *testing.T) {
	var m *Manager
	var lenDuring, cursorDuring int
	var recorded, restoringDuring bool

	m = New(func(blocks []canvas.Block) {
		restoringDuring = m.Restoring()
		recorded = m.Capture(append(blocks, blockC))
		lenDuring, cursorDuring = m.Len(), m.Cursor()
	})
	m.Initialize([]canvas.Block{blockA})
	m.Capture([]canvas.Block{blockA, blockB})

	if !m.Undo() {
		t.Fatal("Undo() = false")
	}
	if !restoringDuring {
		t.Error("Restoring() should be true inside the restore callback")
	}
	if recorded {
		t.Error("Capture inside the restore callback should not record")
	}
	if lenDuring != 2 || cursorDuring != 0 {
		t.Errorf("state during restore: len=%d cursor=%d, want 2, 0", lenDuring, cursorDuring)
	}
	if m.Restoring() {
		t.Error("Restoring() should be false once the callback returned")
	}
	if !m.Capture([]canvas.Block{blockB}) {
		t.Error("Capture after the restore finished should record")
	}
}

func TestNestedRestoreKeepsGuard(t *testing.T) {
	var m *Manager
	depth := 0
	var innerRecorded bool
	m = New(func([]canvas.Block) {
		depth++
		if depth == 1 {
			// A restore that triggers another undo, as rapid key repeats do.
			m.Undo()
			innerRecorded = m.Capture(numbered(42))
		}
	})
	m.Initialize(numbered(0))
	m.Capture(numbered(1))
	m.Capture(numbered(2))

	m.Undo()

	if innerRecorded {
		t.Error("capture after a nested restore returned, but the outer restore is still running")
	}
	if m.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0 after two undos", m.Cursor())
	}
	if m.Restoring() {
		t.Error("guard should be cleared after the outer restore returned")
	}
}

func TestRestoreReceivesCopy(t *testing.T) {
	var got []canvas.Block
	m := New(func(b []canvas.Block) { got = b })
	m.Initialize([]canvas.Block{blockC})
	m.Capture([]canvas.Block{blockA})
	m.Undo()

	got[0].Meta["k"] = "mutated"
	got[0].X = 1234

	cur, _ := m.Current()
	if cur.Blocks[0].Meta["k"] != "v" || cur.Blocks[0].X != blockC.X {
		t.Errorf("mutating restored blocks changed history: %+v", cur.Blocks[0])
	}
}

func TestCaptureCopiesInput(t *testing.T) {
	m := New(nil)
	live := []canvas.Block{blockC.Clone()}
	m.Capture(live)

	live[0].X = 500
	live[0].Meta["k"] = "live edit"

	cur, _ := m.Current()
	if diff := cmp.Diff(blockC, cur.Blocks[0]); diff != "" {
		t.Errorf("snapshot follows live edits (-want +got):\n%s", diff)
	}
}

func TestSnapshotTimestamps(t *testing.T) {
	base := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	tick := 0
	m := New(nil, WithClock(func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}))
	m.Initialize(numbered(0))
	m.Capture(numbered(1))

	snaps := m.Snapshots()
	if !snaps[0].CapturedAt.Equal(base.Add(time.Second)) || !snaps[1].CapturedAt.Equal(base.Add(2*time.Second)) {
		t.Errorf("timestamps = %v, %v", snaps[0].CapturedAt, snaps[1].CapturedAt)
	}
}

func TestReset(t *testing.T) {
	m := New(nil)
	m.Initialize(numbered(0))
	m.Capture(numbered(1))
	m.Reset()
	if m.Len() != 0 || m.Cursor() != -1 {
		t.Fatalf("after Reset: len=%d cursor=%d", m.Len(), m.Cursor())
	}
	m.Initialize(numbered(5))
	if m.Len() != 1 {
		t.Error("Initialize should seed again after Reset")
	}
}

func TestCanUndoCanRedoInvariant(t *testing.T) {
	m := New(nil, WithCapacity(4))
	ops := []func(){
		func() { m.Capture(numbered(1)) },
		func() { m.Undo() },
		func() { m.Capture(numbered(2)) },
		func() { m.Capture(numbered(3)) },
		func() { m.Redo() },
		func() { m.Undo() },
		func() { m.Undo() },
		func() { m.Redo() },
		func() { m.Capture(numbered(4)) },
		func() { m.Capture(numbered(5)) },
		func() { m.Capture(numbered(6)) },
	}
	for i, op := range ops {
		op()
		n, c := m.Len(), m.Cursor()
		if c < -1 || c >= n && n > 0 {
			t.Fatalf("step %d: cursor %d out of range for len %d", i, c, n)
		}
		if m.CanUndo() != (c > 0) {
			t.Errorf("step %d: CanUndo() = %v with cursor %d", i, m.CanUndo(), c)
		}
		if m.CanRedo() != (c < n-1) {
			t.Errorf("step %d: CanRedo() = %v with cursor %d len %d", i, m.CanRedo(), c, n)
		}
	}
}
