package history

import (
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
)

// DefaultCapacity is the number of snapshots retained when no capacity is
// configured.
const DefaultCapacity = 50

// Snapshot is a deep copy of a block collection at one point in time.
type Snapshot struct {
	Blocks     []canvas.Block `json:"blocks"`
	CapturedAt time.Time      `json:"captured_at"`
}

func (s Snapshot) clone() Snapshot {
	return Snapshot{Blocks: canvas.CloneBlocks(s.Blocks), CapturedAt: s.CapturedAt}
}

// RestoreFunc applies a snapshot's blocks to the live canvas. It receives a
// copy the callee may keep and mutate.
type RestoreFunc func(blocks []canvas.Block)

// Option configures a Manager.
type Option func(*Manager)

// WithCapacity sets the maximum number of retained snapshots. Values below
// one select [DefaultCapacity].
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger attaches a logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// Manager is the undo/redo timeline for one canvas session.
type Manager struct {
	mu        sync.Mutex
	restore   RestoreFunc
	snapshots []Snapshot
	cursor    int
	capacity  int
	restoring int // depth of in-flight restore callbacks
	now       func() time.Time
	logger    *log.Logger
}

// New returns an empty Manager that calls restore on undo and redo.
// restore may be nil, in which case undo and redo only move the cursor.
func New(restore RestoreFunc, opts ...Option) *Manager {
	m := &Manager{
		restore:  restore,
		cursor:   -1,
		capacity: DefaultCapacity,
		now:      time.Now,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize seeds the timeline with the first observed block collection.
// It only acts on the first call with a non-nil collection; later calls, and
// calls while any history exists, are no-ops. An empty collection is a valid
// seed.
func (m *Manager) Initialize(blocks []canvas.Block) {
	if blocks == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.snapshots) > 0 {
		return
	}
	m.snapshots = append(m.snapshots, m.snapshotLocked(blocks))
	m.cursor = 0
}

// Capture records blocks as the newest snapshot and reports whether it was
// recorded. It is ignored while a restore is in progress. Any snapshots after
// the cursor are discarded first, and the oldest snapshots are evicted once
// the capacity is exceeded.
func (m *Manager) Capture(blocks []canvas.Block) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.restoring > 0 {
		m.logger.Debug("history: capture suppressed during restore")
		return false
	}

	m.snapshots = append(m.snapshots[:m.cursor+1], m.snapshotLocked(blocks))
	if excess := len(m.snapshots) - m.capacity; excess > 0 {
		m.snapshots = slices.Delete(m.snapshots, 0, excess)
		m.logger.Debug("history: evicted oldest snapshots", "count", excess)
	}
	m.cursor = len(m.snapshots) - 1
	return true
}

func (m *Manager) snapshotLocked(blocks []canvas.Block) Snapshot {
	c := canvas.CloneBlocks(blocks)
	if c == nil {
		c = []canvas.Block{}
	}
	return Snapshot{Blocks: c, CapturedAt: m.now()}
}

// Undo moves to the previous snapshot and restores it. It returns false,
// changing nothing, when already at the oldest snapshot.
func (m *Manager) Undo() bool {
	m.mu.Lock()
	if m.cursor <= 0 {
		m.mu.Unlock()
		return false
	}
	return m.moveLocked(m.cursor - 1)
}

// Redo moves to the next snapshot and restores it. It returns false,
// changing nothing, when already at the newest snapshot.
func (m *Manager) Redo() bool {
	m.mu.Lock()
	if m.cursor >= len(m.snapshots)-1 {
		m.mu.Unlock()
		return false
	}
	return m.moveLocked(m.cursor + 1)
}

// moveLocked is entered with mu held and releases it before running the
// restore callback, so the callback may call back into the manager.
func (m *Manager) moveLocked(to int) bool {
	m.cursor = to
	blocks := canvas.CloneBlocks(m.snapshots[to].Blocks)
	restore := m.restore
	m.restoring++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.restoring--
		m.mu.Unlock()
	}()

	if restore != nil {
		restore(blocks)
	}
	return true
}

// CanUndo reports whether there is an older snapshot to move to.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor > 0
}

// CanRedo reports whether there is a newer snapshot to move to.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor < len(m.snapshots)-1
}

// Restoring reports whether a restore callback is currently running.
func (m *Manager) Restoring() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.restoring > 0
}

// Len returns the number of retained snapshots.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snapshots)
}

// Cursor returns the index of the current snapshot, or -1 when empty.
func (m *Manager) Cursor() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursor
}

// Capacity returns the maximum number of retained snapshots.
func (m *Manager) Capacity() int { return m.capacity }

// Current returns a copy of the snapshot at the cursor.
func (m *Manager) Current() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cursor < 0 {
		return Snapshot{}, false
	}
	return m.snapshots[m.cursor].clone(), true
}

// Snapshots returns copies of all retained snapshots, oldest first.
func (m *Manager) Snapshots() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Snapshot, len(m.snapshots))
	for i, s := range m.snapshots {
		out[i] = s.clone()
	}
	return out
}

// Reset discards all history, returning the manager to its empty state.
// It does not call the restore callback.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots = nil
	m.cursor = -1
}
