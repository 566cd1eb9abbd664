package store

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
)

// MemoryStore keeps boards in process memory. Boards are cloned on the way
// in and out so callers cannot mutate stored state.
type MemoryStore struct {
	mu     sync.RWMutex
	boards map[string]map[string]*canvas.Board
	now    func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{boards: make(map[string]map[string]*canvas.Board), now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, tenant, id string) (*canvas.Board, error) {
	if err := checkKey(tenant, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[tenant][id]
	if !ok {
		return nil, notFound(tenant, id)
	}
	return b.Clone(), nil
}

func (s *MemoryStore) Put(_ context.Context, board *canvas.Board) error {
	if err := prepare(board, s.now); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.boards[board.Tenant]
	if !ok {
		t = make(map[string]*canvas.Board)
		s.boards[board.Tenant] = t
	}
	t[board.ID] = board.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, tenant, id string) error {
	if err := checkKey(tenant, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[tenant][id]; !ok {
		return notFound(tenant, id)
	}
	delete(s.boards[tenant], id)
	return nil
}

func (s *MemoryStore) List(_ context.Context, tenant string) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.boards[tenant]))
	for _, b := range s.boards[tenant] {
		out = append(out, Summarize(b))
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
