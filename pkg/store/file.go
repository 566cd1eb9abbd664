package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

// FileStore keeps each board as <dir>/<tenant>/<id>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	now     func() time.Time
}

// NewFileStore creates a file-based store rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("file store: directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create board dir: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

// Path returns the base directory for board files.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) boardPath(tenant, id string) string {
	return filepath.Join(s.baseDir, tenant, id+".json")
}

func (s *FileStore) Get(_ context.Context, tenant, id string) (*canvas.Board, error) {
	if err := checkKey(tenant, id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.boardPath(tenant, id), tenant, id)
}

func (s *FileStore) read(path, tenant, id string) (*canvas.Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(tenant, id)
		}
		return nil, fmt.Errorf("read board file: %w", err)
	}
	var b canvas.Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse board %s: %w", path, err)
	}
	return &b, nil
}

func (s *FileStore) Put(_ context.Context, board *canvas.Board) error {
	if err := prepare(board, s.now); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	path := s.boardPath(board.Tenant, board.ID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create tenant dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write board file: %w", err)
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Delete(_ context.Context, tenant, id string) error {
	if err := checkKey(tenant, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.boardPath(tenant, id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(tenant, id)
		}
		return fmt.Errorf("remove board file: %w", err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context, tenant string) ([]Summary, error) {
	if err := cerrors.ValidateID("tenant", tenant); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	dir := filepath.Join(s.baseDir, tenant)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []Summary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tenant dir: %w", err)
	}

	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		id := entry.Name()[:len(entry.Name())-len(".json")]
		b, err := s.read(filepath.Join(dir, entry.Name()), tenant, id)
		if err != nil {
			continue
		}
		out = append(out, Summarize(b))
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
