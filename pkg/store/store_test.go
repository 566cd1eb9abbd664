package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	"github.com/matzehuels/campaigncanvas/pkg/config"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
	"github.com/matzehuels/campaigncanvas/pkg/geometry"
)

func sampleBoard(tenant, id string, updated time.Time) *canvas.Board {
	return &canvas.Board{
		ID:     id,
		Tenant: tenant,
		Name:   "Q3 launch " + id,
		Blocks: []canvas.Block{
			{ID: "hero", Type: canvas.BlockImage, X: 0, Y: 0, Width: 100, Height: 50, Meta: map[string]string{"src": "hero.png"}},
			{ID: "cta", Type: canvas.BlockCTA, X: 300, Y: 0, Width: 100, Height: 50, Content: "Buy now"},
		},
		Edges: []canvas.Edge{
			{ID: "e1", Source: "hero", Target: "cta", Style: geometry.StyleBezier, Color: "#ff0000"},
		},
		UpdatedAt: updated,
	}
}

// runConformance exercises the behavior every backend shares.
func runConformance(t *testing.T, s Store) {
	ctx := context.Background()
	t0 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "acme", "nope")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get() err = %v, want ErrNotFound", err)
		}
	})

	t.Run("put and get", func(t *testing.T) {
		in := sampleBoard("acme", "b1", t0)
		if err := s.Put(ctx, in); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		got, err := s.Get(ctx, "acme", "b1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if diff := cmp.Diff(in, got, cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
			t.Errorf("board mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		b := sampleBoard("acme", "b1", t0.Add(time.Minute))
		b.Blocks = b.Blocks[:1]
		b.Edges = nil
		if err := s.Put(ctx, b); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, "acme", "b1")
		if err != nil {
			t.Fatal(err)
		}
		if len(got.Blocks) != 1 || len(got.Edges) != 0 {
			t.Errorf("replace not applied: %d blocks %d edges", len(got.Blocks), len(got.Edges))
		}
	})

	t.Run("tenant isolation", func(t *testing.T) {
		if _, err := s.Get(ctx, "globex", "b1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("other tenant should not see b1, err = %v", err)
		}
	})

	t.Run("same id in two tenants", func(t *testing.T) {
		other := sampleBoard("globex", "b1", t0.Add(2*time.Minute))
		other.Name = "Globex board"
		if err := s.Put(ctx, other); err != nil {
			t.Fatalf("Put(globex/b1) error = %v", err)
		}
		mine, err := s.Get(ctx, "acme", "b1")
		if err != nil {
			t.Fatal(err)
		}
		theirs, err := s.Get(ctx, "globex", "b1")
		if err != nil {
			t.Fatal(err)
		}
		if mine.Name != "Q3 launch b1" || theirs.Name != "Globex board" {
			t.Errorf("names = %q, %q", mine.Name, theirs.Name)
		}
		if mine.Tenant != "acme" || theirs.Tenant != "globex" {
			t.Errorf("tenants = %q, %q", mine.Tenant, theirs.Tenant)
		}

		if err := s.Delete(ctx, "globex", "b1"); err != nil {
			t.Fatalf("Delete(globex/b1) error = %v", err)
		}
		if _, err := s.Get(ctx, "acme", "b1"); err != nil {
			t.Errorf("acme/b1 gone after deleting globex/b1: %v", err)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		if err := s.Put(ctx, sampleBoard("acme", "b2", t0.Add(time.Hour))); err != nil {
			t.Fatal(err)
		}
		if err := s.Put(ctx, sampleBoard("acme", "b0", t0.Add(-time.Hour))); err != nil {
			t.Fatal(err)
		}
		got, err := s.List(ctx, "acme")
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, sum := range got {
			ids = append(ids, sum.ID)
		}
		if diff := cmp.Diff([]string{"b2", "b1", "b0"}, ids); diff != "" {
			t.Errorf("List order (-want +got):\n%s", diff)
		}
		if got[0].Blocks != 2 || got[0].Edges != 1 || got[0].Name != "Q3 launch b2" {
			t.Errorf("summary = %+v", got[0])
		}

		empty, err := s.List(ctx, "nobody")
		if err != nil || len(empty) != 0 {
			t.Errorf("List(empty tenant) = %v, %v", empty, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := s.Delete(ctx, "acme", "b0"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, "acme", "b0"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get after Delete err = %v", err)
		}
		if err := s.Delete(ctx, "acme", "b0"); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete err = %v, want ErrNotFound", err)
		}
		got, _ := s.List(ctx, "acme")
		if len(got) != 2 {
			t.Errorf("List after delete = %d boards", len(got))
		}
	})

	t.Run("rejects invalid", func(t *testing.T) {
		bad := sampleBoard("acme", "b9", t0)
		bad.Blocks = append(bad.Blocks, canvas.Block{ID: "hero"})
		if err := s.Put(ctx, bad); !cerrors.Is(err, cerrors.ErrCodeInvalidBoard) {
			t.Errorf("duplicate block ids: err = %v", err)
		}
		if err := s.Put(ctx, sampleBoard("../etc", "b9", t0)); !cerrors.Is(err, cerrors.ErrCodeInvalidID) {
			t.Errorf("bad tenant: err = %v", err)
		}
		if _, err := s.Get(ctx, "acme", "a/b"); !cerrors.Is(err, cerrors.ErrCodeInvalidID) {
			t.Errorf("bad id: err = %v", err)
		}
	})

	t.Run("stamps updated_at", func(t *testing.T) {
		b := sampleBoard("acme", "fresh", time.Time{})
		if err := s.Put(ctx, b); err != nil {
			t.Fatal(err)
		}
		if b.UpdatedAt.IsZero() {
			t.Error("Put should stamp UpdatedAt")
		}
	})
}

func TestMemoryStore(t *testing.T) {
	runConformance(t, NewMemoryStore())
}

func TestMemoryStore_CopiesBoards(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	b := sampleBoard("acme", "b1", time.Now())
	if err := s.Put(ctx, b); err != nil {
		t.Fatal(err)
	}
	b.Blocks[0].Meta["src"] = "mutated"

	got, _ := s.Get(ctx, "acme", "b1")
	if got.Blocks[0].Meta["src"] != "hero.png" {
		t.Error("store should hold its own copy")
	}
	got.Blocks[0].X = 999
	again, _ := s.Get(ctx, "acme", "b1")
	if again.Blocks[0].X == 999 {
		t.Error("Get should return a copy")
	}
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runConformance(t, s)
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(context.Background(), sampleBoard("acme", "b1", time.Now())); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "acme", "b1.json")); err != nil {
		t.Errorf("expected board file: %v", err)
	}
	if _, err := NewFileStore(""); err == nil {
		t.Error("empty dir should be rejected")
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "boards.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer s.Close()
	runConformance(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CAMPAIGNCANVAS_TEST_REDIS")
	if addr == "" {
		t.Skip("CAMPAIGNCANVAS_TEST_REDIS not set")
	}
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: addr, Prefix: "cc-test:" + time.Now().Format("150405.000") + ":"})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runConformance(t, s)
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("CAMPAIGNCANVAS_TEST_MONGO")
	if uri == "" {
		t.Skip("CAMPAIGNCANVAS_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "cc_test_"+time.Now().Format("150405"))
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.coll.Database().Drop(ctx)
		s.Close()
	}()
	runConformance(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     config.Store
		wantErr bool
	}{
		{"memory", config.Store{Backend: "memory"}, false},
		{"file", config.Store{Backend: "file", Dir: t.TempDir()}, false},
		{"sqlite", config.Store{Backend: "sqlite", DSN: filepath.Join(t.TempDir(), "x.db")}, false},
		{"mongo without dsn", config.Store{Backend: "mongo"}, true},
		{"unknown", config.Store{Backend: "postgres"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
