// Package store persists boards keyed by (tenant, board ID).
//
// Backends:
//   - memory: in-process map for tests and the editor's scratch mode
//   - file: one JSON document per board, for the CLI
//   - sqlite: relational table through the pure-Go modernc driver
//   - redis: JSON values plus a per-tenant index set
//   - mongo: one document per board
//
// Boards are stored as opaque JSON documents; the store does not interpret
// blocks or edges beyond the summary fields returned by List.
package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
	cerrors "github.com/matzehuels/campaigncanvas/pkg/errors"
)

// ErrNotFound is returned when a board does not exist for the tenant.
var ErrNotFound = errors.New("board not found")

// Store is the interface implemented by every backend.
type Store interface {
	// Get returns the board or ErrNotFound.
	Get(ctx context.Context, tenant, id string) (*canvas.Board, error)

	// Put creates or replaces a board. The board's Tenant and ID select the slot.
	Put(ctx context.Context, board *canvas.Board) error

	// Delete removes a board. Deleting a missing board returns ErrNotFound.
	Delete(ctx context.Context, tenant, id string) error

	// List returns summaries of the tenant's boards, most recently updated first.
	List(ctx context.Context, tenant string) ([]Summary, error)

	Close() error
}

// Summary describes a stored board without its contents.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Blocks    int       `json:"blocks"`
	Edges     int       `json:"edges"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summarize builds the summary of b.
func Summarize(b *canvas.Board) Summary {
	return Summary{ID: b.ID, Name: b.Name, Blocks: len(b.Blocks), Edges: len(b.Edges), UpdatedAt: b.UpdatedAt}
}

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// checkKey validates the identifiers every backend embeds in keys or paths.
func checkKey(tenant, id string) error {
	if err := cerrors.ValidateID("tenant", tenant); err != nil {
		return err
	}
	return cerrors.ValidateID("board", id)
}

// prepare validates a board for writing and stamps UpdatedAt when unset.
func prepare(b *canvas.Board, now func() time.Time) error {
	if b == nil {
		return cerrors.New(cerrors.ErrCodeInvalidBoard, "board is nil")
	}
	if err := checkKey(b.Tenant, b.ID); err != nil {
		return err
	}
	if err := b.Validate(); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInvalidBoard, err, "invalid board %s", b.ID)
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now().UTC()
	}
	return nil
}

func notFound(tenant, id string) error {
	return fmt.Errorf("%w: %s/%s", ErrNotFound, tenant, id)
}
