package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS boards (
	tenant      TEXT NOT NULL,
	id          TEXT NOT NULL,
	name        TEXT NOT NULL DEFAULT '',
	block_count INTEGER NOT NULL DEFAULT 0,
	edge_count  INTEGER NOT NULL DEFAULT 0,
	doc         TEXT NOT NULL,
	updated_at  INTEGER NOT NULL,
	PRIMARY KEY (tenant, id)
);
CREATE INDEX IF NOT EXISTS idx_boards_tenant_updated ON boards(tenant, updated_at DESC);
`

// SQLiteStore keeps boards in a single relational table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (and migrates) the database at dsn. Use ":memory:"
// for a private in-memory database.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode = WAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, tenant, id string) (*canvas.Board, error) {
	if err := checkKey(tenant, id); err != nil {
		return nil, err
	}
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM boards WHERE tenant = ? AND id = ?`, tenant, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(tenant, id)
	}
	if err != nil {
		return nil, fmt.Errorf("query board: %w", err)
	}
	var b canvas.Board
	if err := json.Unmarshal([]byte(doc), &b); err != nil {
		return nil, fmt.Errorf("decode board %s/%s: %w", tenant, id, err)
	}
	return &b, nil
}

func (s *SQLiteStore) Put(ctx context.Context, board *canvas.Board) error {
	if err := prepare(board, s.now); err != nil {
		return err
	}
	doc, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO boards (tenant, id, name, block_count, edge_count, doc, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant, id) DO UPDATE SET
			name = excluded.name,
			block_count = excluded.block_count,
			edge_count = excluded.edge_count,
			doc = excluded.doc,
			updated_at = excluded.updated_at`,
		board.Tenant, board.ID, board.Name, len(board.Blocks), len(board.Edges),
		string(doc), board.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("upsert board: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, tenant, id string) error {
	if err := checkKey(tenant, id); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE tenant = ? AND id = ?`, tenant, id)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(tenant, id)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, tenant string) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, block_count, edge_count, updated_at
		FROM boards WHERE tenant = ?`, tenant)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var (
			sum     Summary
			updated int64
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Blocks, &sum.Edges, &updated); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		sum.UpdatedAt = time.Unix(0, updated).UTC()
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortSummaries(out)
	return out, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
