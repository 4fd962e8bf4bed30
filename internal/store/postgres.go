package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS drawings (
    id           TEXT PRIMARY KEY,
    name         TEXT NOT NULL,
    owner_id     TEXT NOT NULL,
    object_count INTEGER NOT NULL DEFAULT 0,
    content      BYTEA NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS drawings_owner_idx ON drawings (owner_id, updated_at DESC);
`

// PGStore keeps drawings in a Postgres table, content as bytea.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// EnsureSchema creates the drawings table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PGStore) List(ctx context.Context, ownerID string) ([]Drawing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, owner_id, object_count, created_at, updated_at
		FROM drawings
		WHERE owner_id = $1
		ORDER BY updated_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings, err := pgx.CollectRows(rows, scanDrawing)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	if drawings == nil {
		drawings = []Drawing{}
	}
	return drawings, nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*Drawing, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, owner_id, object_count, created_at, updated_at
		FROM drawings
		WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get drawing: %w", err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanDrawing)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get drawing: %w", err)
	}
	return &d, nil
}

func (s *PGStore) Content(ctx context.Context, id string) ([]byte, error) {
	var content []byte
	err := s.pool.QueryRow(ctx, `SELECT content FROM drawings WHERE id = $1`, id).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get drawing content: %w", err)
	}
	return content, nil
}

func (s *PGStore) Create(ctx context.Context, d Drawing, content []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO drawings (id, name, owner_id, object_count, content)
		VALUES ($1, $2, $3, $4, $5)`,
		d.ID, d.Name, d.OwnerID, d.ObjectCount, content)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrExists
		}
		return fmt.Errorf("create drawing: %w", err)
	}
	return nil
}

func (s *PGStore) Save(ctx context.Context, id string, content []byte, objectCount int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE drawings
		SET content = $2, object_count = $3, updated_at = now()
		WHERE id = $1`, id, content, objectCount)
	if err != nil {
		return fmt.Errorf("save drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM drawings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDrawing(row pgx.CollectableRow) (Drawing, error) {
	var d Drawing
	err := row.Scan(&d.ID, &d.Name, &d.OwnerID, &d.ObjectCount, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
