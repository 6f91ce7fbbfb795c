package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("archived interview not found")

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS graded_interviews (
	id          uuid PRIMARY KEY,
	session_id  uuid NOT NULL UNIQUE,
	segment     text NOT NULL,
	problem     text NOT NULL,
	hypothesis  text NOT NULL,
	persona     text NOT NULL DEFAULT '',
	provider    text NOT NULL,
	transcript  jsonb NOT NULL,
	turns       integer NOT NULL,
	critique    text NOT NULL,
	score       double precision,
	created_at  timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS graded_interviews_created_at_idx ON graded_interviews (created_at DESC);
`

// EnsureSchema creates the archive table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
