// Package session implements dialogue.Store on a PostgreSQL table. Expired
// rows are invisible to Get and purged by DeleteExpired.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
)

const getSQL = `
SELECT data
FROM sessions
WHERE key = $1 AND expires_at > $2`

const putSQL = `
INSERT INTO sessions (key, data, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE
SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at`

const deleteSQL = `DELETE FROM sessions WHERE key = ANY($1)`

const deleteExpiredSQL = `DELETE FROM sessions WHERE expires_at <= $1`

// Store keeps dialogue sessions and share requests in PostgreSQL.
type Store struct {
	db  postgres.Querier
	now func() time.Time
}

// New creates a session store.
func New(db postgres.Querier) *Store {
	return &Store{db: db, now: time.Now}
}

// Get returns the stored bytes. A missing or expired key yields found=false.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(ctx, getSQL, key, s.now()).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, postgres.MapError(err, "session", key)
	}
	return data, true, nil
}

// Put stores data under key until ttl elapses.
func (s *Store) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("session %s: ttl must be positive", key)
	}
	if _, err := s.db.Exec(ctx, putSQL, key, data, s.now().Add(ttl)); err != nil {
		return postgres.MapError(err, "session", key)
	}
	return nil
}

// Delete removes keys. Missing keys are ignored.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.Exec(ctx, deleteSQL, keys); err != nil {
		return postgres.MapError(err, "session", keys)
	}
	return nil
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, `SELECT 1`); err != nil {
		return fmt.Errorf("ping session store: %w", err)
	}
	return nil
}

// DeleteExpired purges expired rows and returns how many were removed.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredSQL, s.now())
	if err != nil {
		return 0, postgres.MapError(err, "sessions", "expired")
	}
	return tag.RowsAffected(), nil
}
