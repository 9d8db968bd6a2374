// Package user implements Telegram user persistence.
package user

import (
	"context"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
	"github.com/heartmarshall/medkit/internal/domain"
)

const userColumns = `id, username, first_name, created_at`

const getByIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

const getByUsernameSQL = `
SELECT ` + userColumns + `
FROM users
WHERE lower(username) = lower($1)
ORDER BY updated_at DESC
LIMIT 1`

// xmax is zero only for a freshly inserted row.
const upsertSQL = `
INSERT INTO users (id, username, first_name, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (id) DO UPDATE
SET username = EXCLUDED.username, first_name = EXCLUDED.first_name, updated_at = now()
RETURNING (xmax = 0) AS created`

const listIDsSQL = `SELECT id FROM users ORDER BY id`

type row struct {
	ID        int64     `db:"id"`
	Username  *string   `db:"username"`
	FirstName string    `db:"first_name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Username:  r.Username,
		FirstName: r.FirstName,
		CreatedAt: r.CreatedAt,
	}
}

// Repo provides user persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// GetByID returns a user by Telegram id.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var rw row
	if err := pgxscan.Get(ctx, r.q(ctx), &rw, getByIDSQL, id); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}
	return rw.toDomain(), nil
}

// GetByUsername returns the user with the given username, ignoring case.
// Usernames can move between accounts; the most recently seen one wins.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var rw row
	if err := pgxscan.Get(ctx, r.q(ctx), &rw, getByUsernameSQL, username); err != nil {
		return nil, postgres.MapError(err, "user", "@"+username)
	}
	return rw.toDomain(), nil
}

// Upsert inserts the user or refreshes username and first name. It reports
// whether the row was created.
func (r *Repo) Upsert(ctx context.Context, u domain.User) (bool, error) {
	var created bool
	if err := r.q(ctx).QueryRow(ctx, upsertSQL, u.ID, u.Username, u.FirstName).Scan(&created); err != nil {
		return false, postgres.MapError(err, "user", u.ID)
	}
	return created, nil
}

// ListIDs returns every user id in ascending order.
func (r *Repo) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := pgxscan.Select(ctx, r.q(ctx), &ids, listIDsSQL); err != nil {
		return nil, postgres.MapError(err, "users", "all")
	}
	return ids, nil
}
