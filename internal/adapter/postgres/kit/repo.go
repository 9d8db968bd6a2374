// Package kit implements medicine kit and membership persistence.
package kit

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
	"github.com/heartmarshall/medkit/internal/domain"
)

const returning = "RETURNING id, name, description, is_deleted, created_at"

var columns = []string{"k.id", "k.name", "k.description", "k.is_deleted", "k.created_at"}

type row struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	IsDeleted   bool      `db:"is_deleted"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r row) toDomain() domain.Kit {
	return domain.Kit{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsDeleted:   r.IsDeleted,
		CreatedAt:   r.CreatedAt,
	}
}

// Repo provides kit persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a kit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

func memberKits(userID int64) squirrel.SelectBuilder {
	return postgres.Builder().
		Select(columns...).
		From("kits k").
		Join("kit_members m ON m.kit_id = k.id").
		Where(squirrel.Eq{"m.user_id": userID})
}

// ListByUser returns the user's kits with the given deleted flag, by name.
func (r *Repo) ListByUser(ctx context.Context, userID int64, deleted bool) ([]domain.Kit, error) {
	sql, args, err := memberKits(userID).
		Where(squirrel.Eq{"k.is_deleted": deleted}).
		OrderBy("k.name ASC", "k.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list kits: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "user kits", userID)
	}

	out := make([]domain.Kit, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// GetForUser returns a kit the user is a member of, deleted or not.
// Kits of other users yield ErrNotFound.
func (r *Repo) GetForUser(ctx context.Context, userID, kitID int64) (*domain.Kit, error) {
	return r.getOne(ctx, memberKits(userID).Where(squirrel.Eq{"k.id": kitID}), kitID)
}

// Create inserts a kit without members.
func (r *Repo) Create(ctx context.Context, name string, description *string) (*domain.Kit, error) {
	query := postgres.Builder().
		Insert("kits").
		Columns("name", "description").
		Values(name, description).
		Suffix(returning)

	return r.getOne(ctx, query, name)
}

// Update applies a partial update.
func (r *Repo) Update(ctx context.Context, kitID int64, upd domain.KitUpdate) (*domain.Kit, error) {
	if upd.IsEmpty() {
		return nil, domain.NewValidationError("update", "no fields to update")
	}

	query := postgres.Builder().
		Update("kits").
		Where(squirrel.Eq{"id": kitID}).
		Suffix(returning)

	if upd.Name != nil {
		query = query.Set("name", *upd.Name)
	}
	if upd.Description != nil {
		query = query.Set("description", *upd.Description)
	}
	if upd.IsDeleted != nil {
		query = query.Set("is_deleted", *upd.IsDeleted)
	}

	return r.getOne(ctx, query, kitID)
}

// AddMember grants userID access to the kit. An existing membership yields
// ErrAlreadyExists.
func (r *Repo) AddMember(ctx context.Context, kitID, userID int64) error {
	sql, args, err := postgres.Builder().
		Insert("kit_members").
		Columns("kit_id", "user_id").
		Values(kitID, userID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build add member: %w", err)
	}

	if _, err := r.q(ctx).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "kit member", fmt.Sprintf("%d/%d", kitID, userID))
	}
	return nil
}

// IsMember reports whether userID has access to the kit.
func (r *Repo) IsMember(ctx context.Context, kitID, userID int64) (bool, error) {
	var ok bool
	err := r.q(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM kit_members WHERE kit_id = $1 AND user_id = $2)`,
		kitID, userID,
	).Scan(&ok)
	if err != nil {
		return false, postgres.MapError(err, "kit member", fmt.Sprintf("%d/%d", kitID, userID))
	}
	return ok, nil
}

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, key any) (*domain.Kit, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build kit query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, r.q(ctx), &rw, sql, args...); err != nil {
		return nil, postgres.MapError(err, "kit", key)
	}
	k := rw.toDomain()
	return &k, nil
}
