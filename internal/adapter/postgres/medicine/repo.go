// Package medicine implements the shared medicine catalog repository.
package medicine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
	"github.com/heartmarshall/medkit/internal/domain"
)

const table = "medicines"

var columns = []string{"id", "name", "type", "category", "dosage", "notes", "flags", "created_at"}

type row struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Category  string    `db:"category"`
	Dosage    *string   `db:"dosage"`
	Notes     *string   `db:"notes"`
	Flags     int       `db:"flags"`
	CreatedAt time.Time `db:"created_at"`
}

func (r row) toDomain() domain.Medicine {
	return domain.Medicine{
		ID:           r.ID,
		Name:         r.Name,
		Type:         domain.MedicineType(r.Type),
		Category:     domain.MedicineCategory(r.Category),
		Dosage:       r.Dosage,
		Notes:        r.Notes,
		Verification: domain.VerificationFromFlags(r.Flags),
		CreatedAt:    r.CreatedAt,
	}
}

// Repo provides catalog persistence.
type Repo struct {
	db postgres.Querier
}

// New creates a catalog repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// GetByID returns a catalog entry by id.
func (r *Repo) GetByID(ctx context.Context, id int64) (*domain.Medicine, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id})

	return r.getOne(ctx, query, id)
}

// FindByKey returns the oldest entry with the same name (case-insensitive),
// type and dosage. A nil dosage matches only entries without one.
func (r *Repo) FindByKey(ctx context.Context, name string, typ domain.MedicineType, dosage *string) (*domain.Medicine, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		Where(squirrel.Expr("lower(name) = lower(?)", name)).
		Where(squirrel.Eq{"type": string(typ)}).
		OrderBy("id ASC").
		Limit(1)

	if dosage == nil {
		query = query.Where(squirrel.Expr("dosage IS NULL"))
	} else {
		query = query.Where(squirrel.Expr("lower(dosage) = lower(?)", *dosage))
	}

	return r.getOne(ctx, query, name)
}

// List returns entries matching filter, oldest first.
func (r *Repo) List(ctx context.Context, filter domain.MedicineFilter) ([]domain.Medicine, error) {
	query := postgres.Builder().
		Select(columns...).
		From(table).
		OrderBy("created_at ASC", "id ASC")

	if filter.NameContains != nil && *filter.NameContains != "" {
		query = query.Where(squirrel.ILike{"name": postgres.Contains(*filter.NameContains)})
	}
	if filter.Type != nil {
		query = query.Where(squirrel.Eq{"type": string(*filter.Type)})
	}
	if filter.Category != nil {
		query = query.Where(squirrel.Eq{"category": string(*filter.Category)})
	}
	if filter.Verification != nil {
		query = query.Where(verificationCond(*filter.Verification))
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list medicines: %w", err)
	}

	var rows []row
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "medicines", "list")
	}

	out := make([]domain.Medicine, len(rows))
	for i, rw := range rows {
		out[i] = rw.toDomain()
	}
	return out, nil
}

// Create inserts a new entry.
func (r *Repo) Create(ctx context.Context, m *domain.Medicine) (*domain.Medicine, error) {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := postgres.Builder().
		Insert(table).
		Columns("name", "type", "category", "dosage", "notes", "flags", "created_at").
		Values(m.Name, string(m.Type), string(m.Category), m.Dosage, m.Notes, m.Verification.Flags(), createdAt).
		Suffix("RETURNING " + returning())

	return r.getOne(ctx, query, m.Name)
}

// Update applies a partial update. An empty update returns the entry as is.
func (r *Repo) Update(ctx context.Context, id int64, upd domain.MedicineUpdate) (*domain.Medicine, error) {
	if upd.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	query := postgres.Builder().
		Update(table).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + returning())

	if upd.Name != nil {
		query = query.Set("name", *upd.Name)
	}
	if upd.Category != nil {
		query = query.Set("category", string(*upd.Category))
	}
	if upd.Dosage != nil {
		query = query.Set("dosage", *upd.Dosage)
	}
	if upd.Notes != nil {
		query = query.Set("notes", *upd.Notes)
	}
	if upd.Verification != nil {
		query = query.Set("flags", upd.Verification.Flags())
	}

	return r.getOne(ctx, query, id)
}

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, key any) (*domain.Medicine, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build medicine query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, r.q(ctx), &rw, sql, args...); err != nil {
		return nil, postgres.MapError(err, "medicine", key)
	}
	m := rw.toDomain()
	return &m, nil
}

func verificationCond(v domain.Verification) squirrel.Sqlizer {
	switch v {
	case domain.VerificationVerified:
		return squirrel.Expr("flags & 1 = 1")
	case domain.VerificationRejected:
		return squirrel.Expr("flags = 2")
	default:
		return squirrel.Eq{"flags": 0}
	}
}

func returning() string {
	return strings.Join(columns, ", ")
}
