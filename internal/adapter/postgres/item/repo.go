// Package item implements inventory item persistence.
package item

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/adapter/postgres"
	"github.com/heartmarshall/medkit/internal/domain"
)

// maxQuantity is the largest value NUMERIC(10,2) holds.
const maxQuantity = "99999999.99"

const returning = "RETURNING id, kit_id, medicine_id, quantity::text AS quantity, unit, " +
	"expiry_date, location, notes, created_at, updated_at"

var detailColumns = []string{
	"i.id", "i.kit_id", "i.medicine_id", "i.quantity::text AS quantity", "i.unit",
	"i.expiry_date", "i.location", "i.notes", "i.created_at", "i.updated_at",
	"m.name AS medicine_name", "m.type AS medicine_type", "m.category AS medicine_category",
	"m.dosage AS medicine_dosage", "m.notes AS medicine_notes", "m.flags AS medicine_flags",
	"m.created_at AS medicine_created_at", "k.name AS kit_name",
}

type row struct {
	ID         int64      `db:"id"`
	KitID      int64      `db:"kit_id"`
	MedicineID int64      `db:"medicine_id"`
	Quantity   string     `db:"quantity"`
	Unit       string     `db:"unit"`
	ExpiryDate *time.Time `db:"expiry_date"`
	Location   *string    `db:"location"`
	Notes      *string    `db:"notes"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

func (r row) toDomain() (domain.Item, error) {
	qty, err := decimal.NewFromString(r.Quantity)
	if err != nil {
		return domain.Item{}, fmt.Errorf("item %d: parse quantity %q: %w", r.ID, r.Quantity, err)
	}
	return domain.Item{
		ID:         r.ID,
		KitID:      r.KitID,
		MedicineID: r.MedicineID,
		Quantity:   qty,
		Unit:       r.Unit,
		ExpiryDate: r.ExpiryDate,
		Location:   r.Location,
		Notes:      r.Notes,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}, nil
}

type detailRow struct {
	row
	MedicineName      string    `db:"medicine_name"`
	MedicineType      string    `db:"medicine_type"`
	MedicineCategory  string    `db:"medicine_category"`
	MedicineDosage    *string   `db:"medicine_dosage"`
	MedicineNotes     *string   `db:"medicine_notes"`
	MedicineFlags     int       `db:"medicine_flags"`
	MedicineCreatedAt time.Time `db:"medicine_created_at"`
	KitName           string    `db:"kit_name"`
}

func (r detailRow) toDomain() (domain.ItemDetails, error) {
	it, err := r.row.toDomain()
	if err != nil {
		return domain.ItemDetails{}, err
	}
	return domain.ItemDetails{
		Item: it,
		Medicine: domain.Medicine{
			ID:           r.MedicineID,
			Name:         r.MedicineName,
			Type:         domain.MedicineType(r.MedicineType),
			Category:     domain.MedicineCategory(r.MedicineCategory),
			Dosage:       r.MedicineDosage,
			Notes:        r.MedicineNotes,
			Verification: domain.VerificationFromFlags(r.MedicineFlags),
			CreatedAt:    r.MedicineCreatedAt,
		},
		KitName: r.KitName,
	}, nil
}

// Repo provides item persistence.
type Repo struct {
	db postgres.Querier
}

// New creates an item repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

func details() squirrel.SelectBuilder {
	return postgres.Builder().
		Select(detailColumns...).
		From("items i").
		Join("medicines m ON m.id = i.medicine_id").
		Join("kits k ON k.id = i.kit_id")
}

func applyFilter(q squirrel.SelectBuilder, f domain.ItemFilter) squirrel.SelectBuilder {
	if f.ExpiredAt != nil {
		q = q.Where(squirrel.Lt{"i.expiry_date": *f.ExpiredAt})
	}
	if f.ExpiringFrom != nil {
		q = q.Where(squirrel.GtOrEq{"i.expiry_date": *f.ExpiringFrom})
	}
	if f.ExpiringTo != nil {
		q = q.Where(squirrel.LtOrEq{"i.expiry_date": *f.ExpiringTo})
	}
	if f.LocationContains != nil && *f.LocationContains != "" {
		q = q.Where(squirrel.ILike{"i.location": postgres.Contains(*f.LocationContains)})
	}
	if f.NameContains != nil && *f.NameContains != "" {
		q = q.Where(squirrel.ILike{"m.name": postgres.Contains(*f.NameContains)})
	}
	if f.Category != nil {
		q = q.Where(squirrel.Eq{"m.category": string(*f.Category)})
	}
	if f.QuantityAtMost != nil {
		q = q.Where(squirrel.Expr("i.quantity <= ?::numeric", *f.QuantityAtMost))
	}
	return q
}

func page(q squirrel.SelectBuilder, f domain.ItemFilter) squirrel.SelectBuilder {
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	return q
}

// GetByID returns an item with its catalog entry and kit name.
func (r *Repo) GetByID(ctx context.Context, itemID int64) (*domain.ItemDetails, error) {
	sql, args, err := details().Where(squirrel.Eq{"i.id": itemID}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item: %w", err)
	}

	var rw detailRow
	if err := pgxscan.Get(ctx, r.q(ctx), &rw, sql, args...); err != nil {
		return nil, postgres.MapError(err, "item", itemID)
	}
	d, err := rw.toDomain()
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByKit returns a kit's items ordered by medicine name.
func (r *Repo) ListByKit(ctx context.Context, kitID int64, filter domain.ItemFilter) ([]domain.ItemDetails, error) {
	q := applyFilter(details(), filter).
		Where(squirrel.Eq{"i.kit_id": kitID}).
		OrderBy("m.name ASC", "i.id ASC")

	return r.list(ctx, page(q, filter), kitID)
}

// CountByKit counts a kit's items matching filter. Limit and Offset are ignored.
func (r *Repo) CountByKit(ctx context.Context, kitID int64, filter domain.ItemFilter) (int, error) {
	q := postgres.Builder().
		Select("count(*)").
		From("items i").
		Join("medicines m ON m.id = i.medicine_id").
		Where(squirrel.Eq{"i.kit_id": kitID})

	sql, args, err := applyFilter(q, filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count items: %w", err)
	}

	var n int
	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "kit items", kitID)
	}
	return n, nil
}

// ListByUser returns items across the live kits userID is a member of.
func (r *Repo) ListByUser(ctx context.Context, userID int64, filter domain.ItemFilter) ([]domain.ItemDetails, error) {
	q := applyFilter(details(), filter).
		Join("kit_members km ON km.kit_id = i.kit_id").
		Where(squirrel.Eq{"k.is_deleted": false}).
		Where(squirrel.Eq{"km.user_id": userID}).
		OrderBy("k.name ASC", "m.name ASC", "i.id ASC")

	return r.list(ctx, page(q, filter), userID)
}

// Create inserts an item.
func (r *Repo) Create(ctx context.Context, in domain.NewItem) (*domain.Item, error) {
	q := postgres.Builder().
		Insert("items").
		Columns("kit_id", "medicine_id", "quantity", "unit", "expiry_date", "location", "notes").
		Values(in.KitID, in.MedicineID, in.Quantity.String(), in.Unit, in.ExpiryDate, in.Location, in.Notes).
		Suffix(returning)

	return r.getOne(ctx, q, in.KitID)
}

// Update applies a partial update and bumps updated_at.
func (r *Repo) Update(ctx context.Context, itemID int64, upd domain.ItemUpdate) (*domain.Item, error) {
	if upd.IsEmpty() {
		return nil, domain.NewValidationError("update", "no fields to update")
	}

	q := postgres.Builder().
		Update("items").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID}).
		Suffix(returning)

	if upd.Quantity != nil {
		q = q.Set("quantity", upd.Quantity.String())
	}
	if upd.Unit != nil {
		q = q.Set("unit", *upd.Unit)
	}
	if upd.ExpiryDate != nil {
		q = q.Set("expiry_date", *upd.ExpiryDate)
	}
	if upd.Location != nil {
		q = q.Set("location", *upd.Location)
	}
	if upd.Notes != nil {
		q = q.Set("notes", *upd.Notes)
	}

	return r.getOne(ctx, q, itemID)
}

// AdjustQuantity adds delta to the stored quantity, clamped to
// [0, 99999999.99].
func (r *Repo) AdjustQuantity(ctx context.Context, itemID int64, delta decimal.Decimal) (*domain.Item, error) {
	q := postgres.Builder().
		Update("items").
		Set("quantity", squirrel.Expr("LEAST(GREATEST(quantity + ?::numeric, 0), ?::numeric)", delta.String(), maxQuantity)).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": itemID}).
		Suffix(returning)

	return r.getOne(ctx, q, itemID)
}

// Delete removes an item. It reports whether a row was deleted.
func (r *Repo) Delete(ctx context.Context, itemID int64) (bool, error) {
	sql, args, err := postgres.Builder().
		Delete("items").
		Where(squirrel.Eq{"id": itemID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete item: %w", err)
	}

	tag, err := r.q(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, postgres.MapError(err, "item", itemID)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) list(ctx context.Context, q squirrel.SelectBuilder, key any) ([]domain.ItemDetails, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}

	var rows []detailRow
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, "items", key)
	}

	out := make([]domain.ItemDetails, 0, len(rows))
	for _, rw := range rows {
		d, err := rw.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *Repo) getOne(ctx context.Context, q squirrel.Sqlizer, key any) (*domain.Item, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item query: %w", err)
	}

	var rw row
	if err := pgxscan.Get(ctx, r.q(ctx), &rw, sql, args...); err != nil {
		return nil, postgres.MapError(err, "item", key)
	}
	it, err := rw.toDomain()
	if err != nil {
		return nil, err
	}
	return &it, nil
}
