package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one stock record of a catalog entry inside a kit.
type Item struct {
	ID         int64
	KitID      int64
	MedicineID int64
	Quantity   decimal.Decimal
	Unit       string
	ExpiryDate *time.Time
	Location   *string
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsExpired reports whether the item expired strictly before the given day.
func (i Item) IsExpired(today time.Time) bool {
	if i.ExpiryDate == nil {
		return false
	}
	return i.ExpiryDate.Before(truncateDay(today))
}

// ItemDetails is an item joined with its catalog entry and kit name.
type ItemDetails struct {
	Item
	Medicine Medicine
	KitName  string
}

// NewItem holds the fields for creating an inventory item.
type NewItem struct {
	KitID      int64
	MedicineID int64
	Quantity   decimal.Decimal
	Unit       string
	ExpiryDate *time.Time
	Location   *string
	Notes      *string
}

// ItemUpdate is a partial update of an item. Nil fields are left unchanged.
type ItemUpdate struct {
	Quantity   *decimal.Decimal
	Unit       *string
	ExpiryDate *time.Time
	Location   *string
	Notes      *string
}

// IsEmpty reports whether no field is set.
func (u ItemUpdate) IsEmpty() bool {
	return u.Quantity == nil && u.Unit == nil && u.ExpiryDate == nil &&
		u.Location == nil && u.Notes == nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
