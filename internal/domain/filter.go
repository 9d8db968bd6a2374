package domain

import "time"

// MedicineFilter narrows catalog listings. Nil fields do not filter.
type MedicineFilter struct {
	NameContains *string
	Type         *MedicineType
	Category     *MedicineCategory
	Verification *Verification
	Limit        int
}

// MedicineUpdate is a partial update of a catalog entry.
type MedicineUpdate struct {
	Name         *string
	Category     *MedicineCategory
	Dosage       *string
	Notes        *string
	Verification *Verification
}

// IsEmpty reports whether no field is set.
func (u MedicineUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Dosage == nil &&
		u.Notes == nil && u.Verification == nil
}

// ItemFilter narrows item listings inside one kit or across a user's kits.
type ItemFilter struct {
	// ExpiredAt selects items whose expiry date is before this day.
	ExpiredAt *time.Time
	// ExpiringBetween selects items expiring within [From, To].
	ExpiringFrom *time.Time
	ExpiringTo   *time.Time
	// LocationContains is a case-insensitive substring match.
	LocationContains *string
	// NameContains matches the medicine name case-insensitively.
	NameContains *string
	Category     *MedicineCategory
	// QuantityAtMost selects low-stock items.
	QuantityAtMost *string
	Limit          int
	Offset         int
}
