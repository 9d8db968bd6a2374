package domain

import "time"

// Kit is a named medicine container owned by one or more users.
type Kit struct {
	ID          int64
	Name        string
	Description *string
	IsDeleted   bool
	CreatedAt   time.Time
}

// KitUpdate is a partial update of a kit. Nil fields are left unchanged.
type KitUpdate struct {
	Name        *string
	Description *string
	IsDeleted   *bool
}

// IsEmpty reports whether no field is set.
func (u KitUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.IsDeleted == nil
}
