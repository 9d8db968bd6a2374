package domain

import "time"

// Verification is the review state of a catalog entry.
type Verification int

const (
	// VerificationPending means no admin has looked at the entry yet.
	VerificationPending Verification = iota
	// VerificationRejected means an admin checked the entry and did not verify it.
	VerificationRejected
	// VerificationVerified means the entry is checked and trusted.
	VerificationVerified
)

// Storage bit flags.
const (
	flagVerified = 1 << 0
	flagChecked  = 1 << 1
)

func (v Verification) String() string {
	switch v {
	case VerificationVerified:
		return "verified"
	case VerificationRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Flags returns the bit flag encoding stored in the database.
func (v Verification) Flags() int {
	switch v {
	case VerificationVerified:
		return flagVerified | flagChecked
	case VerificationRejected:
		return flagChecked
	default:
		return 0
	}
}

// VerificationFromFlags decodes stored bit flags. A VERIFIED bit without
// CHECKED (set by the allow-list at creation) still counts as verified.
func VerificationFromFlags(flags int) Verification {
	switch {
	case flags&flagVerified != 0:
		return VerificationVerified
	case flags&flagChecked != 0:
		return VerificationRejected
	default:
		return VerificationPending
	}
}

// Verify returns the state after an admin approves the entry.
func (v Verification) Verify() Verification { return VerificationVerified }

// Reject returns the state after an admin rejects the entry.
func (v Verification) Reject() Verification { return VerificationRejected }

// Medicine is a canonical catalog entry shared by all users.
type Medicine struct {
	ID           int64
	Name         string
	Type         MedicineType
	Category     MedicineCategory
	Dosage       *string
	Notes        *string
	Verification Verification
	CreatedAt    time.Time
}

// IsVerified reports whether the entry may be suggested to users.
func (m Medicine) IsVerified() bool { return m.Verification == VerificationVerified }

// DisplayName renders the name with the dosage in parentheses, e.g. "Aspirin (500 mg)".
func (m Medicine) DisplayName() string {
	if m.Dosage != nil && *m.Dosage != "" {
		return m.Name + " (" + *m.Dosage + ")"
	}
	return m.Name
}
