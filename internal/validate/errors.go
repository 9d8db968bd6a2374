// Package validate parses and checks free-form user input collected by the
// dialogues: quantities, units, expiry dates and names.
package validate

import (
	"fmt"

	"github.com/heartmarshall/medkit/internal/domain"
)

// Kind identifies which input failed.
type Kind string

const (
	InvalidQuantity Kind = "invalid_quantity"
	InvalidUnit     Kind = "invalid_unit"
	InvalidDate     Kind = "invalid_date"
	NameTooShort    Kind = "name_too_short"
	NameTooLong     Kind = "name_too_long"
	EmptyInput      Kind = "empty_input"
)

// Reason distinguishes failure causes within a Kind.
type Reason string

const (
	ReasonMalformed Reason = "malformed"
	ReasonNegative  Reason = "negative"
	ReasonTooSmall  Reason = "too_small"
	ReasonTooLarge  Reason = "too_large"
	ReasonTooLong   Reason = "too_long"
	ReasonEmpty     Reason = "empty"
)

// Error is an expected input failure. It unwraps to domain.ErrValidation.
type Error struct {
	Kind   Kind
	Reason Reason
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error { return domain.ErrValidation }

func fail(kind Kind, reason Reason) *Error {
	return &Error{Kind: kind, Reason: reason}
}
