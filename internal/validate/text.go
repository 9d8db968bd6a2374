package validate

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxUnitLen     = 10
	MinNameLen     = 2
	MaxNameLen     = 200
	MaxKitNameLen  = 100
	MaxDosageLen   = 100
	MaxLocationLen = 100
	MaxNotesLen    = 1000
)

// Unit validates a measurement unit such as "tabs" or "ml".
func Unit(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fail(InvalidUnit, ReasonEmpty)
	}
	if utf8.RuneCountInString(s) > MaxUnitLen {
		return "", fail(InvalidUnit, ReasonTooLong)
	}
	return s, nil
}

// Name validates a medicine name.
func Name(raw string) (string, error) {
	s := strings.Join(strings.Fields(raw), " ")
	if utf8.RuneCountInString(s) < MinNameLen {
		return "", fail(NameTooShort, ReasonTooSmall)
	}
	if utf8.RuneCountInString(s) > MaxNameLen {
		return "", fail(NameTooLong, ReasonTooLong)
	}
	return s, nil
}

// KitName validates the name of a new kit.
func KitName(raw string) (string, error) {
	s := strings.Join(strings.Fields(raw), " ")
	if s == "" {
		return "", fail(EmptyInput, ReasonEmpty)
	}
	if utf8.RuneCountInString(s) > MaxKitNameLen {
		return "", fail(NameTooLong, ReasonTooLong)
	}
	return s, nil
}

// Text validates optional free text bounded by max runes. Empty input is
// returned as "" with no error so callers can treat it as "not set".
func Text(raw string, max int) (string, error) {
	s := strings.TrimSpace(raw)
	if utf8.RuneCountInString(s) > max {
		return "", fail(EmptyInput, ReasonTooLong)
	}
	return s, nil
}

// Required validates non-empty free text bounded by max runes.
func Required(raw string, max int) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fail(EmptyInput, ReasonEmpty)
	}
	if utf8.RuneCountInString(s) > max {
		return "", fail(EmptyInput, ReasonTooLong)
	}
	return s, nil
}
