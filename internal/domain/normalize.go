package domain

import "strings"

// NormalizeText trims s and collapses internal whitespace runs to one space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// OptionalText normalizes s and returns nil when nothing is left.
func OptionalText(s string) *string {
	n := NormalizeText(s)
	if n == "" {
		return nil
	}
	return &n
}
