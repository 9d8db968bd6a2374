// Package similarity ranks catalog names against a free-text query with a
// typo-, case- and word-order-tolerant score in [0, 100].
package similarity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Normalize lowercases s, replaces everything that is not a letter or digit
// with a space and collapses runs of spaces.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// Ratio is the edit-distance similarity of two already normalized strings.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

// PartialRatio slides the shorter string over the longer one and returns the
// best Ratio of any equally long window.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}
	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		if r := Ratio(s, string(long[i:i+len(short)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSortRatio compares the strings after sorting their words.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortedTokens(a), sortedTokens(b))
}

// TokenSetRatio compares the shared words against each side's remainder, so
// "aspirin cardio" fully matches "cardio".
func TokenSetRatio(a, b string) float64 {
	ta, tb := tokenSet(a), tokenSet(b)
	var common, onlyA, onlyB []string
	for t := range ta {
		if tb[t] {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range tb {
		if !ta[t] {
			onlyB = append(onlyB, t)
		}
	}
	if len(common) == 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 0
	}
	if len(common) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	sect := strings.Join(common, " ")
	withA := strings.TrimSpace(sect + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(sect + " " + strings.Join(onlyB, " "))

	best := Ratio(withA, withB)
	if sect != "" {
		best = max(best, Ratio(sect, withA), Ratio(sect, withB))
	}
	return best
}

// WeightedRatio combines the scorers above. Strings of similar length are
// compared whole; when one is much longer, partial matches count with a
// penalty that grows with the length difference.
func WeightedRatio(query, name string) float64 {
	a, b := Normalize(query), Normalize(name)
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}

	base := Ratio(a, b)
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	const unbase = 0.95
	if lenRatio < 1.5 {
		return max(base, TokenSortRatio(a, b)*unbase, TokenSetRatio(a, b)*unbase)
	}

	scale := 0.9
	if lenRatio > 8 {
		scale = 0.6
	}
	partial := PartialRatio(a, b) * scale
	partialSort := PartialRatio(sortedTokens(a), sortedTokens(b)) * scale * unbase
	return max(base, partial, partialSort)
}

func sortedTokens(s string) string {
	fields := strings.Fields(s)
	sort.Strings(fields)
	return strings.Join(fields, " ")
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, f := range strings.Fields(s) {
		set[f] = true
	}
	return set
}
