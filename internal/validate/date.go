package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	fullDateRe  = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	monthDateRe = regexp.MustCompile(`^(\d{1,2})\.(\d{2}|\d{4})$`)
)

// DateLayout is the canonical rendering of dates in messages and sessions.
const DateLayout = "02.01.2006"

// ExpiryDate parses "DD.MM.YYYY" as that exact day, or "MM.YYYY" / "MM.YY"
// as the last day of the month before the printed one: a pack marked
// "06.2025" is usable through 31.05.2025. Two-digit years get 2000 added.
func ExpiryDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)

	if m := fullDateRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes 31.02 into March; reject that.
		if t.Day() != day || int(t.Month()) != month || t.Year() != year {
			return time.Time{}, fail(InvalidDate, ReasonMalformed)
		}
		return t, nil
	}

	if m := monthDateRe.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		if len(m[2]) == 2 {
			year += 2000
		}
		if month < 1 || month > 12 {
			return time.Time{}, fail(InvalidDate, ReasonMalformed)
		}
		// Day 0 of the stated month is the last day of the previous one.
		return time.Date(year, time.Month(month), 0, 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fail(InvalidDate, ReasonMalformed)
}

// FormatDate renders t as DD.MM.YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseStoredDate reads a date written by FormatDate.
func ParseStoredDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fail(InvalidDate, ReasonMalformed)
	}
	return t, nil
}
