// Package dateutils converts statement dates into the canonical YYYY-MM-DD form.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts seen in statement exports.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	MonthLayout        = "2006-01"
)

// NormalizeDate rewrites a DD.MM.YYYY date as YYYY-MM-DD. Anything that is not
// three dot-separated parts passes through unchanged, without validation.
func NormalizeDate(raw string) string {
	dateStr := strings.TrimSpace(raw)
	if !strings.Contains(dateStr, ".") {
		return dateStr
	}
	parts := strings.Split(dateStr, ".")
	if len(parts) != 3 {
		return dateStr
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
}

// MonthKey returns the YYYY-MM prefix of a canonical date. Shorter strings are
// returned as is.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// ParseISO parses a canonical YYYY-MM-DD date.
func ParseISO(date string) (time.Time, error) {
	t, err := time.Parse(DateLayoutISO, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date %q: %w", date, err)
	}
	return t, nil
}

// CompareDates orders two canonical dates. Dates that do not parse are compared as
// strings, which is correct for any zero-padded YYYY-MM-DD value.
func CompareDates(a, b string) int {
	ta, errA := ParseISO(a)
	tb, errB := ParseISO(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	switch {
	case ta.Before(tb):
		return -1
	case ta.After(tb):
		return 1
	default:
		return 0
	}
}

// ValidMonth reports whether s is a YYYY-MM month key.
func ValidMonth(s string) bool {
	_, err := time.Parse(MonthLayout, s)
	return err == nil
}
