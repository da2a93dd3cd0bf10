// Package dateutils provides the date parsing and formatting used throughout
// the application.
package dateutils

import (
	"fmt"
	"strings"
	"time"
)

// Date layouts accepted in statement exports. US layout is tried first, then
// ISO; the order is part of the ingestion contract.
const (
	DateLayoutUS  = "01/02/2006"
	DateLayoutISO = "2006-01-02"
)

// statementLayouts is the ordered list of layouts ParseDate attempts.
var statementLayouts = []string{
	DateLayoutUS,
	DateLayoutISO,
}

// ParseDate parses a statement date string, accepting MM/DD/YYYY or
// YYYY-MM-DD. The returned time is normalized to midnight UTC; statements
// carry day granularity only.
func ParseDate(dateStr string) (time.Time, error) {
	cleaned := strings.TrimSpace(dateStr)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, layout := range statementLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date %q: expected MM/DD/YYYY or YYYY-MM-DD", cleaned)
}

// ToISODate formats a time as YYYY-MM-DD, the persisted representation.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// StartOfYear returns January 1st of the given date's year.
func StartOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
}

// Truncate drops any time-of-day component, keeping day granularity.
func Truncate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}
