package dump

import (
	"strings"
	"time"
)

const (
	layoutISO      = "2006-01-02"
	layoutNaive    = "2006-01-02T15:04:05"
	layoutNaiveSep = "2006-01-02 15:04:05"
)

// ParseDate parses an extracted calendar date. Date-only and zone-less values
// are interpreted in loc (time.Local when nil).
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, layout := range []string{layoutISO, layoutNaive, layoutNaiveSep} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseTimestamp parses a backend timestamp in local time.
func ParseTimestamp(raw string) (time.Time, bool) {
	return ParseDate(raw, time.Local)
}

// FormatTime renders a timestamp the way the backend expects it.
func FormatTime(v time.Time) string {
	return v.UTC().Format(time.RFC3339)
}

// FormatDate renders the calendar day of v.
func FormatDate(v time.Time) string {
	return v.Format(layoutISO)
}
