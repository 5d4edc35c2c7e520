package options

import (
	"fmt"
	"strings"
	"time"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// ParseDay reads a calendar day given as "2020-2-28", "2020-02-28" or
// "2/28". The short form assumes the current year.
func ParseDay(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.ParseInLocation(layoutISO, raw, now.Location())
	if err == nil {
		return t, nil
	}
	t, err = time.ParseInLocation(layoutISOShort, raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or M/D", raw)
	}
	return t.AddDate(now.Year(), 0, 0), nil
}
