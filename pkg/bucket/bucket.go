// Package bucket classifies display dates into the six dashboard time buckets.
package bucket

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/dumpdash/pkg/timeutil"
)

// Bucket is a temporal grouping on the dashboard. The zero value is Overdue
// and the declaration order is the display order.
type Bucket int

const (
	Overdue Bucket = iota
	Today
	Tomorrow
	NextWeek
	NextMonth
	Later
)

var names = [...]string{
	Overdue:   "overdue",
	Today:     "today",
	Tomorrow:  "tomorrow",
	NextWeek:  "nextWeek",
	NextMonth: "nextMonth",
	Later:     "later",
}

var titles = [...]string{
	Overdue:   "Overdue",
	Today:     "Today",
	Tomorrow:  "Tomorrow",
	NextWeek:  "Next 7 days",
	NextMonth: "Next month",
	Later:     "Later",
}

// All returns every bucket in display order.
func All() []Bucket {
	return []Bucket{Overdue, Today, Tomorrow, NextWeek, NextMonth, Later}
}

// Parse maps a label (case-insensitive) to a Bucket.
func Parse(raw string) (Bucket, error) {
	raw = strings.TrimSpace(raw)
	for _, b := range All() {
		if strings.EqualFold(raw, names[b]) {
			return b, nil
		}
	}
	return Later, fmt.Errorf("bucket: unknown bucket %q", raw)
}

func (b Bucket) String() string {
	if b < Overdue || b > Later {
		return fmt.Sprintf("Bucket(%d)", int(b))
	}
	return names[b]
}

// MarshalText encodes the bucket by name.
func (b Bucket) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a bucket name.
func (b *Bucket) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Title is the human heading for the bucket.
func (b Bucket) Title() string {
	if b < Overdue || b > Later {
		return b.String()
	}
	return titles[b]
}

// Key is the storage key holding the bucket's expand/collapse preference.
func (b Bucket) Key() string {
	return "buckets-" + b.String()
}

// Assign returns the bucket for display relative to now. A zero now means
// the wall clock. Boundaries are calendar days in now's location, so
// "tomorrow" is the next date regardless of the time of day.
func Assign(display, now time.Time) Bucket {
	if now.IsZero() {
		now = time.Now()
	}
	display = display.In(now.Location())
	today := timeutil.StartOfDay(now)
	tomorrow := timeutil.AddDays(today, 1)

	switch {
	case display.Before(today):
		return Overdue
	case display.Before(tomorrow):
		return Today
	case display.Before(timeutil.AddDays(today, 2)):
		return Tomorrow
	case display.Before(timeutil.AddDays(today, 7)):
		return NextWeek
	case display.Before(today.AddDate(0, 1, 0)):
		return NextMonth
	default:
		return Later
	}
}
