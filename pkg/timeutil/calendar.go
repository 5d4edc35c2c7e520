package timeutil

import "time"

// StartOfDay returns local midnight for the calendar day of t, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a day boundary by n calendar days. DST shifts do not move the
// result off midnight because the date is normalized, not the duration.
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Within reports whether t lies in [now, now+window].
func Within(t, now time.Time, window time.Duration) bool {
	return !t.Before(now) && !t.After(now.Add(window))
}
