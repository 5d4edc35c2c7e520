// Package derive computes the read-only dashboard projection of a dump: its
// display date, overdue flag, time bucket and reminder/tracking flags.
package derive

import (
	"time"

	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/timeutil"
)

// Item is a dump plus the fields the dashboard derives from it. Items are
// rebuilt from the dump list on every read and never stored.
type Item struct {
	dump.Dump

	DisplayDate time.Time     `json:"display_date"`
	CreatedTime time.Time     `json:"-"`
	HasDueDate  bool          `json:"has_due_date"`
	Overdue     bool          `json:"overdue"`
	Bucket      bucket.Bucket `json:"bucket"`
	HasReminder bool          `json:"has_reminder"`
	HasTracking bool          `json:"has_tracking"`
}

// Urgency weight of the underlying dump.
func (i Item) Weight() int {
	return i.Dump.Urgency().Weight()
}

// Enrich derives an Item from d as of now (wall clock when zero). It never
// fails: when neither an extracted date nor the creation timestamp parses,
// the display date falls back to now.
func Enrich(d dump.Dump, now time.Time) Item {
	if now.IsZero() {
		now = time.Now()
	}
	loc := now.Location()
	item := Item{Dump: d}

	var earliest time.Time
	for _, raw := range d.Dates() {
		t, ok := dump.ParseDate(raw, loc)
		if !ok {
			continue
		}
		if !item.HasDueDate || t.Before(earliest) {
			earliest = t
		}
		item.HasDueDate = true
	}

	created, createdOK := dump.ParseDate(d.CreatedAt, loc)
	if createdOK {
		item.CreatedTime = created
	}

	switch {
	case item.HasDueDate:
		item.DisplayDate = earliest
	case createdOK:
		item.DisplayDate = created
	default:
		log.Debug().Str("dump", d.ID).Str("created_at", d.CreatedAt).
			Msg("no usable date, displaying as now")
		item.DisplayDate = now
	}

	today := timeutil.StartOfDay(now)
	item.Overdue = item.HasDueDate && earliest.Before(today)

	item.Bucket = bucket.Assign(item.DisplayDate, now)
	if item.Bucket == bucket.Overdue && !item.HasDueDate {
		// Undated captures never nag.
		item.Bucket = bucket.Later
	}

	item.HasReminder = len(d.ActionItems()) > 0
	item.HasTracking = len(d.PhoneNumbers()) > 0
	return item
}

// EnrichAll derives every dump against the same instant.
func EnrichAll(dumps []dump.Dump, now time.Time) []Item {
	if now.IsZero() {
		now = time.Now()
	}
	out := make([]Item, 0, len(dumps))
	for _, d := range dumps {
		out = append(out, Enrich(d, now))
	}
	return out
}
