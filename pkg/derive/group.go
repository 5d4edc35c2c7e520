package derive

import (
	"time"

	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/dump"
)

// Section is one bucket of the dashboard with its sorted items.
type Section struct {
	Bucket bucket.Bucket `json:"bucket"`
	Items  []Item        `json:"items"`
}

// Title of the section heading.
func (s Section) Title() string {
	return s.Bucket.Title()
}

// Group enriches dumps as of now and returns all six sections in display
// order, each sorted. Empty buckets are present with no items.
func Group(dumps []dump.Dump, now time.Time) []Section {
	items := EnrichAll(dumps, now)
	byBucket := make(map[bucket.Bucket][]Item, len(bucket.All()))
	for _, it := range items {
		byBucket[it.Bucket] = append(byBucket[it.Bucket], it)
	}
	sections := make([]Section, 0, len(bucket.All()))
	for _, b := range bucket.All() {
		sections = append(sections, Section{Bucket: b, Items: Sort(byBucket[b])})
	}
	return sections
}

// Count totals the items across sections.
func Count(sections []Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Items)
	}
	return n
}
