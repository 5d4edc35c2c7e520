package app

import (
	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
)

// Summary counts dashboard items by bucket, review state and urgency.
type Summary struct {
	Total         int                   `json:"total"`
	Overdue       int                   `json:"overdue"`
	PendingReview int                   `json:"pending_review"`
	WithReminder  int                   `json:"with_reminder"`
	WithTracking  int                   `json:"with_tracking"`
	Buckets       map[string]int        `json:"buckets"`
	Urgency       map[string]int        `json:"urgency,omitempty"`
	ByBucket      map[bucket.Bucket]int `json:"-"`
}

// Summarize totals the sections.
func Summarize(sections []derive.Section) Summary {
	s := Summary{
		Buckets:  make(map[string]int, len(sections)),
		Urgency:  make(map[string]int),
		ByBucket: make(map[bucket.Bucket]int, len(sections)),
	}
	for _, sec := range sections {
		s.Buckets[sec.Bucket.String()] = len(sec.Items)
		s.ByBucket[sec.Bucket] = len(sec.Items)
		for _, it := range sec.Items {
			s.Total++
			if it.Overdue {
				s.Overdue++
			}
			if it.Review == dump.ReviewPending {
				s.PendingReview++
			}
			if it.HasReminder {
				s.WithReminder++
			}
			if it.HasTracking {
				s.WithTracking++
			}
			if u := it.Urgency(); u != dump.UrgencyUnknown {
				s.Urgency[u.String()]++
			}
		}
	}
	return s
}
