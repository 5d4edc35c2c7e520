package derive

import (
	"testing"
	"time"

	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/dump"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestEnrichPastExtractedDateIsOverdue(t *testing.T) {
	d := dump.Dump{
		ID:        "a",
		CreatedAt: "2024-12-20T09:00:00Z",
		Extracted: &dump.Extraction{Dates: []string{"2025-01-01"}},
	}
	it := Enrich(d, day(2025, 1, 5))
	if it.Bucket != bucket.Overdue {
		t.Fatalf("expected overdue bucket, got %s", it.Bucket)
	}
	if !it.Overdue {
		t.Fatalf("expected overdue flag")
	}
	want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)
	if !it.DisplayDate.Equal(want) {
		t.Fatalf("expected display date %v, got %v", want, it.DisplayDate)
	}
}

func TestEnrichUndatedIsNeverOverdue(t *testing.T) {
	d := dump.Dump{ID: "a", CreatedAt: "2025-01-01T09:00:00"}
	it := Enrich(d, day(2025, 6, 1))
	if it.Overdue {
		t.Fatalf("undated dump must not be overdue")
	}
	if it.Bucket != bucket.Later {
		t.Fatalf("expected later bucket, got %s", it.Bucket)
	}
	want := time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)
	if !it.DisplayDate.Equal(want) {
		t.Fatalf("expected creation date as display date, got %v", it.DisplayDate)
	}
}

func TestEnrichUndatedNeverOverdueForAnyInstant(t *testing.T) {
	d := dump.Dump{ID: "a", CreatedAt: "2020-02-29T00:00:00Z"}
	for _, now := range []time.Time{day(2020, 2, 28), day(2020, 3, 1), day(2025, 1, 1), day(2040, 12, 31)} {
		if it := Enrich(d, now); it.Overdue || it.Bucket == bucket.Overdue {
			t.Fatalf("%v: expected not overdue, got %+v", now, it)
		}
	}
}

func TestEnrichPicksEarliestValidDate(t *testing.T) {
	d := dump.Dump{
		ID:        "a",
		CreatedAt: "2025-01-01T00:00:00Z",
		Extracted: &dump.Extraction{Dates: []string{"2025-03-20", "garbage", "2025-03-12", "2025-02-31"}},
	}
	it := Enrich(d, day(2025, 3, 1))
	want := time.Date(2025, 3, 12, 0, 0, 0, 0, time.Local)
	if !it.DisplayDate.Equal(want) {
		t.Fatalf("expected %v, got %v", want, it.DisplayDate)
	}
	if !it.HasDueDate || it.Overdue {
		t.Fatalf("unexpected flags: %+v", it)
	}
	if it.Bucket != bucket.NextMonth {
		t.Fatalf("expected nextMonth, got %s", it.Bucket)
	}
}

func TestEnrichOnlyInvalidDatesFallsBackToCreation(t *testing.T) {
	d := dump.Dump{
		ID:        "a",
		CreatedAt: "2025-03-01T08:00:00",
		Extracted: &dump.Extraction{Dates: []string{"soon", ""}},
	}
	it := Enrich(d, day(2025, 3, 1))
	if it.HasDueDate || it.Overdue {
		t.Fatalf("invalid dates should not count as due dates: %+v", it)
	}
	if it.Bucket != bucket.Today {
		t.Fatalf("expected today, got %s", it.Bucket)
	}
}

func TestEnrichMalformedCreationFallsBackToNow(t *testing.T) {
	now := day(2025, 3, 1)
	it := Enrich(dump.Dump{ID: "a", CreatedAt: "yesterday-ish"}, now)
	if !it.DisplayDate.Equal(now) {
		t.Fatalf("expected now, got %v", it.DisplayDate)
	}
	if it.Overdue || it.Bucket != bucket.Today {
		t.Fatalf("unexpected result: %+v", it)
	}
}

func TestEnrichFlags(t *testing.T) {
	d := dump.Dump{
		ID: "a",
		Extracted: &dump.Extraction{
			ActionItems:  []string{"call back"},
			PhoneNumbers: []string{"+1 555 0100"},
		},
	}
	it := Enrich(d, day(2025, 3, 1))
	if !it.HasReminder || !it.HasTracking {
		t.Fatalf("expected both flags, got %+v", it)
	}

	blank := dump.Dump{ID: "b", Extracted: &dump.Extraction{ActionItems: []string{" "}, PhoneNumbers: []string{}}}
	it = Enrich(blank, day(2025, 3, 1))
	if it.HasReminder || it.HasTracking {
		t.Fatalf("expected no flags, got %+v", it)
	}
}

func TestEnrichOverdueBoundary(t *testing.T) {
	d := dump.Dump{ID: "a", Extracted: &dump.Extraction{Dates: []string{"2025-03-09T23:59:59"}}}
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	if it := Enrich(d, now); !it.Overdue || it.Bucket != bucket.Overdue {
		t.Fatalf("expected overdue at midnight boundary, got %+v", it)
	}
	d.Extracted.Dates = []string{"2025-03-10T00:00:00"}
	if it := Enrich(d, now.Add(23*time.Hour)); it.Overdue || it.Bucket != bucket.Today {
		t.Fatalf("expected today, got %+v", it)
	}
}
