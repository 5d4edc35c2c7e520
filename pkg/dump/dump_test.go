package dump

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLabelsRoundTripWireNames(t *testing.T) {
	raw := `{
		"id": "d1",
		"raw_content": "call the dentist",
		"created_at": "2025-01-01T10:00:00Z",
		"processing_status": "completed",
		"review_status": "pending",
		"extracted_entities": {"dates": ["2025-03-10"], "urgency": "HIGH", "action_items": ["call"]}
	}`
	var d Dump
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Processing != ProcessingCompleted {
		t.Fatalf("expected completed, got %s", d.Processing)
	}
	if d.Review != ReviewPending {
		t.Fatalf("expected pending, got %s", d.Review)
	}
	if d.Urgency() != UrgencyHigh {
		t.Fatalf("expected high urgency, got %q", d.Urgency())
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back["processing_status"] != "completed" || back["review_status"] != "pending" {
		t.Fatalf("unexpected wire labels: %v", back)
	}
}

func TestUnknownLabelsFallBack(t *testing.T) {
	var d Dump
	if err := json.Unmarshal([]byte(`{"processing_status":"exploded","review_status":"?","extracted_entities":{"urgency":"meh"}}`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Processing != ProcessingUnknown || d.Review != ReviewUnknown || d.Urgency() != UrgencyUnknown {
		t.Fatalf("expected unknown fallbacks, got %v %v %v", d.Processing, d.Review, d.Urgency())
	}
}

func TestUrgencyWeight(t *testing.T) {
	tests := map[Urgency]int{
		UrgencyCritical: 4,
		UrgencyHigh:     3,
		UrgencyMedium:   2,
		UrgencyLow:      1,
		UrgencyUnknown:  0,
		Urgency(42):     0,
	}
	for u, want := range tests {
		if got := u.Weight(); got != want {
			t.Fatalf("%d: expected weight %d, got %d", u, want, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	tests := []struct {
		in   string
		ok   bool
		want time.Time
	}{
		{"2025-01-01", true, time.Date(2025, 1, 1, 0, 0, 0, 0, loc)},
		{"2025-01-01T08:30:00", true, time.Date(2025, 1, 1, 8, 30, 0, 0, loc)},
		{"2025-01-01T08:30:00Z", true, time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC)},
		{"next tuesday", false, time.Time{}},
		{"2025-02-30", false, time.Time{}},
		{"", false, time.Time{}},
	}
	for _, tt := range tests {
		got, ok := ParseDate(tt.in, loc)
		if ok != tt.ok {
			t.Fatalf("%q: expected ok=%v, got %v", tt.in, tt.ok, ok)
		}
		if ok && !got.Equal(tt.want) {
			t.Fatalf("%q: expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	d := Dump{ID: "a", Extracted: &Extraction{Dates: []string{"2025-01-01"}}}
	c := d.Clone()
	c.Extracted.Dates[0] = "2030-01-01"
	if d.Extracted.Dates[0] != "2025-01-01" {
		t.Fatalf("clone aliased the original")
	}
}

func TestReplace(t *testing.T) {
	list := []Dump{{ID: "a"}, {ID: "b"}}
	out := Replace(list, Dump{ID: "b", Category: "work"})
	if out[1].Category != "work" || list[1].Category != "" {
		t.Fatalf("unexpected replace result: %+v / %+v", out, list)
	}
	out = Replace(list, Dump{ID: "c"})
	if len(out) != 3 {
		t.Fatalf("expected append for unknown id, got %d", len(out))
	}
}

func TestValidation(t *testing.T) {
	if err := ValidateRejectReason("too short"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := ValidateRejectReason("not relevant to me at all"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	blank := "  "
	if err := (Patch{Category: &blank}).Validate(); !IsValidation(err) {
		t.Fatalf("expected blank category to fail, got %v", err)
	}
	if err := (Patch{}).Validate(); !IsValidation(err) {
		t.Fatalf("expected empty patch to fail, got %v", err)
	}

	f := Feedback{Category: FeedbackBug, Message: "the dashboard froze"}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.Category = "rant"
	if err := f.Validate(); !IsValidation(err) {
		t.Fatalf("expected category error, got %v", err)
	}
}
