// Package dump defines the wire model for captured, AI-annotated snippets
// ("dumps") and the closed label sets the backend attaches to them.
package dump

import (
	"strings"
	"time"
)

// Dump is a captured content record owned by a single user.
type Dump struct {
	ID          string      `json:"id"`
	UserID      string      `json:"user_id,omitempty"`
	RawContent  string      `json:"raw_content"`
	ContentType string      `json:"content_type,omitempty"`
	Category    string      `json:"category,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	Summary     string      `json:"summary,omitempty"`
	CreatedAt   string      `json:"created_at,omitempty"`
	Processing  Processing  `json:"processing_status,omitempty"`
	Review      Review      `json:"review_status,omitempty"`
	Extracted   *Extraction `json:"extracted_entities,omitempty"`
}

// Extraction is the structured payload the backend pulls out of a dump.
type Extraction struct {
	Dates        []string `json:"dates,omitempty"`
	Urgency      Urgency  `json:"urgency,omitempty"`
	ActionItems  []string `json:"action_items,omitempty"`
	PhoneNumbers []string `json:"phone_numbers,omitempty"`
	People       []string `json:"people,omitempty"`
	Locations    []string `json:"locations,omitempty"`
}

// Created returns the parsed creation timestamp.
func (d Dump) Created() (time.Time, bool) {
	return ParseTimestamp(d.CreatedAt)
}

// Urgency returns the extracted urgency, or UrgencyUnknown.
func (d Dump) Urgency() Urgency {
	if d.Extracted == nil {
		return UrgencyUnknown
	}
	return d.Extracted.Urgency
}

// Dates returns the raw extracted date strings.
func (d Dump) Dates() []string {
	if d.Extracted == nil {
		return nil
	}
	return d.Extracted.Dates
}

// ActionItems returns the non-blank extracted action items.
func (d Dump) ActionItems() []string {
	if d.Extracted == nil {
		return nil
	}
	return nonBlank(d.Extracted.ActionItems)
}

// PhoneNumbers returns the non-blank extracted phone numbers.
func (d Dump) PhoneNumbers() []string {
	if d.Extracted == nil {
		return nil
	}
	return nonBlank(d.Extracted.PhoneNumbers)
}

// Title is a single-line label for list views.
func (d Dump) Title() string {
	if s := strings.TrimSpace(d.Summary); s != "" {
		return firstLine(s)
	}
	return firstLine(strings.TrimSpace(d.RawContent))
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (d Dump) Clone() Dump {
	out := d
	if d.Extracted != nil {
		ex := *d.Extracted
		ex.Dates = cloneStrings(d.Extracted.Dates)
		ex.ActionItems = cloneStrings(d.Extracted.ActionItems)
		ex.PhoneNumbers = cloneStrings(d.Extracted.PhoneNumbers)
		ex.People = cloneStrings(d.Extracted.People)
		ex.Locations = cloneStrings(d.Extracted.Locations)
		out.Extracted = &ex
	}
	return out
}

// CloneAll deep copies a list of dumps.
func CloneAll(in []Dump) []Dump {
	if in == nil {
		return nil
	}
	out := make([]Dump, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// Replace returns a copy of list with the dump matching d.ID swapped for d.
// Dumps that are not present are appended.
func Replace(list []Dump, d Dump) []Dump {
	out := CloneAll(list)
	for i := range out {
		if out[i].ID == d.ID {
			out[i] = d.Clone()
			return out
		}
	}
	return append(out, d.Clone())
}

// Find returns the dump with the given id.
func Find(list []Dump, id string) (Dump, bool) {
	for _, d := range list {
		if d.ID == id {
			return d, true
		}
	}
	return Dump{}, false
}

// Index returns the position of the dump with the given id, or -1.
func Index(list []Dump, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
