package dump

import (
	"encoding/json"
	"strings"
)

// Processing is the backend pipeline state of a dump.
type Processing int

// Review is the approval state of an AI-flagged dump.
type Review int

// Urgency is the extracted urgency label.
type Urgency int

// MatchType describes why a search result matched.
type MatchType int

const (
	ProcessingUnknown Processing = iota
	ProcessingReceived
	ProcessingRunning
	ProcessingCompleted
	ProcessingFailed
)

const (
	ReviewUnknown Review = iota
	ReviewPending
	ReviewApproved
	ReviewRejected
)

const (
	UrgencyUnknown Urgency = iota
	UrgencyLow
	UrgencyMedium
	UrgencyHigh
	UrgencyCritical
)

const (
	MatchUnknown MatchType = iota
	MatchKeyword
	MatchSemantic
	MatchEntity
)

// label ties a wire name to its display glyph.
type label struct {
	Name   string
	Symbol string
}

var processingLabels = []label{
	ProcessingUnknown:   {"unknown", "?"},
	ProcessingReceived:  {"received", "↓"},
	ProcessingRunning:   {"processing", "…"},
	ProcessingCompleted: {"completed", "✓"},
	ProcessingFailed:    {"failed", "✘"},
}

var reviewLabels = []label{
	ReviewUnknown:  {"unknown", " "},
	ReviewPending:  {"pending", "●"},
	ReviewApproved: {"approved", "✔"},
	ReviewRejected: {"rejected", "⦵"},
}

var urgencyLabels = []label{
	UrgencyUnknown:  {"", " "},
	UrgencyLow:      {"low", "·"},
	UrgencyMedium:   {"medium", "!"},
	UrgencyHigh:     {"high", "!!"},
	UrgencyCritical: {"critical", "✷"},
}

var matchLabels = []label{
	MatchUnknown:  {"unknown", "?"},
	MatchKeyword:  {"keyword", "k"},
	MatchSemantic: {"semantic", "s"},
	MatchEntity:   {"entity", "e"},
}

func lookup(labels []label, raw string) int {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for i, l := range labels {
		if i > 0 && l.Name == raw {
			return i
		}
	}
	return 0
}

func name(labels []label, i int) string {
	if i < 0 || i >= len(labels) {
		return labels[0].Name
	}
	return labels[i].Name
}

func symbol(labels []label, i int) string {
	if i < 0 || i >= len(labels) {
		return labels[0].Symbol
	}
	return labels[i].Symbol
}

func unmarshalLabel(b []byte, labels []label) (int, error) {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0, err
	}
	return lookup(labels, raw), nil
}

func marshalLabel(labels []label, i int) ([]byte, error) {
	if i <= 0 || i >= len(labels) {
		return []byte(`""`), nil
	}
	return json.Marshal(labels[i].Name)
}

// ParseProcessing maps a wire label to a Processing state.
func ParseProcessing(raw string) Processing { return Processing(lookup(processingLabels, raw)) }

func (p Processing) String() string { return name(processingLabels, int(p)) }

// Symbol is the glyph used by printers.
func (p Processing) Symbol() string { return symbol(processingLabels, int(p)) }

func (p Processing) MarshalJSON() ([]byte, error) { return marshalLabel(processingLabels, int(p)) }

func (p *Processing) UnmarshalJSON(b []byte) error {
	i, err := unmarshalLabel(b, processingLabels)
	*p = Processing(i)
	return err
}

// ParseReview maps a wire label to a Review state.
func ParseReview(raw string) Review { return Review(lookup(reviewLabels, raw)) }

func (r Review) String() string { return name(reviewLabels, int(r)) }

// Symbol is the glyph used by printers.
func (r Review) Symbol() string { return symbol(reviewLabels, int(r)) }

func (r Review) MarshalJSON() ([]byte, error) { return marshalLabel(reviewLabels, int(r)) }

func (r *Review) UnmarshalJSON(b []byte) error {
	i, err := unmarshalLabel(b, reviewLabels)
	*r = Review(i)
	return err
}

// ParseUrgency maps a wire label to an Urgency.
func ParseUrgency(raw string) Urgency { return Urgency(lookup(urgencyLabels, raw)) }

func (u Urgency) String() string { return name(urgencyLabels, int(u)) }

// Symbol is the glyph used by printers.
func (u Urgency) Symbol() string { return symbol(urgencyLabels, int(u)) }

// Weight ranks urgency for sorting: critical=4 down to low=1, unknown=0.
func (u Urgency) Weight() int {
	if u < UrgencyUnknown || u > UrgencyCritical {
		return 0
	}
	return int(u)
}

func (u Urgency) MarshalJSON() ([]byte, error) { return marshalLabel(urgencyLabels, int(u)) }

func (u *Urgency) UnmarshalJSON(b []byte) error {
	i, err := unmarshalLabel(b, urgencyLabels)
	*u = Urgency(i)
	return err
}

// AllUrgencies lists the known urgency levels, most urgent first.
func AllUrgencies() []Urgency {
	return []Urgency{UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow}
}

// ParseMatchType maps a wire label to a MatchType.
func ParseMatchType(raw string) MatchType { return MatchType(lookup(matchLabels, raw)) }

func (m MatchType) String() string { return name(matchLabels, int(m)) }

// Symbol is the glyph used by printers.
func (m MatchType) Symbol() string { return symbol(matchLabels, int(m)) }

func (m MatchType) MarshalJSON() ([]byte, error) { return marshalLabel(matchLabels, int(m)) }

func (m *MatchType) UnmarshalJSON(b []byte) error {
	i, err := unmarshalLabel(b, matchLabels)
	*m = MatchType(i)
	return err
}
