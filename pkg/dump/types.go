package dump

import "time"

// User is the profile returned at login.
type User struct {
	ID          string `json:"id"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Name        string `json:"name,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// Session is what a successful login leaves behind on disk.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         User   `json:"user"`
}

// Valid reports whether the session carries a usable access token.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != ""
}

// Patch edits the user-owned fields of a dump. Nil fields are left alone.
type Patch struct {
	Category   *string `json:"category,omitempty"`
	Notes      *string `json:"notes,omitempty"`
	RawContent *string `json:"raw_content,omitempty"`
}

// Apply returns a copy of d with the patch applied.
func (p Patch) Apply(d Dump) Dump {
	out := d.Clone()
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	if p.RawContent != nil {
		out.RawContent = *p.RawContent
	}
	return out
}

// SearchFilters narrows a natural-language search.
type SearchFilters struct {
	Categories   []string  `json:"categories,omitempty"`
	Urgency      []Urgency `json:"urgency,omitempty"`
	ContentTypes []string  `json:"content_types,omitempty"`
	DateFrom     string    `json:"date_from,omitempty"`
	DateTo       string    `json:"date_to,omitempty"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query   string        `json:"query"`
	UserID  string        `json:"user_id,omitempty"`
	Filters SearchFilters `json:"filters"`
	Limit   int           `json:"limit,omitempty"`
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	Dump       Dump      `json:"dump"`
	Score      float64   `json:"score"`
	MatchType  MatchType `json:"match_type"`
	Highlights []string  `json:"highlights,omitempty"`
}

// Facets counts results per facet value.
type Facets struct {
	Categories   map[string]int `json:"categories,omitempty"`
	Urgency      map[string]int `json:"urgency,omitempty"`
	ContentTypes map[string]int `json:"content_types,omitempty"`
}

// SearchResponse is the body returned by POST /api/search.
type SearchResponse struct {
	Query   string         `json:"query"`
	Total   int            `json:"total"`
	Results []SearchResult `json:"results"`
	Facets  Facets         `json:"facets"`
}

// Reminder is a scheduled nudge derived from a dump's action items.
type Reminder struct {
	ID        string `json:"id"`
	DumpID    string `json:"dump_id"`
	Message   string `json:"message"`
	RemindAt  string `json:"remind_at"`
	Status    string `json:"status,omitempty"`
	Recurring bool   `json:"recurring,omitempty"`
}

// When returns the parsed reminder time.
func (r Reminder) When() (time.Time, bool) {
	return ParseTimestamp(r.RemindAt)
}

// Trackable is a dump carrying a contact worth following up on.
type Trackable struct {
	ID          string `json:"id"`
	DumpID      string `json:"dump_id"`
	Kind        string `json:"kind,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Label       string `json:"label,omitempty"`
	Status      string `json:"status,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}
