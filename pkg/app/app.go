// Package app is the service layer shared by the CLI, the TUI and the MCP
// bridge.
package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/cache"
	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/store"
	"tableflip.dev/dumpdash/pkg/timeutil"
)

// Backend is everything the service needs from the REST client.
type Backend interface {
	cache.Backend
	Searcher
	GetDump(ctx context.Context, id string) (*dump.Dump, error)
	Reminders(ctx context.Context) ([]dump.Reminder, error)
	Tracking(ctx context.Context) ([]dump.Trackable, error)
	SubmitFeedback(ctx context.Context, f dump.Feedback) error
	Login(ctx context.Context, phone, code string) (*dump.Session, error)
	Logout() error
	UserID() (string, error)
}

// Searcher runs searches. The REST client satisfies it directly; a
// superseding searcher can be swapped in for interactive use.
type Searcher interface {
	Search(ctx context.Context, req dump.SearchRequest) (*dump.SearchResponse, error)
}

// Service provides high-level dashboard operations over the backend, the
// in-memory cache and local persistence.
type Service struct {
	Backend     Backend
	Persistence store.Persistence
	// Searcher overrides Backend for searches when set.
	Searcher Searcher
	// Clock is the evaluation clock; time.Now when nil.
	Clock func() time.Time

	once  sync.Once
	cache *cache.Cache
}

var errNoBackend = errors.New("app: no backend configured")

// Now is the instant buckets are evaluated against.
func (s *Service) Now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// Cache returns the shared dump cache.
func (s *Service) Cache() *cache.Cache {
	s.once.Do(func() {
		s.cache = cache.New(s.Backend)
	})
	return s.cache
}

// Refresh reloads the dump list from the backend.
func (s *Service) Refresh(ctx context.Context) error {
	if s.Backend == nil {
		return errNoBackend
	}
	return s.Cache().Fetch(ctx, "")
}

func (s *Service) ensureLoaded(ctx context.Context) error {
	if !s.Cache().FetchedAt().IsZero() {
		return nil
	}
	return s.Refresh(ctx)
}

// Section is a dashboard bucket with its persisted collapse state.
type Section struct {
	derive.Section
	Expanded bool `json:"expanded"`
}

// Dashboard is the bucketed view as of Now.
type Dashboard struct {
	Now      time.Time `json:"as_of"`
	Sections []Section `json:"sections"`
	Summary  Summary   `json:"summary"`
}

// Dashboard fetches the latest dumps and groups them into buckets.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	if err := s.Refresh(ctx); err != nil {
		return Dashboard{}, err
	}
	return s.View(), nil
}

// View builds the dashboard from the cache without a network call.
func (s *Service) View() Dashboard {
	now := s.Now()
	raw := s.Cache().Sections(now)
	sections := make([]Section, 0, len(raw))
	for _, sec := range raw {
		sections = append(sections, Section{Section: sec, Expanded: s.Expanded(sec.Bucket)})
	}
	return Dashboard{Now: now, Sections: sections, Summary: Summarize(raw)}
}

// Expanded reports the persisted collapse state of b.
func (s *Service) Expanded(b bucket.Bucket) bool {
	if s.Persistence == nil {
		return true
	}
	return s.Persistence.Expanded(b)
}

// ToggleBucket flips and persists the collapse state of b.
func (s *Service) ToggleBucket(b bucket.Bucket) (bool, error) {
	next := !s.Expanded(b)
	if s.Persistence == nil {
		return next, errors.New("app: no persistence configured")
	}
	if err := s.Persistence.SetExpanded(b, next); err != nil {
		return !next, err
	}
	return next, nil
}

// SetExpanded persists the collapse state of b.
func (s *Service) SetExpanded(b bucket.Bucket, expanded bool) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	return s.Persistence.SetExpanded(b, expanded)
}

// Item fetches one dump and derives its dashboard fields.
func (s *Service) Item(ctx context.Context, id string) (derive.Item, error) {
	if s.Backend == nil {
		return derive.Item{}, errNoBackend
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return derive.Item{}, &dump.ValidationError{Field: "id", Message: "required"}
	}
	d, err := s.Backend.GetDump(ctx, id)
	if err != nil {
		return derive.Item{}, err
	}
	return derive.Enrich(*d, s.Now()), nil
}

// Approve optimistically approves id.
func (s *Service) Approve(ctx context.Context, id string) (cache.Result, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return cache.Result{}, err
	}
	return s.Cache().Accept(ctx, id), nil
}

// Reject optimistically rejects id with reason.
func (s *Service) Reject(ctx context.Context, id, reason string) (cache.Result, error) {
	if err := dump.ValidateRejectReason(reason); err != nil {
		return cache.Result{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return cache.Result{}, err
	}
	return s.Cache().Reject(ctx, id, reason), nil
}

// Edit optimistically patches id.
func (s *Service) Edit(ctx context.Context, id string, p dump.Patch) (cache.Result, error) {
	if err := p.Validate(); err != nil {
		return cache.Result{}, err
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return cache.Result{}, err
	}
	return s.Cache().Update(ctx, id, p), nil
}

// Search runs a natural-language search.
func (s *Service) Search(ctx context.Context, req dump.SearchRequest) (*dump.SearchResponse, error) {
	searcher := s.Searcher
	if searcher == nil {
		if s.Backend == nil {
			return nil, errNoBackend
		}
		searcher = s.Backend
	}
	return searcher.Search(ctx, req)
}

// ReminderItem pairs a reminder with its parsed time.
type ReminderItem struct {
	dump.Reminder
	At time.Time `json:"at"`
}

// Reminders lists upcoming reminders inside window, soonest first.
// Reminders with an unreadable time are listed last.
func (s *Service) Reminders(ctx context.Context, window timeutil.Window) ([]ReminderItem, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	all, err := s.Backend.Reminders(ctx)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	out := make([]ReminderItem, 0, len(all))
	for _, r := range all {
		at, ok := r.When()
		if !ok {
			log.Debug().Str("reminder", r.ID).Str("remind_at", r.RemindAt).Msg("unreadable reminder time")
			out = append(out, ReminderItem{Reminder: r})
			continue
		}
		if !window.Contains(at, now) {
			continue
		}
		out = append(out, ReminderItem{Reminder: r, At: at})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].At, out[j].At
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		}
		return a.Before(b)
	})
	return out, nil
}

// Tracking lists followed-up contacts.
func (s *Service) Tracking(ctx context.Context) ([]dump.Trackable, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	return s.Backend.Tracking(ctx)
}

// Feedback submits the feedback form.
func (s *Service) Feedback(ctx context.Context, f dump.Feedback) error {
	if err := f.Validate(); err != nil {
		return err
	}
	if s.Backend == nil {
		return errNoBackend
	}
	return s.Backend.SubmitFeedback(ctx, f)
}

// Login signs in and stores the session.
func (s *Service) Login(ctx context.Context, phone, code string) (*dump.Session, error) {
	if s.Backend == nil {
		return nil, errNoBackend
	}
	session, err := s.Backend.Login(ctx, phone, code)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return session, nil
}

// Logout forgets the stored session.
func (s *Service) Logout() error {
	if s.Backend == nil {
		return errNoBackend
	}
	return s.Backend.Logout()
}

// Session returns the stored session, nil when logged out.
func (s *Service) Session() (*dump.Session, error) {
	if s.Persistence == nil {
		return nil, nil
	}
	return s.Persistence.Session()
}
