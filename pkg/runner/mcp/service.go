// Package mcp exposes the dashboard to Model Context Protocol clients.
package mcp

import (
	"context"
	"errors"
	"strings"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/cache"
	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/timeutil"
)

// Service adapts app.Service to transport-friendly values for MCP tools.
type Service struct {
	App *app.Service
}

// NewService wraps a.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

var errNoApp = errors.New("service is not configured")

// ItemDTO is a transport-friendly projection of a derived dashboard item.
type ItemDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content,omitempty"`
	Category    string   `json:"category,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Bucket      string   `json:"bucket"`
	DisplayDate string   `json:"displayDate"`
	HasDueDate  bool     `json:"hasDueDate"`
	Overdue     bool     `json:"overdue"`
	Urgency     string   `json:"urgency,omitempty"`
	Review      string   `json:"review,omitempty"`
	Processing  string   `json:"processing,omitempty"`
	ActionItems []string `json:"actionItems,omitempty"`
	Phones      []string `json:"phoneNumbers,omitempty"`
	CreatedISO  string   `json:"created,omitempty"`
}

// SectionDTO is one dashboard bucket.
type SectionDTO struct {
	Bucket   string    `json:"bucket"`
	Title    string    `json:"title"`
	Expanded bool      `json:"expanded"`
	Count    int       `json:"count"`
	Items    []ItemDTO `json:"items"`
}

// DashboardDTO is the whole bucketed view.
type DashboardDTO struct {
	AsOf     string       `json:"asOf"`
	Sections []SectionDTO `json:"sections"`
	Summary  app.Summary  `json:"summary"`
}

// MutationDTO reports the settled outcome of approve or reject.
type MutationDTO struct {
	ID      string   `json:"id"`
	Success bool     `json:"success"`
	Phase   string   `json:"phase"`
	Message string   `json:"message,omitempty"`
	Item    *ItemDTO `json:"item,omitempty"`
}

// ReminderDTO is an upcoming reminder.
type ReminderDTO struct {
	ID        string `json:"id"`
	DumpID    string `json:"dumpId"`
	Message   string `json:"message"`
	RemindAt  string `json:"remindAt"`
	Recurring bool   `json:"recurring,omitempty"`
}

func toItemDTO(it derive.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID,
		Title:       it.Title(),
		Content:     it.RawContent,
		Category:    it.Category,
		Notes:       it.Notes,
		Bucket:      it.Bucket.String(),
		DisplayDate: dump.FormatDate(it.DisplayDate),
		HasDueDate:  it.HasDueDate,
		Overdue:     it.Overdue,
		Urgency:     it.Urgency().String(),
		Review:      reviewLabel(it.Review),
		Processing:  it.Processing.String(),
		ActionItems: it.ActionItems(),
		Phones:      it.PhoneNumbers(),
		CreatedISO:  it.CreatedAt,
	}
}

func reviewLabel(r dump.Review) string {
	if r == dump.ReviewUnknown {
		return ""
	}
	return r.String()
}

// Dashboard returns every bucket, optionally only one.
func (s *Service) Dashboard(ctx context.Context, only string) (DashboardDTO, error) {
	if s.App == nil {
		return DashboardDTO{}, errNoApp
	}
	d, err := s.App.Dashboard(ctx)
	if err != nil {
		return DashboardDTO{}, err
	}
	only = strings.TrimSpace(only)
	out := DashboardDTO{AsOf: dump.FormatTime(d.Now), Summary: d.Summary}
	for _, sec := range d.Sections {
		if only != "" && !strings.EqualFold(only, sec.Bucket.String()) {
			continue
		}
		dto := SectionDTO{
			Bucket:   sec.Bucket.String(),
			Title:    sec.Title(),
			Expanded: sec.Expanded,
			Count:    len(sec.Items),
			Items:    make([]ItemDTO, 0, len(sec.Items)),
		}
		for _, it := range sec.Items {
			dto.Items = append(dto.Items, toItemDTO(it))
		}
		out.Sections = append(out.Sections, dto)
	}
	return out, nil
}

// Dump returns one dump.
func (s *Service) Dump(ctx context.Context, id string) (ItemDTO, error) {
	if s.App == nil {
		return ItemDTO{}, errNoApp
	}
	it, err := s.App.Item(ctx, id)
	if err != nil {
		return ItemDTO{}, err
	}
	return toItemDTO(it), nil
}

// Search runs a search.
func (s *Service) Search(ctx context.Context, req dump.SearchRequest) (*dump.SearchResponse, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	return s.App.Search(ctx, req)
}

// Approve approves id.
func (s *Service) Approve(ctx context.Context, id string) (MutationDTO, error) {
	if s.App == nil {
		return MutationDTO{}, errNoApp
	}
	res, err := s.App.Approve(ctx, id)
	if err != nil {
		return MutationDTO{}, err
	}
	return s.mutation(id, res), nil
}

// Reject rejects id with reason.
func (s *Service) Reject(ctx context.Context, id, reason string) (MutationDTO, error) {
	if s.App == nil {
		return MutationDTO{}, errNoApp
	}
	res, err := s.App.Reject(ctx, id, reason)
	if err != nil {
		return MutationDTO{}, err
	}
	return s.mutation(id, res), nil
}

func (s *Service) mutation(id string, res cache.Result) MutationDTO {
	out := MutationDTO{ID: id, Success: res.Success, Phase: res.Phase.String(), Message: res.Message}
	if d, ok := dump.Find(res.Value, id); ok {
		item := toItemDTO(derive.Enrich(d, s.App.Now()))
		out.Item = &item
	}
	return out
}

// Reminders lists reminders inside window ("1w", "3d", "all").
func (s *Service) Reminders(ctx context.Context, window string) ([]ReminderDTO, error) {
	if s.App == nil {
		return nil, errNoApp
	}
	w, err := timeutil.ParseWindow(window)
	if err != nil {
		return nil, err
	}
	items, err := s.App.Reminders(ctx, w)
	if err != nil {
		return nil, err
	}
	out := make([]ReminderDTO, 0, len(items))
	for _, r := range items {
		at := r.RemindAt
		if !r.At.IsZero() {
			at = dump.FormatTime(r.At)
		}
		out = append(out, ReminderDTO{ID: r.ID, DumpID: r.DumpID, Message: r.Message, RemindAt: at, Recurring: r.Recurring})
	}
	return out, nil
}
