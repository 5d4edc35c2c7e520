package mcp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/dumpdash/pkg/app"
	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/dump"
)

type fakeBackend struct {
	mu        sync.Mutex
	dumps     []dump.Dump
	reminders []dump.Reminder
	failWith  error
}

func (f *fakeBackend) ListDumps(context.Context, string) ([]dump.Dump, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return dump.CloneAll(f.dumps), nil
}

func (f *fakeBackend) GetDump(_ context.Context, id string) (*dump.Dump, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := dump.Find(f.dumps, id)
	if !ok {
		return nil, errors.New("dump not found")
	}
	return &d, nil
}

func (f *fakeBackend) UpdateDump(_ context.Context, id string, p dump.Patch) (*dump.Dump, error) {
	return f.review(id, func(d dump.Dump) dump.Dump { return p.Apply(d) })
}

func (f *fakeBackend) Approve(_ context.Context, id string) (*dump.Dump, error) {
	return f.review(id, func(d dump.Dump) dump.Dump {
		d.Review = dump.ReviewApproved
		return d
	})
}

func (f *fakeBackend) Reject(_ context.Context, id, _ string) (*dump.Dump, error) {
	return f.review(id, func(d dump.Dump) dump.Dump {
		d.Review = dump.ReviewRejected
		return d
	})
}

func (f *fakeBackend) review(id string, fn func(dump.Dump) dump.Dump) (*dump.Dump, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	i := dump.Index(f.dumps, id)
	if i < 0 {
		return nil, errors.New("dump not found")
	}
	f.dumps[i] = fn(f.dumps[i])
	d := f.dumps[i].Clone()
	return &d, nil
}

func (f *fakeBackend) Search(_ context.Context, req dump.SearchRequest) (*dump.SearchResponse, error) {
	return &dump.SearchResponse{Query: req.Query, Total: 1, Results: []dump.SearchResult{{Dump: f.dumps[0], Score: 0.9}}}, nil
}

func (f *fakeBackend) Reminders(context.Context) ([]dump.Reminder, error) {
	return f.reminders, nil
}

func (f *fakeBackend) Tracking(context.Context) ([]dump.Trackable, error) { return nil, nil }

func (f *fakeBackend) SubmitFeedback(context.Context, dump.Feedback) error { return nil }

func (f *fakeBackend) Login(context.Context, string, string) (*dump.Session, error) {
	return &dump.Session{AccessToken: "token"}, nil
}

func (f *fakeBackend) Logout() error { return nil }

func (f *fakeBackend) UserID() (string, error) { return "user-1", nil }

type flags map[bucket.Bucket]bool

func (flags) Session() (*dump.Session, error) { return nil, nil }
func (flags) SaveSession(dump.Session) error  { return nil }
func (flags) ClearSession() error             { return nil }
func (flags) Keys(context.Context) []string   { return nil }
func (f flags) SetExpanded(b bucket.Bucket, v bool) error {
	f[b] = v
	return nil
}
func (f flags) Expanded(b bucket.Bucket) bool {
	if v, ok := f[b]; ok {
		return v
	}
	return true
}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)

func newTestService(b *fakeBackend) *Service {
	return NewService(&app.Service{
		Backend:     b,
		Persistence: flags{},
		Clock:       func() time.Time { return now },
	})
}

func seed() []dump.Dump {
	return []dump.Dump{
		{ID: "a", RawContent: "pay rent", CreatedAt: "2025-03-01T09:00:00Z", Review: dump.ReviewPending,
			Extracted: &dump.Extraction{Dates: []string{"2025-03-05"}, Urgency: dump.UrgencyCritical}},
		{ID: "b", RawContent: "dentist", CreatedAt: "2025-03-09T09:00:00Z",
			Extracted: &dump.Extraction{Dates: []string{"2025-03-11"}}},
	}
}

func TestServiceDashboard(t *testing.T) {
	svc := newTestService(&fakeBackend{dumps: seed()})

	dto, err := svc.Dashboard(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dto.Sections) != 6 {
		t.Fatalf("expected six sections, got %d", len(dto.Sections))
	}
	if dto.Sections[0].Bucket != "overdue" || dto.Sections[0].Count != 1 || !dto.Sections[0].Items[0].Overdue {
		t.Fatalf("unexpected overdue section %+v", dto.Sections[0])
	}
	if dto.Summary.Total != 2 {
		t.Fatalf("expected total 2, got %d", dto.Summary.Total)
	}

	only, err := svc.Dashboard(context.Background(), "tomorrow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(only.Sections) != 1 || only.Sections[0].Items[0].ID != "b" {
		t.Fatalf("expected only tomorrow, got %+v", only.Sections)
	}
}

func TestServiceDump(t *testing.T) {
	svc := newTestService(&fakeBackend{dumps: seed()})

	it, err := svc.Dump(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Title != "pay rent" || it.Urgency != "critical" || it.Review != "pending" {
		t.Fatalf("unexpected dto %+v", it)
	}
	if it.DisplayDate != "2025-03-05" || !it.HasDueDate {
		t.Fatalf("unexpected display date %+v", it)
	}
}

func TestServiceApproveAndReject(t *testing.T) {
	b := &fakeBackend{dumps: seed()}
	svc := newTestService(b)

	res, err := svc.Approve(context.Background(), "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success || res.Item == nil || res.Item.Review != "approved" {
		t.Fatalf("unexpected approve result %+v", res)
	}

	if _, err := svc.Reject(context.Background(), "b", "nah"); !dump.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	b.failWith = errors.New("boom")
	res, err = svc.Reject(context.Background(), "b", "duplicate of another dump")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || res.Message == "" {
		t.Fatalf("expected a rolled back result, got %+v", res)
	}
	if res.Item == nil || res.Item.Review != "" {
		t.Fatalf("expected the original review state, got %+v", res.Item)
	}
}

func TestServiceReminders(t *testing.T) {
	svc := newTestService(&fakeBackend{reminders: []dump.Reminder{
		{ID: "r2", RemindAt: now.Add(48 * time.Hour).Format(time.RFC3339)},
		{ID: "r1", RemindAt: now.Add(time.Hour).Format(time.RFC3339)},
		{ID: "r3", RemindAt: now.Add(40 * 24 * time.Hour).Format(time.RFC3339)},
	}})

	got, err := svc.Reminders(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "r1" || got[1].ID != "r2" {
		t.Fatalf("unexpected reminders %+v", got)
	}

	all, err := svc.Reminders(context.Background(), "all")
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all reminders, got %d %v", len(all), err)
	}

	if _, err := svc.Reminders(context.Background(), "soonish"); err == nil {
		t.Fatalf("expected a window parse error")
	}
}

func TestServiceWithoutApp(t *testing.T) {
	svc := NewService(nil)
	if _, err := svc.Dashboard(context.Background(), ""); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := svc.Approve(context.Background(), "a"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" work, ,home ")
	if len(got) != 2 || got[0] != "work" || got[1] != "home" {
		t.Fatalf("unexpected split %v", got)
	}
	if splitList(nil) != nil {
		t.Fatalf("expected nil for missing argument")
	}
}
