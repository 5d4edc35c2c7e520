package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/dumpdash/pkg/bucket"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/optimistic"
	"tableflip.dev/dumpdash/pkg/timeutil"
)

type memoryBackend struct {
	mu        sync.Mutex
	dumps     []dump.Dump
	reminders []dump.Reminder
	feedback  []dump.Feedback
	failWith  error
	lists     int
}

func (m *memoryBackend) ListDumps(_ context.Context, _ string) ([]dump.Dump, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists++
	return dump.CloneAll(m.dumps), nil
}

func (m *memoryBackend) GetDump(_ context.Context, id string) (*dump.Dump, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := dump.Find(m.dumps, id)
	if !ok {
		return nil, errors.New("not found")
	}
	return &d, nil
}

func (m *memoryBackend) UpdateDump(_ context.Context, id string, p dump.Patch) (*dump.Dump, error) {
	return m.change(id, p.Apply)
}

func (m *memoryBackend) Approve(_ context.Context, id string) (*dump.Dump, error) {
	return m.change(id, func(d dump.Dump) dump.Dump {
		d.Review = dump.ReviewApproved
		return d
	})
}

func (m *memoryBackend) Reject(_ context.Context, id, _ string) (*dump.Dump, error) {
	return m.change(id, func(d dump.Dump) dump.Dump {
		d.Review = dump.ReviewRejected
		return d
	})
}

func (m *memoryBackend) change(id string, fn func(dump.Dump) dump.Dump) (*dump.Dump, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	i := dump.Index(m.dumps, id)
	if i < 0 {
		return nil, errors.New("not found")
	}
	m.dumps[i] = fn(m.dumps[i])
	d := m.dumps[i].Clone()
	return &d, nil
}

func (m *memoryBackend) Search(_ context.Context, req dump.SearchRequest) (*dump.SearchResponse, error) {
	return &dump.SearchResponse{Query: req.Query}, nil
}

func (m *memoryBackend) Reminders(_ context.Context) ([]dump.Reminder, error) {
	return m.reminders, nil
}

func (m *memoryBackend) Tracking(_ context.Context) ([]dump.Trackable, error) {
	return []dump.Trackable{{ID: "t1"}}, nil
}

func (m *memoryBackend) SubmitFeedback(_ context.Context, f dump.Feedback) error {
	m.feedback = append(m.feedback, f)
	return nil
}

func (m *memoryBackend) Login(_ context.Context, _, _ string) (*dump.Session, error) {
	return &dump.Session{AccessToken: "a"}, nil
}

func (m *memoryBackend) Logout() error { return nil }

func (m *memoryBackend) UserID() (string, error) { return "u1", nil }

type memoryPersistence struct {
	session  *dump.Session
	expanded map[bucket.Bucket]bool
}

func (m *memoryPersistence) Session() (*dump.Session, error) { return m.session, nil }
func (m *memoryPersistence) SaveSession(s dump.Session) error {
	m.session = &s
	return nil
}
func (m *memoryPersistence) ClearSession() error {
	m.session = nil
	return nil
}
func (m *memoryPersistence) Expanded(b bucket.Bucket) bool {
	if v, ok := m.expanded[b]; ok {
		return v
	}
	return true
}
func (m *memoryPersistence) SetExpanded(b bucket.Bucket, v bool) error {
	if m.expanded == nil {
		m.expanded = make(map[bucket.Bucket]bool)
	}
	m.expanded[b] = v
	return nil
}
func (m *memoryPersistence) Keys(context.Context) []string { return nil }

var fixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)

func newService(b *memoryBackend) (*Service, *memoryPersistence) {
	p := &memoryPersistence{}
	return &Service{Backend: b, Persistence: p, Clock: func() time.Time { return fixedNow }}, p
}

func sampleDumps() []dump.Dump {
	return []dump.Dump{
		{ID: "late", CreatedAt: "2025-05-01T10:00:00Z", Review: dump.ReviewPending,
			Extracted: &dump.Extraction{Dates: []string{"2025-05-20"}, Urgency: dump.UrgencyHigh, ActionItems: []string{"pay"}}},
		{ID: "today", CreatedAt: "2025-05-30T10:00:00Z",
			Extracted: &dump.Extraction{Dates: []string{"2025-06-01"}, PhoneNumbers: []string{"+1555"}}},
		{ID: "undated", CreatedAt: "2025-01-01T10:00:00Z"},
	}
}

func TestDashboard(t *testing.T) {
	s, p := newService(&memoryBackend{dumps: sampleDumps()})
	if err := p.SetExpanded(bucket.Later, false); err != nil {
		t.Fatal(err)
	}

	d, err := s.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Sections) != 6 {
		t.Fatalf("expected 6 sections, got %d", len(d.Sections))
	}
	want := map[bucket.Bucket]string{bucket.Overdue: "late", bucket.Today: "today", bucket.Later: "undated"}
	for b, id := range want {
		sec := d.Sections[b]
		if len(sec.Items) != 1 || sec.Items[0].ID != id {
			t.Fatalf("%s: expected %s, got %+v", b, id, sec.Items)
		}
	}
	if d.Sections[bucket.Later].Expanded || !d.Sections[bucket.Today].Expanded {
		t.Fatalf("unexpected expanded flags")
	}

	sum := d.Summary
	if sum.Total != 3 || sum.Overdue != 1 || sum.PendingReview != 1 || sum.WithReminder != 1 || sum.WithTracking != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Buckets["overdue"] != 1 || sum.Urgency["high"] != 1 {
		t.Fatalf("unexpected summary maps %+v", sum)
	}
}

func TestToggleBucket(t *testing.T) {
	s, _ := newService(&memoryBackend{})
	got, err := s.ToggleBucket(bucket.NextMonth)
	if err != nil || got {
		t.Fatalf("expected collapsed, got %v %v", got, err)
	}
	got, err = s.ToggleBucket(bucket.NextMonth)
	if err != nil || !got {
		t.Fatalf("expected expanded, got %v %v", got, err)
	}
}

func TestApproveLoadsOnce(t *testing.T) {
	b := &memoryBackend{dumps: sampleDumps()}
	s, _ := newService(b)

	res, err := s.Approve(context.Background(), "late")
	if err != nil || !res.Success {
		t.Fatalf("unexpected result %+v %v", res, err)
	}
	if _, err := s.Approve(context.Background(), "today"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.lists != 1 {
		t.Fatalf("expected a single fetch, got %d", b.lists)
	}
	if d, _ := s.Cache().Get("late"); d.Review != dump.ReviewApproved {
		t.Fatalf("expected approved, got %s", d.Review)
	}
}

func TestRejectRollsBackOnFailure(t *testing.T) {
	b := &memoryBackend{dumps: sampleDumps(), failWith: errors.New("backend down")}
	s, _ := newService(b)

	if _, err := s.Reject(context.Background(), "late", "short"); !dump.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	res, err := s.Reject(context.Background(), "late", "this is not a task")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Success || res.Phase != optimistic.RolledBack {
		t.Fatalf("expected rollback, got %+v", res)
	}
	if d, _ := s.Cache().Get("late"); d.Review != dump.ReviewPending {
		t.Fatalf("expected pending after rollback, got %s", d.Review)
	}
}

func TestItem(t *testing.T) {
	s, _ := newService(&memoryBackend{dumps: sampleDumps()})
	it, err := s.Item(context.Background(), "late")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !it.Overdue || it.Bucket != bucket.Overdue {
		t.Fatalf("unexpected item %+v", it)
	}
	if _, err := s.Item(context.Background(), " "); !dump.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReminders(t *testing.T) {
	b := &memoryBackend{reminders: []dump.Reminder{
		{ID: "far", RemindAt: fixedNow.Add(10 * 24 * time.Hour).Format(time.RFC3339)},
		{ID: "soon", RemindAt: fixedNow.Add(2 * time.Hour).Format(time.RFC3339)},
		{ID: "past", RemindAt: fixedNow.Add(-2 * time.Hour).Format(time.RFC3339)},
		{ID: "sooner", RemindAt: fixedNow.Add(time.Hour).Format(time.RFC3339)},
		{ID: "garbled", RemindAt: "whenever"},
	}}
	s, _ := newService(b)

	week, err := timeutil.ParseWindow("1w")
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Reminders(context.Background(), week)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	want := []string{"sooner", "soon", "garbled"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}

	all, _ := s.Reminders(context.Background(), timeutil.Window{})
	if len(all) != 4 {
		t.Fatalf("expected all upcoming reminders, got %d", len(all))
	}
}

func TestFeedbackValidates(t *testing.T) {
	b := &memoryBackend{}
	s, _ := newService(b)
	if err := s.Feedback(context.Background(), dump.Feedback{Category: "bug", Message: "tiny"}); !dump.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := s.Feedback(context.Background(), dump.Feedback{Category: "bug", Message: "the list never refreshes"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.feedback) != 1 {
		t.Fatalf("expected feedback sent")
	}
}

func TestNoBackend(t *testing.T) {
	s := &Service{}
	if _, err := s.Dashboard(context.Background()); err == nil {
		t.Fatalf("expected error without backend")
	}
	if _, err := s.Search(context.Background(), dump.SearchRequest{Query: "x"}); err == nil {
		t.Fatalf("expected error without backend")
	}
}
