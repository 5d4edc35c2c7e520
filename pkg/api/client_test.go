package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/dumpdash/pkg/dump"
)

type memSessions struct {
	mu      sync.Mutex
	s       *dump.Session
	cleared int
}

func (m *memSessions) Session() (*dump.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, nil
	}
	cp := *m.s
	return &cp, nil
}

func (m *memSessions) SaveSession(s dump.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

func (m *memSessions) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	m.cleared++
	return nil
}

func newTestClient(t *testing.T, h http.Handler, sessions *memSessions) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts := []Option{WithTimeout(5 * time.Second)}
	if sessions != nil {
		opts = append(opts, WithSessionStore(sessions))
	}
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New("  ")
	require.Error(t, err)

	_, err = New("http://localhost", WithTimeout(0))
	require.Error(t, err)
}

func TestLoginSavesSession(t *testing.T) {
	sessions := &memSessions{s: &dump.Session{AccessToken: "stale"}}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "+15550100", body.PhoneNumber)
		assert.Equal(t, "123456", body.VerificationCode)

		writeJSON(w, http.StatusOK, map[string]any{
			"access_token":  "a1",
			"refresh_token": "r1",
			"user":          map[string]any{"id": "u1", "name": "Sam"},
		})
	}), sessions)

	s, err := c.Login(context.Background(), " +15550100 ", "123456")
	require.NoError(t, err)
	assert.Equal(t, "a1", s.AccessToken)

	stored, _ := sessions.Session()
	require.NotNil(t, stored)
	assert.Equal(t, "r1", stored.RefreshToken)
	assert.Equal(t, "u1", stored.User.ID)

	id, err := c.UserID()
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
}

func TestLoginValidatesInput(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), nil)
	_, err := c.Login(context.Background(), "", "1")
	assert.True(t, dump.IsValidation(err))
	_, err = c.Login(context.Background(), "+1", " ")
	assert.True(t, dump.IsValidation(err))
}

func TestListDumpsAttachesTokenAndRequestID(t *testing.T) {
	sessions := &memSessions{s: &dump.Session{AccessToken: "tok", User: dump.User{ID: "u1"}}}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/dumps/user/u1", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": "d1", "review_status": "pending", "extracted_entities": map[string]any{"urgency": "high"}},
			{"id": "d2", "processing_status": "failed"},
		})
	}), sessions)

	list, err := c.ListDumps(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, dump.ReviewPending, list[0].Review)
	assert.Equal(t, dump.UrgencyHigh, list[0].Urgency())
	assert.Equal(t, dump.ProcessingFailed, list[1].Processing)
}

func TestListDumpsWithoutUser(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), &memSessions{})
	_, err := c.ListDumps(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestUserIDOverride(t *testing.T) {
	c, err := New("http://localhost", WithUserID(" u9 "), WithSessionStore(&memSessions{s: &dump.Session{AccessToken: "a", User: dump.User{ID: "u1"}}}))
	require.NoError(t, err)
	id, err := c.UserID()
	require.NoError(t, err)
	assert.Equal(t, "u9", id)
}

func TestRefreshOnceThenRetry(t *testing.T) {
	sessions := &memSessions{s: &dump.Session{AccessToken: "old", RefreshToken: "r1", User: dump.User{ID: "u1"}}}
	var refreshes int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refresh":
			refreshes++
			var body refreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "r1", body.RefreshToken)
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "new"})
		case "/api/dumps/d1":
			if r.Header.Get("Authorization") != "Bearer new" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "expired"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"id": "d1", "category": "work"})
		default:
			http.NotFound(w, r)
		}
	}), sessions)

	d, err := c.GetDump(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "work", d.Category)
	assert.Equal(t, 1, refreshes)

	stored, _ := sessions.Session()
	require.NotNil(t, stored)
	assert.Equal(t, "new", stored.AccessToken)
	assert.Equal(t, "r1", stored.RefreshToken, "refresh token is kept when the server does not rotate it")
}

func TestRefreshFailureClearsSession(t *testing.T) {
	sessions := &memSessions{s: &dump.Session{AccessToken: "old", RefreshToken: "r1"}}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "nope"})
	}), sessions)

	_, err := c.GetDump(context.Background(), "d1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindAuth, kind)
	assert.Equal(t, 1, sessions.cleared)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "session expired, please log in again", apiErr.UserMessage())
}

func TestSecond401ClearsSession(t *testing.T) {
	sessions := &memSessions{s: &dump.Session{AccessToken: "old", RefreshToken: "r1"}}
	var calls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/refresh" {
			writeJSON(w, http.StatusOK, map[string]any{"access_token": "new", "refresh_token": "r2"})
			return
		}
		calls++
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "still no"})
	}), sessions)

	_, err := c.GetDump(context.Background(), "d1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 2, calls, "exactly one retry")
	assert.Equal(t, 1, sessions.cleared)
}

func TestErrorTaxonomy(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/dumps/missing":
			writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Dump not found"})
		case "/api/dumps/bad":
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"detail": []map[string]any{{"msg": "category too long"}, {"msg": "notes too long"}},
			})
		default:
			writeJSON(w, http.StatusConflict, map[string]any{"message": "already reviewed"})
		}
	}), nil)

	_, err := c.GetDump(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	kind, _ := KindOf(err)
	assert.Equal(t, KindBusiness, kind)

	cat := "x"
	_, err = c.UpdateDump(context.Background(), "bad", dump.Patch{Category: &cat})
	kind, _ = KindOf(err)
	assert.Equal(t, KindValidation, kind)
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "category too long; notes too long", apiErr.UserMessage())

	_, err = c.Approve(context.Background(), "d1")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindBusiness, apiErr.Kind)
	assert.Equal(t, "already reviewed", apiErr.UserMessage())
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, WithTimeout(time.Second))
	require.NoError(t, err)
	_, err = c.GetDump(context.Background(), "d1")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, kind)
}

func TestReviewEndpoints(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		switch r.URL.Path {
		case "/review/d1/approve":
			writeJSON(w, http.StatusOK, map[string]any{"id": "d1", "review_status": "approved"})
		case "/review/d1/reject":
			var body rejectRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "not relevant at all", body.Reason)
			writeJSON(w, http.StatusOK, map[string]any{"id": "d1", "review_status": "rejected"})
		default:
			http.NotFound(w, r)
		}
	}), nil)

	d, err := c.Approve(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, dump.ReviewApproved, d.Review)

	d, err = c.Reject(context.Background(), "d1", "not relevant at all")
	require.NoError(t, err)
	assert.Equal(t, dump.ReviewRejected, d.Review)
}

func TestRemindersTrackingFeedback(t *testing.T) {
	sessions := &memSessions{s: &dump.Session{AccessToken: "tok", User: dump.User{ID: "u1"}}}
	var feedback dump.Feedback
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/reminders":
			assert.Equal(t, "u1", r.URL.Query().Get("user_id"))
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "r1", "dump_id": "d1", "message": "call", "remind_at": "2025-06-01T09:00:00Z"}})
		case "/api/tracking":
			writeJSON(w, http.StatusOK, []map[string]any{{"id": "t1", "dump_id": "d1", "phone_number": "+1555"}})
		case "/feedback/submit":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&feedback))
			w.WriteHeader(http.StatusCreated)
		default:
			http.NotFound(w, r)
		}
	}), sessions)

	rs, err := c.Reminders(context.Background())
	require.NoError(t, err)
	require.Len(t, rs, 1)
	when, ok := rs[0].When()
	require.True(t, ok)
	assert.Equal(t, 2025, when.Year())

	ts, err := c.Tracking(context.Background())
	require.NoError(t, err)
	require.Len(t, ts, 1)
	assert.Equal(t, "+1555", ts[0].PhoneNumber)

	err = c.SubmitFeedback(context.Background(), dump.Feedback{Category: dump.FeedbackBug, Message: "short"})
	assert.True(t, dump.IsValidation(err))

	err = c.SubmitFeedback(context.Background(), dump.Feedback{Category: dump.FeedbackFeature, Message: "please add dark mode", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "u1", feedback.UserID)
	assert.Equal(t, dump.FeedbackFeature, feedback.Category)
}

func TestSearchRequiresQuery(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler(), nil)
	_, err := c.Search(context.Background(), dump.SearchRequest{Query: "  "})
	assert.True(t, dump.IsValidation(err))
}

func TestSearcherSupersedesInFlight(t *testing.T) {
	started := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dump.SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Query == "slow" {
			close(started)
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			writeJSON(w, http.StatusOK, map[string]any{"query": "slow", "total": 1})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"query": req.Query,
			"total": 1,
			"results": []map[string]any{
				{"dump": map[string]any{"id": "d1"}, "score": 0.9, "match_type": "semantic"},
			},
			"facets": map[string]any{"categories": map[string]int{"work": 1}},
		})
	}), nil)

	s := NewSearcher(c)
	slow := make(chan error, 1)
	go func() {
		_, err := s.Search(context.Background(), dump.SearchRequest{Query: "slow"})
		slow <- err
	}()
	<-started

	resp, err := s.Search(context.Background(), dump.SearchRequest{Query: "fast"})
	require.NoError(t, err)
	assert.Equal(t, "fast", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, dump.MatchSemantic, resp.Results[0].MatchType)
	assert.Equal(t, 1, resp.Facets.Categories["work"])

	select {
	case err := <-slow:
		assert.ErrorIs(t, err, ErrSuperseded)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded search never returned")
	}
}
