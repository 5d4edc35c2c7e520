package api

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"tableflip.dev/dumpdash/pkg/dump"
)

// Search runs a natural-language search with facet filters.
func (c *Client) Search(ctx context.Context, req dump.SearchRequest) (*dump.SearchResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, &dump.ValidationError{Field: "query", Message: "required"}
	}
	if req.UserID == "" {
		req.UserID, _ = c.UserID()
	}
	var out dump.SearchResponse
	if err := c.do(ctx, "search", http.MethodPost, "/api/search", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Searcher issues searches where each new one cancels the one still in
// flight, so a stale response can never overwrite a fresher query.
type Searcher struct {
	client *Client

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSearcher wraps c.
func NewSearcher(c *Client) *Searcher {
	return &Searcher{client: c}
}

// Search supersedes any in-flight search and runs req. A superseded call
// returns ErrSuperseded and no response.
func (s *Searcher) Search(ctx context.Context, req dump.SearchRequest) (*dump.SearchResponse, error) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	mine := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.seq == mine {
			s.cancel = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	resp, err := s.client.Search(ctx, req)

	s.mu.Lock()
	stale := s.seq != mine
	s.mu.Unlock()
	if stale {
		return nil, ErrSuperseded
	}
	return resp, err
}

// Cancel aborts the in-flight search, if any.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
