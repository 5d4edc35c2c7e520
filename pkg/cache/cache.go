// Package cache holds the in-memory dump list behind the dashboard. Reads
// return snapshots, and review and edit actions go through optimistic
// mutations so the UI reacts before the backend answers.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tableflip.dev/dumpdash/pkg/derive"
	"tableflip.dev/dumpdash/pkg/dump"
	"tableflip.dev/dumpdash/pkg/optimistic"
)

// ErrUnknownDump is returned for ids that are not in the cache.
var ErrUnknownDump = errors.New("dump not in cache")

// Backend is the subset of the REST client the cache needs.
type Backend interface {
	ListDumps(ctx context.Context, userID string) ([]dump.Dump, error)
	UpdateDump(ctx context.Context, id string, p dump.Patch) (*dump.Dump, error)
	Approve(ctx context.Context, id string) (*dump.Dump, error)
	Reject(ctx context.Context, id, reason string) (*dump.Dump, error)
}

// Result is the settled outcome of a mutation.
type Result = optimistic.Result[[]dump.Dump]

// Event is emitted when the list changes. ID is empty for a full fetch.
type Event struct {
	Op      string
	ID      string
	Phase   optimistic.Phase
	Message string
}

// Cache owns the dump list. It is safe for concurrent use.
type Cache struct {
	backend Backend
	state   *optimistic.Coordinator[[]dump.Dump]

	mu      sync.Mutex
	pending map[string]int
	fetched time.Time
	seq     int
	settled map[string]settled

	eventCh chan Event
}

// New creates an empty cache over backend.
func New(backend Backend) *Cache {
	return &Cache{
		backend: backend,
		state:   optimistic.New[[]dump.Dump](nil, dump.CloneAll),
		pending: make(map[string]int),
		settled: make(map[string]settled),
		eventCh: make(chan Event, 64),
	}
}

// Events exposes change notifications. Slow readers miss events rather than
// block writers.
func (c *Cache) Events() <-chan Event {
	return c.eventCh
}

func (c *Cache) emit(ev Event) {
	select {
	case c.eventCh <- ev:
	default:
	}
}

// Fetch replaces the list with the backend's copy for userID.
func (c *Cache) Fetch(ctx context.Context, userID string) error {
	list, err := c.backend.ListDumps(ctx, userID)
	if err != nil {
		fetchesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("fetch dumps: %w", err)
	}
	c.state.Set(list)
	c.mu.Lock()
	c.fetched = time.Now()
	c.mu.Unlock()
	c.confirm(list...)
	fetchesTotal.WithLabelValues("ok").Inc()
	c.emit(Event{Op: "fetch", Phase: optimistic.Committed})
	return nil
}

// Seed replaces the list without calling the backend.
func (c *Cache) Seed(list []dump.Dump) {
	c.state.Set(list)
}

// FetchedAt is when the list was last fetched, zero if never.
func (c *Cache) FetchedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetched
}

// Snapshot returns a copy of the current list.
func (c *Cache) Snapshot() []dump.Dump {
	return c.state.Snapshot()
}

// Get returns a copy of one dump.
func (c *Cache) Get(id string) (dump.Dump, bool) {
	return dump.Find(c.state.Snapshot(), id)
}

// Sections derives the six dashboard sections as of now.
func (c *Cache) Sections(now time.Time) []derive.Section {
	return derive.Group(c.state.Snapshot(), now)
}

// Pending reports whether a mutation on id is in flight.
func (c *Cache) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[id] > 0
}

// PendingIDs lists ids with a mutation in flight.
func (c *Cache) PendingIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.pending))
	for id := range c.pending {
		ids = append(ids, id)
	}
	return ids
}

// Patch edits a dump locally without telling the backend.
func (c *Cache) Patch(id string, p dump.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	found := false
	c.state.Update(func(list []dump.Dump) []dump.Dump {
		if i := dump.Index(list, id); i >= 0 {
			list[i] = p.Apply(list[i])
			found = true
		}
		return list
	})
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownDump, id)
	}
	c.emit(Event{Op: "patch", ID: id, Phase: c.state.Phase()})
	return nil
}

// change carries the arguments of one mutation.
type change struct {
	ID     string
	Patch  dump.Patch
	Reason string
}

// Update edits a dump optimistically and sends the patch to the backend.
func (c *Cache) Update(ctx context.Context, id string, p dump.Patch) Result {
	if err := p.Validate(); err != nil {
		return invalid(err)
	}
	return c.mutate(ctx, optimistic.Mutation[[]dump.Dump, change]{
		Name: "update",
		Apply: func(list []dump.Dump, args ...change) []dump.Dump {
			return apply(list, args[0].ID, args[0].Patch.Apply)
		},
		Commit: func(ctx context.Context, list []dump.Dump, args ...change) ([]dump.Dump, error) {
			d, err := c.backend.UpdateDump(ctx, args[0].ID, args[0].Patch)
			return settle(list, d, err)
		},
	}, change{ID: id, Patch: p})
}

// Accept approves an AI-flagged dump.
func (c *Cache) Accept(ctx context.Context, id string) Result {
	return c.mutate(ctx, optimistic.Mutation[[]dump.Dump, change]{
		Name: "approve",
		Apply: func(list []dump.Dump, args ...change) []dump.Dump {
			return apply(list, args[0].ID, withReview(dump.ReviewApproved))
		},
		Commit: func(ctx context.Context, list []dump.Dump, args ...change) ([]dump.Dump, error) {
			d, err := c.backend.Approve(ctx, args[0].ID)
			return settle(list, d, err)
		},
	}, change{ID: id})
}

// Reject refuses an AI-flagged dump. The reason is validated before anything
// becomes visible.
func (c *Cache) Reject(ctx context.Context, id, reason string) Result {
	if err := dump.ValidateRejectReason(reason); err != nil {
		return invalid(err)
	}
	return c.mutate(ctx, optimistic.Mutation[[]dump.Dump, change]{
		Name: "reject",
		Apply: func(list []dump.Dump, args ...change) []dump.Dump {
			return apply(list, args[0].ID, withReview(dump.ReviewRejected))
		},
		Commit: func(ctx context.Context, list []dump.Dump, args ...change) ([]dump.Dump, error) {
			d, err := c.backend.Reject(ctx, args[0].ID, strings.TrimSpace(args[0].Reason))
			return settle(list, d, err)
		},
	}, change{ID: id, Reason: reason})
}

func (c *Cache) mutate(ctx context.Context, m optimistic.Mutation[[]dump.Dump, change], arg change) Result {
	if _, ok := c.Get(arg.ID); !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownDump, arg.ID)
		return Result{Phase: optimistic.Idle, Err: err, Message: fmt.Sprintf("%s failed: %v", m.Name, err)}
	}

	commit := m.Commit
	m.Commit = func(ctx context.Context, list []dump.Dump, args ...change) ([]dump.Dump, error) {
		// The guess is visible by now.
		c.emit(Event{Op: m.Name, ID: arg.ID, Phase: optimistic.Pending})
		return commit(ctx, list, args...)
	}

	c.mu.Lock()
	c.pending[arg.ID]++
	since := c.seq
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.pending[arg.ID]--; c.pending[arg.ID] <= 0 {
			delete(c.pending, arg.ID)
		}
		if len(c.pending) == 0 {
			clear(c.settled)
		}
		c.mu.Unlock()
	}()

	res := optimistic.Execute(ctx, c.state, m, arg)

	// Execute settles from the list as it was when this mutation began.
	// Put back whatever other mutations or fetches settled since then.
	if newer := c.settledSince(since, arg.ID); len(newer) > 0 {
		res.Value = c.state.Update(func(list []dump.Dump) []dump.Dump {
			for _, d := range newer {
				if i := dump.Index(list, d.ID); i >= 0 {
					list[i] = d.Clone()
				}
			}
			return list
		})
	}
	if d, ok := dump.Find(res.Value, arg.ID); ok {
		c.confirm(d)
	}
	mutationsTotal.WithLabelValues(m.Name, res.Phase.String()).Inc()
	c.emit(Event{Op: m.Name, ID: arg.ID, Phase: res.Phase, Message: res.Message})
	return res
}

// settled is the last known server state of a dump while mutations
// overlap.
type settled struct {
	seq int
	d   dump.Dump
}

// confirm records ds as settled. Nothing is kept when no mutation is in
// flight.
func (c *Cache) confirm(ds ...dump.Dump) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pending) == 0 {
		return
	}
	c.seq++
	for _, d := range ds {
		c.settled[d.ID] = settled{seq: c.seq, d: d.Clone()}
	}
}

func (c *Cache) settledSince(seq int, skip string) []dump.Dump {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []dump.Dump
	for id, s := range c.settled {
		if s.seq > seq && id != skip {
			out = append(out, s.d)
		}
	}
	return out
}

func invalid(err error) Result {
	return Result{Phase: optimistic.Idle, Err: err, Message: err.Error()}
}

func apply(list []dump.Dump, id string, fn func(dump.Dump) dump.Dump) []dump.Dump {
	if i := dump.Index(list, id); i >= 0 {
		list[i] = fn(list[i])
	}
	return list
}

func withReview(r dump.Review) func(dump.Dump) dump.Dump {
	return func(d dump.Dump) dump.Dump {
		d.Review = r
		return d
	}
}

// settle folds the server's copy of a dump into the list. A response with no
// body keeps the optimistic guess.
func settle(list []dump.Dump, d *dump.Dump, err error) ([]dump.Dump, error) {
	if err != nil {
		return nil, err
	}
	if d == nil || d.ID == "" {
		return list, nil
	}
	return dump.Replace(list, *d), nil
}
