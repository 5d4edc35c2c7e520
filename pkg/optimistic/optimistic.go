// Package optimistic runs two-phase mutations: publish a local guess first,
// then commit remotely and either keep the server's answer or restore the
// exact pre-mutation snapshot.
package optimistic

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Phase is the state of the most recent mutation on a Coordinator.
type Phase int

const (
	// Idle means no mutation has run yet.
	Idle Phase = iota
	// Pending means a local guess is visible and the remote call is in flight.
	Pending
	// Committed means the server's answer is the visible state.
	Committed
	// RolledBack means the remote call failed and the snapshot was restored.
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled-back"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Observer is told about every published state.
type Observer[T any] func(state T, phase Phase)

// Coordinator owns a value of T and serializes reads and writes to it.
// Mutations are not deduplicated; callers disable their triggers while a
// mutation is pending.
type Coordinator[T any] struct {
	mu        sync.Mutex
	state     T
	phase     Phase
	clone     func(T) T
	observers []Observer[T]
}

// New creates a Coordinator holding initial. clone must return a deep copy;
// it is what makes rollbacks exact.
func New[T any](initial T, clone func(T) T) *Coordinator[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Coordinator[T]{state: clone(initial), clone: clone}
}

// Observe registers fn to be called after every publish, outside the lock.
func (c *Coordinator[T]) Observe(fn Observer[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Snapshot returns a copy of the visible state.
func (c *Coordinator[T]) Snapshot() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clone(c.state)
}

// Phase returns the phase of the most recent mutation.
func (c *Coordinator[T]) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Set replaces the visible state with an authoritative value.
func (c *Coordinator[T]) Set(v T) {
	c.mu.Lock()
	c.state = c.clone(v)
	phase := c.phase
	c.mu.Unlock()
	c.publish(v, phase)
}

// Update applies fn to a copy of the state and publishes the result. It is a
// local-only edit with no remote side.
func (c *Coordinator[T]) Update(fn func(T) T) T {
	c.mu.Lock()
	next := fn(c.clone(c.state))
	c.state = c.clone(next)
	phase := c.phase
	c.mu.Unlock()
	c.publish(next, phase)
	return next
}

func (c *Coordinator[T]) swap(v T, phase Phase) {
	c.mu.Lock()
	c.state = c.clone(v)
	c.phase = phase
	c.mu.Unlock()
	c.publish(v, phase)
}

func (c *Coordinator[T]) publish(v T, phase Phase) {
	c.mu.Lock()
	observers := append([]Observer[T](nil), c.observers...)
	c.mu.Unlock()
	for _, fn := range observers {
		fn(c.clone(v), phase)
	}
}

// Mutation describes one kind of two-phase change over T with arguments A.
type Mutation[T, A any] struct {
	Name string
	// Apply computes the optimistic guess from a copy of the current state.
	Apply func(state T, args ...A) T
	// Commit performs the remote call. It receives the optimistic state and
	// returns the authoritative state built from the server response.
	Commit func(ctx context.Context, optimistic T, args ...A) (T, error)
}

// Result is the settled outcome of Execute.
type Result[T any] struct {
	Success bool
	Phase   Phase
	Value   T
	Err     error
	Message string
}

// Messenger lets errors provide the text shown to users on rollback.
type Messenger interface {
	UserMessage() string
}

// Execute runs m against c. The guess is published before Commit starts;
// once Execute returns the visible state is either Commit's result or the
// exact snapshot taken on entry. Failures are returned in the Result.
func Execute[T, A any](ctx context.Context, c *Coordinator[T], m Mutation[T, A], args ...A) Result[T] {
	c.mu.Lock()
	snapshot := c.clone(c.state)
	guess := c.clone(c.state)
	c.mu.Unlock()

	if m.Apply != nil {
		guess = m.Apply(guess, args...)
	}
	c.swap(guess, Pending)

	if m.Commit == nil {
		c.swap(guess, Committed)
		return Result[T]{Success: true, Phase: Committed, Value: c.clone(guess)}
	}

	committed, err := commit(ctx, m, c.clone(guess), args...)
	if err != nil {
		c.swap(snapshot, RolledBack)
		return Result[T]{
			Phase:   RolledBack,
			Value:   c.clone(snapshot),
			Err:     err,
			Message: messageFor(m.Name, err),
		}
	}
	c.swap(committed, Committed)
	return Result[T]{Success: true, Phase: Committed, Value: c.clone(committed)}
}

func commit[T, A any](ctx context.Context, m Mutation[T, A], guess T, args ...A) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic: %v", m.Name, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return out, err
	}
	return m.Commit(ctx, guess, args...)
}

func messageFor(name string, err error) string {
	var um Messenger
	msg := err.Error()
	if errors.As(err, &um) {
		if s := um.UserMessage(); s != "" {
			msg = s
		}
	}
	if errors.Is(err, context.Canceled) {
		msg = "cancelled"
	} else if errors.Is(err, context.DeadlineExceeded) {
		msg = "timed out"
	}
	if name == "" {
		return msg
	}
	return fmt.Sprintf("%s failed: %s", name, msg)
}
