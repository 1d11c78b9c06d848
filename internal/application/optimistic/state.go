package optimistic

import (
	"context"
	"sync"
)

// State is the lifecycle position of a single optimistic mutation
type State int

const (
	Idle State = iota
	Pending
	Committed
	RolledBack
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Result is the settled outcome of a mutation.
//
// Entity holds the server-confirmed record for a committed create and the
// affected record otherwise. Err is set only when State is RolledBack.
type Result[T any] struct {
	State  State
	Entity T
	Err    error

	apply func([]T) []T
}

// Apply reconciles the outcome against the list the owner holds now and
// returns the list to keep. current is never modified.
func (r Result[T]) Apply(current []T) []T {
	if r.apply == nil {
		return current
	}
	return r.apply(current)
}

// Handle tracks an in-flight mutation. Dropping a handle is always safe.
type Handle[T any] struct {
	done chan struct{}

	mu     sync.Mutex
	result Result[T]
}

func newHandle[T any]() *Handle[T] {
	return &Handle[T]{
		done:   make(chan struct{}),
		result: Result[T]{State: Pending},
	}
}

// Done is closed once the mutation has committed or rolled back
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// State returns Pending until the mutation settles
func (h *Handle[T]) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result.State
}

// Result returns the current outcome without blocking
func (h *Handle[T]) Result() Result[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Wait blocks until the mutation settles or ctx is done.
// The returned error is the rollback cause, or ctx's error.
func (h *Handle[T]) Wait(ctx context.Context) (Result[T], error) {
	select {
	case <-h.done:
		r := h.Result()
		return r, r.Err
	case <-ctx.Done():
		return Result[T]{State: Pending}, ctx.Err()
	}
}

func (h *Handle[T]) resolve(r Result[T]) {
	h.mu.Lock()
	h.result = r
	h.mu.Unlock()
	close(h.done)
}
