// Package join implements the Join Handle and its paired internal
// notifier: the caller-facing future that resolves to a previously
// spawned computation's result, and the one-shot completion hook the
// scheduler uses to deposit that result.
package join

import (
	"errors"
	"sync"

	"github.com/ChuLiYu/asyncrt/pkg/task"
)

// Panicked indicates the computation raised a fatal error during a poll
// step; Cancelled is reserved for an implementation that abandons a
// computation outright rather than relying on cooperative cancellation
// (no baseline path in this runtime constructs it; see the cancellation
// token in pkg/cancel for the cooperative mechanism that is used).
var (
	ErrPanicked  = errors.New("task panicked")
	ErrCancelled = errors.New("task was cancelled")
)

// Result is the outcome a Handle resolves to: either a value, or one of
// the JoinError sentinels above in Err.
type Result[T any] struct {
	Value T
	Err   error
}

// Handle is the caller's future over a spawned computation's result.
// Its zero value is not usable; construct one with New.
type Handle[T any] struct {
	mu     sync.Mutex
	result *Result[T]
	waker  task.Waker
}

// Notifier is the 1:1 counterpart created alongside a Handle. The
// scheduler invokes Complete exactly once: on normal completion, or with
// ErrPanicked on a captured panic. No path in this runtime completes a
// Handle with ErrCancelled.
type Notifier[T any] struct {
	handle *Handle[T]
}

// New creates a Handle and its paired Notifier, sharing one Join State.
func New[T any]() (*Handle[T], *Notifier[T]) {
	h := &Handle[T]{}
	return h, &Notifier[T]{handle: h}
}

// Complete installs the result and wakes the handle's currently
// registered waker, if any. Calling Complete more than once on the same
// Notifier is a caller bug; only the first call has any effect.
func (n *Notifier[T]) Complete(value T, err error) {
	h := n.handle
	h.mu.Lock()
	if h.result != nil {
		h.mu.Unlock()
		return
	}
	h.result = &Result[T]{Value: value, Err: err}
	w := h.waker
	h.waker = nil
	h.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

// IsFinished reports whether the result slot has a value. Level
// triggered: it never transitions back to false.
func (h *Handle[T]) IsFinished() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result != nil
}

// Await polls the handle: a present result completes immediately (the
// result stays in the slot, so a later poll returns the same result
// again), otherwise the current waker is installed and the poll
// suspends.
func (h *Handle[T]) Await(cx *task.Cx) task.Outcome[Result[T]] {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.result != nil {
		return task.Ready(*h.result)
	}

	h.waker = cx.Waker()
	return task.Pending[Result[T]]()
}

// AsComputation adapts Await into a task.Computation, for callers that
// want to spawn or compose directly over a Handle's result.
func (h *Handle[T]) AsComputation() task.Computation[Result[T]] {
	return h.Await
}
