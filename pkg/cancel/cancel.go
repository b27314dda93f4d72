// Package cancel implements the cooperative cancellation primitive: a
// shared flag and a wait point whose future integrates into the same
// waker protocol as any other suspendable computation.
package cancel

import (
	"sync"
	"sync/atomic"

	"github.com/ChuLiYu/asyncrt/pkg/task"
)

// state is the shared, reference-counted (via Go pointer sharing) body
// behind every clone of a Token.
type state struct {
	cancelled atomic.Bool
	mu        sync.Mutex
	wakers    []task.Waker
}

// Token is cooperative cancellation flag: clone it freely (clones share
// one state), query it, cancel it (idempotent — only the first
// transition wakes observers), or await its Cancelled future.
//
// A child token is currently a synonym for a clone, so cancelling a
// child cancels the parent and vice versa. A richer
// parent-propagates-but-not-vice-versa hierarchy is a possible future
// extension, not built here.
type Token struct {
	state *state
}

// New constructs a fresh, uncancelled Token.
func New() Token {
	return Token{state: &state{}}
}

// Clone returns a Token sharing the same underlying cancellation state.
func (t Token) Clone() Token {
	return t
}

// Child is a synonym for Clone; see the Token doc comment.
func (t Token) Child() Token {
	return t.Clone()
}

// IsCancelled reports whether cancellation has occurred. Once true, it
// stays true for every clone of the token.
func (t Token) IsCancelled() bool {
	return t.state.cancelled.Load()
}

// Cancel sets the cancellation flag and wakes every waker registered at
// the moment of the transition. Idempotent: only the first call has any
// effect. Wakers that register after the transition observe the flag
// already set on their next check.
func (t Token) Cancel() {
	if !t.state.cancelled.CompareAndSwap(false, true) {
		return
	}

	t.state.mu.Lock()
	wakers := t.state.wakers
	t.state.wakers = nil
	t.state.mu.Unlock()

	for _, w := range wakers {
		w.Wake()
	}
}

// Cancelled polls the cancellation future: ready immediately if already
// cancelled, otherwise registers the current waker and re-checks the
// flag to close the window against a concurrent Cancel() landing between
// the first check and the registration.
func (t Token) Cancelled(cx *task.Cx) task.Outcome[struct{}] {
	if t.state.cancelled.Load() {
		return task.Ready(struct{}{})
	}

	t.state.mu.Lock()
	t.state.wakers = append(t.state.wakers, cx.Waker())
	t.state.mu.Unlock()

	if t.state.cancelled.Load() {
		return task.Ready(struct{}{})
	}
	return task.Pending[struct{}]()
}

// AsComputation adapts Cancelled into a task.Computation, for callers
// that want to await cancellation directly as a suspension point.
func (t Token) AsComputation() task.Computation[struct{}] {
	return t.Cancelled
}
