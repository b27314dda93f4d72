// Package task defines the suspendable-computation shape that the
// scheduling core polls: the Outcome a computation reports on each poll
// step, the Waker a suspended computation registers with a dependency,
// and the Cx handed to a computation on every poll.
package task

// Outcome is the result of one poll step: either the computation is
// still suspended (Done == false) or it has produced its final value.
type Outcome[T any] struct {
	Done  bool
	Value T
}

// Pending reports that a computation is suspended and has not produced
// a value on this poll step.
func Pending[T any]() Outcome[T] {
	return Outcome[T]{}
}

// Ready reports that a computation has completed with value v.
func Ready[T any](v T) Outcome[T] {
	return Outcome[T]{Done: true, Value: v}
}

// Computation is a suspendable unit of work with a single result value.
// It advances by explicit polling: each call to a Computation is one
// poll step, running synchronously from the computation's last
// suspension point until it either completes or suspends again.
//
// A Computation that returns Pending without registering cx.Waker()
// with some dependency (a Sleep, a Handle, a cancellation Token, or a
// user-built combinator over these) is stranded: nothing will ever
// re-schedule it. The core does not detect this; it is the caller's
// responsibility.
type Computation[T any] func(cx *Cx) Outcome[T]

// Waker signals that a suspended computation's dependency is ready and
// it should be re-scheduled. Wake may be called from any goroutine,
// including from inside the Reactor or from another worker, and may be
// called more than once; implementations must tolerate duplicate wakes.
type Waker interface {
	Wake()
}

// Cx is the context handed to a Computation on each poll step. It
// carries the Waker the computation should register with whatever it
// is about to suspend on.
type Cx struct {
	waker Waker
}

// NewCx builds a Cx wrapping the given Waker. Scheduler and combinator
// code construct these; user computations only ever receive one.
func NewCx(w Waker) *Cx {
	return &Cx{waker: w}
}

// Waker returns the waker for the current poll step.
func (c *Cx) Waker() Waker {
	return c.waker
}
