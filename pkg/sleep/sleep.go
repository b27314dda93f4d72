// Package sleep provides a timer future that suspends a computation
// until a wall-clock deadline, backed by the process-wide timer
// reactor singleton in internal/timer.
package sleep

import (
	"time"

	"github.com/ChuLiYu/asyncrt/internal/timer"
	"github.com/ChuLiYu/asyncrt/pkg/task"
)

// Sleep returns a Computation that completes after d has elapsed,
// measured against the monotonic clock captured at the instant Sleep is
// called. Re-registration on subsequent polls is not required: the
// returned Computation is a closure whose captured state remembers
// whether it has already registered with the reactor, and every waker
// the scheduler hands to polls of the same Task re-enqueues that Task.
func Sleep(d time.Duration) task.Computation[struct{}] {
	deadline := time.Now().Add(d)
	registered := false

	return func(cx *task.Cx) task.Outcome[struct{}] {
		if !time.Now().Before(deadline) {
			return task.Ready(struct{}{})
		}

		if !registered {
			timer.Default().Register(deadline, cx.Waker())
			registered = true
			return task.Pending[struct{}]()
		}

		// Waker has not re-fired yet; benign, typically a spurious poll.
		return task.Pending[struct{}]()
	}
}

// Until returns a Computation that completes once the monotonic clock
// reaches deadline, for callers that already compute an absolute
// deadline (e.g. composing with another timeout).
func Until(deadline time.Time) task.Computation[struct{}] {
	return Sleep(time.Until(deadline))
}
