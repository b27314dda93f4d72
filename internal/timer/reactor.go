package timer

import (
	"sync"
	"time"

	"github.com/ChuLiYu/asyncrt/internal/rtlog"
	"github.com/ChuLiYu/asyncrt/pkg/task"
)

// Reactor owns exactly one registry, guarded by a mutex paired with a
// condition variable, and runs a background goroutine that sleeps until
// the earliest deadline, wakes expired entries, and accepts new
// registrations concurrently.
type Reactor struct {
	mu   sync.Mutex
	cond *sync.Cond
	reg  *registry
}

func newReactor() *Reactor {
	r := &Reactor{reg: newRegistry()}
	r.cond = sync.NewCond(&r.mu)
	go r.run()
	return r
}

var (
	defaultOnce    sync.Once
	defaultReactor *Reactor
)

// Default returns the process-wide Reactor, constructing it (and its
// background goroutine, named "timer-reactor" in its log lines) lazily
// on first use. The goroutine is never joined: it is a process-lifetime
// resource, acceptable for an embeddable runtime.
func Default() *Reactor {
	defaultOnce.Do(func() {
		defaultReactor = newReactor()
		rtlog.Default().Info("timer-reactor started")
	})
	return defaultReactor
}

// Register adds w to the wakers due at deadline and signals the
// reactor's condition variable once; the reactor re-checks the minimum
// deadline after every wake, so a single signal per insert suffices.
func (r *Reactor) Register(deadline time.Time, w task.Waker) {
	r.mu.Lock()
	r.reg.register(deadline, w)
	r.mu.Unlock()
	r.cond.Signal()
}

// run is the reactor's sole loop. It holds the registry lock throughout
// each iteration except while dispatching wakers, which happens with the
// lock released to avoid the inversion of a waker's timer re-registration
// reacquiring a lock its own dispatch is holding.
func (r *Reactor) run() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		deadline, ok := r.reg.nextDeadline()
		if !ok {
			r.cond.Wait()
			continue
		}

		now := time.Now()
		if !deadline.After(now) {
			ready := r.reg.popReady(now)
			r.mu.Unlock()
			for _, w := range ready {
				w.Wake()
			}
			r.mu.Lock()
			continue
		}

		r.waitUntil(deadline)
	}
}

// waitUntil blocks on the condition variable until either deadline
// elapses or some other goroutine signals (a new, earlier registration,
// or a spurious wake). sync.Cond has no timed wait, so a short-lived
// helper goroutine races a time.Timer against the wait and broadcasts to
// unblock it; the reactor loop tolerates the resulting spurious wakeups
// because it re-evaluates nextDeadline and now on every iteration.
//
// Must be called with r.mu held; returns with r.mu held.
func (r *Reactor) waitUntil(deadline time.Time) {
	timer := time.NewTimer(time.Until(deadline))
	stop := make(chan struct{})
	go func() {
		select {
		case <-timer.C:
		case <-stop:
		}
		r.mu.Lock()
		r.cond.Broadcast()
		r.mu.Unlock()
	}()

	r.cond.Wait()

	timer.Stop()
	close(stop)
}
