// Package asyncrt is an embeddable cooperative task runtime: a
// multi-goroutine scheduler that executes user-supplied suspendable
// computations (pkg/task.Computation), a waker protocol that re-enqueues
// a suspended computation when its dependency becomes ready, a timer
// reactor (pkg/sleep, internal/timer) that converts deadline expiry into
// waker invocations without busy-waiting, and join (pkg/join) and
// cancellation (pkg/cancel) primitives that integrate with the same
// waker protocol.
//
// The runtime itself is a fixed pool of worker goroutines pulling from
// a shared queue, a one-shot shutdown signal, and a thin
// constructor/options surface.
package asyncrt

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ChuLiYu/asyncrt/internal/metrics"
	"github.com/ChuLiYu/asyncrt/internal/sched"
)

// Runtime owns the shared submission queue and the shutdown flag.
// Construct one with New, obtain a Spawner to submit work, then Run some
// number of workers.
type Runtime struct {
	queue    *sched.Queue
	shutdown atomic.Bool
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// New constructs a Runtime. No workers are running yet; call Run to
// start them.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		queue:  sched.NewQueue(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Spawner returns a cloneable submission endpoint backed by this
// Runtime's queue and shutdown flag. A Spawner is a small value type;
// copying it is cheap, and it may be handed to any goroutine, including
// one running inside a submitted computation.
func (r *Runtime) Spawner() Spawner {
	return Spawner{
		queue:    r.queue,
		shutdown: &r.shutdown,
		metrics:  r.metrics,
		logger:   r.logger,
	}
}

// RuntimeHandle is returned by Run; Wait blocks until every worker
// goroutine it started has exited.
type RuntimeHandle struct {
	wg *sync.WaitGroup
}

// Wait joins all worker goroutines started by the Run call that
// produced this handle.
func (h *RuntimeHandle) Wait() {
	h.wg.Wait()
}

// Run starts n worker goroutines pulling from the shared queue and
// returns a handle that can be waited on. Workers observe the shutdown
// flag independently of Shutdown's caller; see Shutdown.
func (r *Runtime) Run(n int) *RuntimeHandle {
	var wg sync.WaitGroup
	wg.Add(n)
	r.metrics.SetActiveWorkers(n)
	var running atomic.Int64
	running.Store(int64(n))

	for id := 0; id < n; id++ {
		go func(id int) {
			defer wg.Done()
			defer func() { r.metrics.SetActiveWorkers(int(running.Add(-1))) }()
			r.workerLoop(id)
		}(id)
	}

	return &RuntimeHandle{wg: &wg}
}

// RunBlocking starts n workers and blocks until they all exit,
// equivalent to Run(n) followed by Wait.
func (r *Runtime) RunBlocking(n int) {
	r.Run(n).Wait()
}

// Shutdown is a one-shot operation: it sets the shutdown flag and
// returns immediately. It does not cancel in-flight computations;
// workers drain the queue and exit per their own loop (see worker.go).
func (r *Runtime) Shutdown() {
	r.shutdown.Store(true)
}
