package asyncrt

import (
	"runtime"
)

// workerLoop is the per-worker main loop: pull one Task, poll it one
// step, repeat. Uses a non-blocking TryPop rather than a blocking
// channel receive, so a waker's re-push never blocks behind a full
// channel.
//
// Termination: the loop exits only once TryPop reports the queue empty
// *and* the shutdown flag is observed set. A worker may therefore keep
// executing Tasks enqueued after Shutdown was called, so long as the
// queue is non-empty when observed — this is intentional, see
// Runtime.Shutdown.
func (r *Runtime) workerLoop(id int) {
	defer r.logger.Info("worker exiting", "worker_id", id)

	for {
		if t, ok := r.queue.TryPop(); ok {
			if r.metrics != nil {
				r.metrics.SetQueueDepth(r.queue.Len())
			}
			t.PollOnce()
			continue
		}

		if r.shutdown.Load() {
			return
		}

		r.metrics.SetQueueDepth(r.queue.Len())

		// Yield the goroutine to reduce busy-spin rather than blocking;
		// the queue offers no indefinite wait.
		runtime.Gosched()
	}
}
