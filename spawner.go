package asyncrt

import (
	"log/slog"
	"sync/atomic"

	"github.com/ChuLiYu/asyncrt/internal/metrics"
	"github.com/ChuLiYu/asyncrt/internal/sched"
	"github.com/ChuLiYu/asyncrt/pkg/join"
	"github.com/ChuLiYu/asyncrt/pkg/task"
)

// Spawner is the submission endpoint returned by Runtime.Spawner. It is
// a plain value type sharing the Runtime's queue and shutdown flag, so
// cloning it is just copying the value.
type Spawner struct {
	queue    *sched.Queue
	shutdown *atomic.Bool
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// Spawn submits computation to the runtime behind sp. If shutdown is
// already observed set, it fails with ErrRuntimeStopped and does not
// enqueue. Otherwise it wraps computation so its final value is
// deposited into a fresh join.Handle, packages it as a sched.Task, and
// pushes it onto the shared queue.
//
// Spawn is a free function rather than a method because Go methods
// cannot carry their own type parameters; T is the computation's result
// type.
func Spawn[T any](sp Spawner, computation task.Computation[T]) (*join.Handle[T], error) {
	if sp.shutdown.Load() {
		return nil, ErrRuntimeStopped
	}

	handle, notifier := join.New[T]()

	pollFn := func(cx *task.Cx) bool {
		outcome := computation(cx)
		if !outcome.Done {
			return false
		}
		notifier.Complete(outcome.Value, nil)
		sp.metrics.RecordCompleted()
		return true
	}

	onPanic := func(recovered any) {
		var zero T
		notifier.Complete(zero, join.ErrPanicked)
		sp.metrics.RecordPanicked()
		logPanic(sp.logger, recovered)
	}

	t := sched.NewTask(sp.queue, pollFn, onPanic)
	sp.metrics.RecordSpawn()
	sp.queue.Push(t)

	return handle, nil
}
