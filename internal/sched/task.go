// Package sched implements the core pollable Task and its waker wiring,
// and the shared submission queue workers pull from.
//
// Design Pattern:
//   A Task holds at most one in-flight computation behind a mutex (the
//   polling exclusion lock). A waker derived from a Task re-pushes that
//   same Task reference onto the shared Queue; the Queue, not the Task,
//   is what keeps a pending wakeup alive. When the computation slot is
//   cleared (completion, or a captured panic), the Task is retained only
//   by whatever queue slots or waker closures still reference it, and is
//   collected by the Go runtime once those are gone.
package sched

import (
	"sync"

	"github.com/ChuLiYu/asyncrt/pkg/task"
)

// Task is a reference-counted (via ordinary Go pointer sharing) container
// holding at most one in-flight suspendable computation and a reference
// to the queue it re-enqueues itself on.
type Task struct {
	mu          sync.Mutex
	computation func(cx *task.Cx) bool
	onPanic     func(recovered any)
	queue       *Queue
}

// NewTask wraps computation (a type-erased poll step returning true once
// the underlying Computation is Ready) for submission onto queue.
// onPanic, if non-nil, is invoked exactly once if a poll step panics;
// it runs outside the Task's lock.
func NewTask(queue *Queue, computation func(cx *task.Cx) bool, onPanic func(recovered any)) *Task {
	return &Task{
		computation: computation,
		onPanic:     onPanic,
		queue:       queue,
	}
}

// PollOnce claims the polling exclusion lock, polls the computation one
// step if present, and clears the slot on completion or panic. A stale
// wakeup (empty slot) returns immediately.
func (t *Task) PollOnce() {
	t.mu.Lock()
	comp := t.computation
	if comp == nil {
		t.mu.Unlock()
		return
	}

	waker := &taskWaker{task: t}
	cx := task.NewCx(waker)

	done, recovered := pollStep(comp, cx)
	if done || recovered != nil {
		t.computation = nil
	}
	t.mu.Unlock()

	if recovered != nil && t.onPanic != nil {
		t.onPanic(recovered)
	}
}

// pollStep runs one poll step, recovering a panic rather than letting it
// unwind into the worker goroutine. This stands in for the source
// language's ability to intercept a fatal error during a poll step
// without tearing down the worker thread.
func pollStep(comp func(cx *task.Cx) bool, cx *task.Cx) (done bool, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
		}
	}()
	done = comp(cx)
	return
}

// taskWaker is the waker handed to a Task's computation on every poll:
// waking it re-pushes the Task reference onto the shared queue.
type taskWaker struct {
	task *Task
}

func (w *taskWaker) Wake() {
	w.task.queue.Push(w.task)
}
