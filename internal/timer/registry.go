// Package timer implements the deadline-ordered timer registry and the
// singleton reactor goroutine that converts deadline expiry into waker
// invocations without busy-waiting. The registry is a container/heap
// min-heap of pending deadlines, each holding the (possibly many)
// task.Waker values registered against it, guarded by the reactor's
// mutex.
package timer

import (
	"container/heap"
	"time"

	"github.com/ChuLiYu/asyncrt/pkg/task"
)

// entry is one distinct deadline and the (possibly many) wakers
// registered against it.
type entry struct {
	deadline time.Time
	wakers   []task.Waker
	index    int // heap index, maintained by heap.Interface
}

// deadlineHeap is a container/heap min-heap of *entry ordered by
// deadline. The registry never removes an entry except via Pop, so the
// minimum observed under the registry's lock is stable until released.
type deadlineHeap []*entry

func (h deadlineHeap) Len() int            { return len(h) }
func (h deadlineHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h deadlineHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *deadlineHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *deadlineHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// registry is a mapping from deadline instants to a non-empty ordered
// sequence of wakers. It has no internal synchronization of its own:
// the Reactor is the sole owner and mutates it only under its mutex.
type registry struct {
	h       deadlineHeap
	byExact map[time.Time]*entry
}

func newRegistry() *registry {
	return &registry{
		byExact: make(map[time.Time]*entry),
	}
}

// register adds w to the waker sequence for deadline, creating a new
// heap entry if this is the first registration at exactly that instant.
func (r *registry) register(deadline time.Time, w task.Waker) {
	if e, ok := r.byExact[deadline]; ok {
		e.wakers = append(e.wakers, w)
		return
	}
	e := &entry{deadline: deadline, wakers: []task.Waker{w}}
	r.byExact[deadline] = e
	heap.Push(&r.h, e)
}

// nextDeadline peeks the minimum key, if any.
func (r *registry) nextDeadline() (time.Time, bool) {
	if r.h.Len() == 0 {
		return time.Time{}, false
	}
	return r.h[0].deadline, true
}

// popReady removes and returns every waker whose deadline is <= now,
// leaving strictly-later entries in place. Each returned waker is
// dropped from the map before being handed back, so the Reactor invokes
// it at most once.
func (r *registry) popReady(now time.Time) []task.Waker {
	var ready []task.Waker
	for r.h.Len() > 0 && !r.h[0].deadline.After(now) {
		e := heap.Pop(&r.h).(*entry)
		delete(r.byExact, e.deadline)
		ready = append(ready, e.wakers...)
	}
	return ready
}
