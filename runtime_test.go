package asyncrt

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChuLiYu/asyncrt/pkg/task"
)

// assertEventuallyWait/Tick bound the poll loops used throughout these
// tests to observe a join.Handle becoming finished without a direct
// callback from the worker.
const (
	assertEventuallyWait = 2 * time.Second
	assertEventuallyTick = 2 * time.Millisecond
)

func TestNewRuntimeHasNoRunningWorkers(t *testing.T) {
	rt := New()
	assert.NotNil(t, rt)

	h, err := Spawn(rt.Spawner(), func(cx *task.Cx) task.Outcome[int] {
		return task.Ready(1)
	})
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	assert.False(t, h.IsFinished(), "no worker polls a spawned Task before Run")
}

func TestRunBlockingReturnsAfterShutdown(t *testing.T) {
	rt := New()

	done := make(chan struct{})
	go func() {
		rt.RunBlocking(2)
		close(done)
	}()

	// Give the workers a moment to start spinning on the empty queue.
	time.Sleep(10 * time.Millisecond)
	rt.Shutdown()

	select {
	case <-done:
	case <-time.After(assertEventuallyWait):
		t.Fatal("RunBlocking did not return after Shutdown")
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	rt := New()
	assert.NotPanics(t, func() {
		rt.Shutdown()
		rt.Shutdown()
	})
}

func TestRunDrainsQueuedWorkBeforeObservingShutdown(t *testing.T) {
	rt := New()
	sp := rt.Spawner()

	const n = 50
	handles := make([]interface {
		IsFinished() bool
	}, n)
	for i := 0; i < n; i++ {
		h, err := Spawn(sp, func(cx *task.Cx) task.Outcome[int] {
			return task.Ready(1)
		})
		require.NoError(t, err)
		handles[i] = h
	}

	rh := rt.Run(4)
	rt.Shutdown()

	for _, h := range handles {
		require.Eventually(t, h.IsFinished, assertEventuallyWait, assertEventuallyTick)
	}
	rh.Wait()
}

func TestMultipleWorkersShareTheQueue(t *testing.T) {
	rt := New()
	sp := rt.Spawner()

	var mu sync.Mutex
	seen := map[int]bool{}

	const n = 100
	for i := 0; i < n; i++ {
		i := i
		_, err := Spawn(sp, func(cx *task.Cx) task.Outcome[struct{}] {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
			return task.Ready(struct{}{})
		})
		require.NoError(t, err)
	}

	rh := rt.Run(8)
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == n
	}, assertEventuallyWait, assertEventuallyTick)

	rt.Shutdown()
	rh.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, n)
}

func TestSpawnerIsCloneableAcrossGoroutines(t *testing.T) {
	rt := New()
	sp := rt.Spawner()

	rh := rt.Run(2)
	defer func() {
		rt.Shutdown()
		rh.Wait()
	}()

	// A Spawner obtained once may be handed to any goroutine, including
	// one spawned from inside another computation.
	outer, err := Spawn(sp, func(cx *task.Cx) task.Outcome[int] {
		spCopy := sp
		go func() {
			_, _ = Spawn(spCopy, func(cx *task.Cx) task.Outcome[int] {
				return task.Ready(2)
			})
		}()
		return task.Ready(1)
	})
	require.NoError(t, err)
	require.Eventually(t, outer.IsFinished, assertEventuallyWait, assertEventuallyTick)
}
