package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWaker struct {
	woken bool
}

func (w *fakeWaker) Wake() { w.woken = true }

func TestRegistryNextDeadlineEmpty(t *testing.T) {
	r := newRegistry()
	_, ok := r.nextDeadline()
	assert.False(t, ok)
}

func TestRegistryNextDeadlineIsMinimum(t *testing.T) {
	r := newRegistry()
	base := time.Now()

	r.register(base.Add(3*time.Second), &fakeWaker{})
	r.register(base.Add(1*time.Second), &fakeWaker{})
	r.register(base.Add(2*time.Second), &fakeWaker{})

	d, ok := r.nextDeadline()
	require.True(t, ok)
	assert.True(t, d.Equal(base.Add(1*time.Second)))
}

func TestRegistrySharedDeadlineKeepsBothWakers(t *testing.T) {
	r := newRegistry()
	deadline := time.Now().Add(time.Second)

	w1 := &fakeWaker{}
	w2 := &fakeWaker{}
	r.register(deadline, w1)
	r.register(deadline, w2)

	ready := r.popReady(deadline)
	require.Len(t, ready, 2)
}

func TestRegistryPopReadyLeavesLaterEntries(t *testing.T) {
	r := newRegistry()
	now := time.Now()

	early := &fakeWaker{}
	late := &fakeWaker{}
	r.register(now.Add(-time.Second), early) // already due
	r.register(now.Add(time.Hour), late)     // strictly later

	ready := r.popReady(now)
	require.Len(t, ready, 1)
	assert.Same(t, early, ready[0].(*fakeWaker))

	d, ok := r.nextDeadline()
	require.True(t, ok)
	assert.True(t, d.Equal(now.Add(time.Hour)))
}

func TestRegistryPopReadyIsOnceOnly(t *testing.T) {
	r := newRegistry()
	now := time.Now()
	r.register(now, &fakeWaker{})

	first := r.popReady(now)
	require.Len(t, first, 1)

	second := r.popReady(now)
	assert.Len(t, second, 0, "a popped entry must not be returned again")
}

func TestRegistryPopReadyOrdersMultipleDeadlines(t *testing.T) {
	r := newRegistry()
	base := time.Now().Add(-time.Minute)

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		r.register(base.Add(time.Duration(i)*time.Millisecond), wakeFunc(func() { order = append(order, i) }))
	}

	ready := r.popReady(time.Now())
	require.Len(t, ready, 5)
	for _, w := range ready {
		w.Wake()
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order, "wakers due earlier must be returned before later ones")
}

type wakeFunc func()

func (f wakeFunc) Wake() { f() }
