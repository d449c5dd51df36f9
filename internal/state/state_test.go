package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservableGetSet(t *testing.T) {
	o := NewObservable(RequestState[[]string]{})
	assert.Nil(t, o.Get().Data)

	o.Set(RequestState[[]string]{Data: []string{"a"}})
	assert.Equal(t, []string{"a"}, o.Get().Data)
}

func TestSubscribeReceivesCurrentAndLaterValues(t *testing.T) {
	o := NewObservable(1)

	var got []int
	unsubscribe := o.Subscribe(func(v int) { got = append(got, v) })

	o.Set(2)
	o.Update(func(v *int) { *v *= 10 })

	assert.Equal(t, []int{1, 2, 20}, got)

	unsubscribe()
	unsubscribe()
	o.Set(99)
	assert.Equal(t, []int{1, 2, 20}, got, "no delivery after unsubscribe")
}

func TestMultipleSubscribersSeeLatestValue(t *testing.T) {
	o := NewObservable("initial")

	var first, second string
	o.Subscribe(func(v string) { first = v })
	o.Subscribe(func(v string) { second = v })

	o.Set("latest")

	assert.Equal(t, "latest", first)
	assert.Equal(t, "latest", second)
}

func TestSubscriberMayReadObservable(t *testing.T) {
	o := NewObservable(0)

	var seen int
	o.Subscribe(func(int) { seen = o.Get() })
	o.Set(5)

	assert.Equal(t, 5, seen, "subscribers run outside the lock")
}

func TestUpdateConcurrent(t *testing.T) {
	o := NewObservable(0)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Update(func(v *int) { *v++ })
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, o.Get())
}

func TestTracker(t *testing.T) {
	var tr Tracker
	require.False(t, tr.Busy())

	tr.Start()
	tr.Start()
	assert.True(t, tr.Busy())

	assert.True(t, tr.Finish(), "one request still in flight")
	assert.False(t, tr.Finish(), "all requests finished")
	assert.False(t, tr.Finish(), "extra finish does not go negative")
	assert.False(t, tr.Busy())
}

func TestSubscriberReadingGetEndsOnLatestValue(t *testing.T) {
	o := NewObservable(0)

	var mu sync.Mutex
	latest := 0
	o.Subscribe(func(int) {
		v := o.Get()
		mu.Lock()
		latest = max(latest, v)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				o.Update(func(v *int) { *v++ })
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 200, o.Get())
	assert.Equal(t, o.Get(), latest)
}
