// Package state holds the observable values the controllers publish.
//
// An Observable keeps only the latest value. Subscribers are called after
// every change, outside the lock. Calls from concurrent updates may arrive in
// any order, so the argument can be older than the current value: treat a call
// as a change signal and read Get for the latest state.
package state

import (
	"sort"
	"sync"
)

// RequestState is the {data, loading, error} triple shown by a screen. A nil
// Data means nothing has loaded yet; an empty Error means no error.
type RequestState[T any] struct {
	Data      T
	IsLoading bool
	Error     string
}

type Observable[T any] struct {
	mu          sync.Mutex
	value       T
	nextID      int
	subscribers map[int]func(T)
}

func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{
		value:       initial,
		subscribers: make(map[int]func(T)),
	}
}

func (o *Observable[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// Update applies fn to the current value under the lock and notifies
// subscribers with the result.
func (o *Observable[T]) Update(fn func(*T)) T {
	o.mu.Lock()
	fn(&o.value)
	value := o.value
	subs := o.snapshotSubscribers()
	o.mu.Unlock()

	for _, sub := range subs {
		sub(value)
	}
	return value
}

func (o *Observable[T]) Set(value T) {
	o.Update(func(v *T) { *v = value })
}

// Subscribe registers fn and immediately calls it with the current value.
// The returned function removes the subscription; calling it twice is safe.
func (o *Observable[T]) Subscribe(fn func(T)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.subscribers[id] = fn
	value := o.value
	o.mu.Unlock()

	fn(value)

	return func() {
		o.mu.Lock()
		delete(o.subscribers, id)
		o.mu.Unlock()
	}
}

func (o *Observable[T]) snapshotSubscribers() []func(T) {
	ids := make([]int, 0, len(o.subscribers))
	for id := range o.subscribers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	subs := make([]func(T), 0, len(ids))
	for _, id := range ids {
		subs = append(subs, o.subscribers[id])
	}
	return subs
}

// Tracker counts in-flight requests so that IsLoading only drops once the
// last of several overlapping requests has finished. It must only be used
// from inside Observable.Update.
type Tracker struct {
	inFlight int
}

func (t *Tracker) Start() {
	t.inFlight++
}

// Finish returns whether any request is still in flight.
func (t *Tracker) Finish() bool {
	if t.inFlight > 0 {
		t.inFlight--
	}
	return t.inFlight > 0
}

func (t *Tracker) Busy() bool {
	return t.inFlight > 0
}
