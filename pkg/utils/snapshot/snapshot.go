// Package snapshot provides a single-value observable container. A Value
// holds the latest snapshot of some state and replays it to new
// subscribers, then notifies every subscriber synchronously on each
// replacement.
package snapshot

import "sync"

// Observer receives the current snapshot on subscription and every
// subsequent replacement.
type Observer[T any] func(T)

// Value holds a current snapshot and its observers. The zero value is
// usable and holds the zero value of T.
type Value[T any] struct {
	mu        sync.Mutex
	current   T
	observers map[int]Observer[T]
	order     []int
	nextID    int
}

// New returns a Value initialized with the given snapshot.
func New[T any](initial T) *Value[T] {
	v := &Value[T]{}
	v.current = initial
	return v
}

// Current returns the latest snapshot. It never blocks on observers.
func (v *Value[T]) Current() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the snapshot and notifies all observers with the new value
// in subscription order. Notification runs on the calling goroutine;
// concurrent Set calls are serialized, last writer wins.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	v.current = next
	observers := make([]Observer[T], 0, len(v.order))
	for _, id := range v.order {
		observers = append(observers, v.observers[id])
	}
	v.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
}

// Subscribe registers an observer. The observer is invoked once
// immediately with the current snapshot, then on every Set until the
// returned unsubscribe function is called. Unsubscribing twice is safe.
func (v *Value[T]) Subscribe(fn Observer[T]) func() {
	v.mu.Lock()
	if v.observers == nil {
		v.observers = make(map[int]Observer[T])
	}
	id := v.nextID
	v.nextID++
	v.observers[id] = fn
	v.order = append(v.order, id)
	current := v.current
	v.mu.Unlock()

	fn(current)

	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if _, ok := v.observers[id]; !ok {
			return
		}
		delete(v.observers, id)
		for i, oid := range v.order {
			if oid == id {
				v.order = append(v.order[:i], v.order[i+1:]...)
				break
			}
		}
	}
}
