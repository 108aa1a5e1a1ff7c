// Package reactive provides an observable value holder.
package reactive

import "sync"

// Value holds a single value and notifies subscribers when it changes.
// It is safe for concurrent use. Subscribers run synchronously on the
// goroutine that changed the value, in subscription order, and never
// while the internal lock is held.
type Value[T any] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// New creates a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

// Set stores val and notifies subscribers.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	v.value = val
	subs := v.snapshot()
	v.mu.Unlock()

	notify(subs, val)
}

// Update replaces the value with fn(current) and notifies subscribers.
// The read-modify-write is atomic with respect to other Set and Update calls.
func (v *Value[T]) Update(fn func(T) T) {
	v.mu.Lock()
	val := fn(v.value)
	v.value = val
	subs := v.snapshot()
	v.mu.Unlock()

	notify(subs, val)
}

// Subscribe calls fn with the current value and again after every change.
// The returned function removes the subscription; calling it more than
// once is a no-op.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs = append(v.subs, subscriber[T]{id: id, fn: fn})
	current := v.value
	v.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { v.remove(id) })
	}
}

// Subscribers returns the number of active subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

func (v *Value[T]) remove(id int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, s := range v.subs {
		if s.id == id {
			v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
			return
		}
	}
}

// snapshot must be called with mu held.
func (v *Value[T]) snapshot() []func(T) {
	fns := make([]func(T), len(v.subs))
	for i, s := range v.subs {
		fns[i] = s.fn
	}
	return fns
}

func notify[T any](fns []func(T), val T) {
	for _, fn := range fns {
		fn(val)
	}
}
