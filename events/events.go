package events

import (
	"sync"
	"sync/atomic"
)

var nextID atomic.Uint64

// Listener identifies a registration so it can be removed later.
type Listener struct {
	id uint64
}

// Valid reports whether the listener came from a registration.
func (l Listener) Valid() bool {
	return l.id != 0
}

type entry[T any] struct {
	id   uint64
	fn   func(T)
	once bool
}

// Topic is a named stream of values of type T. The zero value is ready to use.
type Topic[T any] struct {
	mu        sync.Mutex
	listeners []entry[T]

	// OnPanic, if set, receives values recovered from panicking listeners.
	// Without it a panic propagates to the emitter.
	OnPanic func(recovered any)
}

// On registers fn to be called for every emitted value.
func (t *Topic[T]) On(fn func(T)) Listener {
	return t.add(fn, false)
}

// Once registers fn to be called for the next emitted value only.
func (t *Topic[T]) Once(fn func(T)) Listener {
	return t.add(fn, true)
}

func (t *Topic[T]) add(fn func(T), once bool) Listener {
	id := nextID.Add(1)
	t.mu.Lock()
	t.listeners = append(t.listeners, entry[T]{id: id, fn: fn, once: once})
	t.mu.Unlock()
	return Listener{id: id}
}

// Off removes a listener. It reports whether the listener was registered.
func (t *Topic[T]) Off(l Listener) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, e := range t.listeners {
		if e.id == l.id {
			t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of registered listeners.
func (t *Topic[T]) ListenerCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

// Emit calls every listener with v in registration order and returns how
// many were called. Once listeners are removed before they run.
func (t *Topic[T]) Emit(v T) int {
	t.mu.Lock()
	snapshot := make([]entry[T], len(t.listeners))
	copy(snapshot, t.listeners)
	kept := t.listeners[:0:0]
	for _, e := range t.listeners {
		if !e.once {
			kept = append(kept, e)
		}
	}
	t.listeners = kept
	t.mu.Unlock()

	for _, e := range snapshot {
		t.call(e.fn, v)
	}
	return len(snapshot)
}

func (t *Topic[T]) call(fn func(T), v T) {
	if t.OnPanic != nil {
		defer func() {
			if r := recover(); r != nil {
				t.OnPanic(r)
			}
		}()
	}
	fn(v)
}

// Clear removes all listeners.
func (t *Topic[T]) Clear() {
	t.mu.Lock()
	t.listeners = nil
	t.mu.Unlock()
}
