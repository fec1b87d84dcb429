package player

import "sync"

// emitter is a listener registry keyed by event name.
type emitter struct {
	mu        sync.Mutex
	next      int
	listeners map[Event]map[int]func()
}

// On registers fn and returns an idempotent remover.
func (e *emitter) On(ev Event, fn func()) (off func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.listeners == nil {
		e.listeners = make(map[Event]map[int]func())
	}
	if e.listeners[ev] == nil {
		e.listeners[ev] = make(map[int]func())
	}

	id := e.next
	e.next++
	e.listeners[ev][id] = fn

	return sync.OnceFunc(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners[ev], id)
	})
}

// emit calls every handler for ev outside the lock, so handlers may register or remove listeners.
func (e *emitter) emit(ev Event) {
	e.mu.Lock()
	handlers := make([]func(), 0, len(e.listeners[ev]))
	for _, fn := range e.listeners[ev] {
		handlers = append(handlers, fn)
	}
	e.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// count reports how many handlers are registered for ev.
func (e *emitter) count(ev Event) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners[ev])
}
