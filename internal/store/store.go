package store

import (
	"encoding/json"
	"sync"
)

// Listener receives state snapshots.
type Listener[T any] func(state T)

// Store broadcasts state of type T to subscribed listeners. T must be
// JSON-serializable; serialized equality is what suppresses no-op writes.
type Store[T any] struct {
	mu         sync.Mutex
	state      T
	serialized string
	listeners  map[int]Listener[T]
	nextID     int
}

// New returns a store holding the given initial state.
func New[T any](initial T) *Store[T] {
	return &Store[T]{
		state:      initial,
		serialized: serialize(initial),
		listeners:  map[int]Listener[T]{},
	}
}

// Get returns the current state snapshot.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the state and notifies listeners. Notification is skipped
// entirely when the serialized state is unchanged.
func (s *Store[T]) Set(next T) {
	s.mu.Lock()
	encoded := serialize(next)
	if encoded == s.serialized {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.serialized = encoded
	listeners := make([]Listener[T], 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		notify(l, next)
	}
}

// Update applies a mutator to a copy of the current state and stores the
// result, with the same no-op suppression as Set.
func (s *Store[T]) Update(mutate func(T) T) {
	s.mu.Lock()
	next := mutate(s.state)
	s.mu.Unlock()
	s.Set(next)
}

// Subscribe registers a listener, replays the current state to it
// synchronously, and returns an unsubscribe function.
func (s *Store[T]) Subscribe(listener Listener[T]) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	current := s.state
	s.mu.Unlock()

	notify(listener, current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// notify invokes one listener, swallowing panics so a failing subscriber
// cannot break the state transition it observes.
func notify[T any](listener Listener[T], state T) {
	defer func() {
		_ = recover()
	}()
	listener(state)
}

func serialize[T any](state T) string {
	encoded, err := json.Marshal(state)
	if err != nil {
		return ""
	}
	return string(encoded)
}
