package store

import (
	"sync"

	"github.com/google/uuid"
)

// subscribers is an ordered registry of change listeners
type subscribers[T any] struct {
	mu    sync.Mutex
	order []uuid.UUID
	fns   map[uuid.UUID]func(T)
}

// add registers fn and returns a function that removes it
func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[uuid.UUID]func(T))
	}
	id := uuid.New()
	s.order = append(s.order, id)
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers[T]) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.fns, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// notify calls every listener in subscription order.
// Must not be called with the owning store's lock held.
func (s *subscribers[T]) notify(v T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.fns[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// count returns the number of registered listeners
func (s *subscribers[T]) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
