// Package sidebar holds the open/closed state of the category menu.
package sidebar

import "sync"

// Store is the single shared visibility flag. It starts closed.
type Store struct {
	mu     sync.Mutex
	open   bool
	subs   map[int]func(bool)
	nextID int
}

func New() *Store {
	return &Store{subs: make(map[int]func(bool))}
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Open shows the menu. It reports whether the state changed.
func (s *Store) Open() bool { return s.set(true) }

// Close hides the menu. It reports whether the state changed.
func (s *Store) Close() bool { return s.set(false) }

// Subscribe calls fn with the new value on every change. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(open bool)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(open bool) bool {
	s.mu.Lock()
	if s.open == open {
		s.mu.Unlock()
		return false
	}
	s.open = open
	subs := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(open)
	}
	return true
}
