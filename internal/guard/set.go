package guard

import (
	"slices"
	"sync"
)

// Set holds one guard per panel. Remounting a panel means replacing its
// guard, which is the only way to clear a trip.
type Set struct {
	opts []Option

	mu     sync.Mutex
	guards map[string]*Guard
}

// NewSet creates an empty set whose guards share opts.
func NewSet(opts ...Option) *Set {
	return &Set{opts: opts, guards: make(map[string]*Guard)}
}

// Get returns the guard for name, creating it on first use.
func (s *Set) Get(name string) *Guard {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.guards[name]
	if !ok {
		g = New(name, s.opts...)
		s.guards[name] = g
	}
	return g
}

// Remount replaces the guard for name with a fresh one.
func (s *Set) Remount(name string) *Guard {
	g := New(name, s.opts...)
	s.mu.Lock()
	s.guards[name] = g
	s.mu.Unlock()
	return g
}

// RemountAll replaces every guard.
func (s *Set) RemountAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.guards {
		s.guards[name] = New(name, s.opts...)
	}
}

// Tripped lists the panels currently showing a fallback, sorted.
func (s *Set) Tripped() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for name, g := range s.guards {
		if g.Tripped() {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}
