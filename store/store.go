// Package store holds the single active rule.List and exposes an atomic
// hot-swap so a config reload never blocks or races with in-flight request
// matching.
package store

import (
	"sync/atomic"

	"popshop/rule"
)

// Store is a single-writer, many-reader container for the active rule list.
// The zero value is not usable; use New.
type Store struct {
	current atomic.Pointer[rule.List]
}

// New creates a Store, optionally seeded with an initial list.
func New(initial *rule.List) *Store {
	s := &Store{}
	if initial == nil {
		initial = &rule.List{}
	}
	s.current.Store(initial)
	return s
}

// Snapshot returns the current rule list. The returned pointer is never
// mutated in place — a concurrent Replace publishes a brand new *rule.List —
// so a caller that holds onto a snapshot for the lifetime of one request
// observes a fully consistent view even across a reload.
func (s *Store) Snapshot() *rule.List {
	return s.current.Load()
}

// Replace atomically installs newList as the active rule list. Readers that
// already obtained a snapshot keep observing the old list until they finish;
// new readers observe newList immediately after this call returns.
func (s *Store) Replace(newList *rule.List) {
	if newList == nil {
		newList = &rule.List{}
	}
	s.current.Store(newList)
}

// Count returns the number of rules in the current snapshot.
func (s *Store) Count() int {
	return len(s.Snapshot().Rules)
}
