// Package cache implements the process-local TTL store used for catalog
// reads. Eviction is lazy (expiry check on read) and there is no size bound;
// both are deliberate carryovers from the system this replaces.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a key/value store with per-entry absolute expiry.
// Safe for concurrent use.
type Store struct {
	entries map[string]entry
	mu      sync.RWMutex

	// now is swappable so tests can control the clock.
	now func() time.Time
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key. The second return is false on a
// miss, which includes entries past their expiry.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		// Expired entries are treated as absent and dropped on next Set
		// or explicitly here.
		s.mu.Lock()
		if cur, still := s.entries[key]; still && s.now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with expiry now+ttl, overwriting any existing
// entry unconditionally.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
}

// Delete removes key if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reset clears the store (useful for testing).
func (s *Store) Reset() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// ProductKey returns the deterministic cache key for a single listing.
func ProductKey(handle string) string {
	return "product_" + handle
}

// CollectionKey returns the deterministic cache key for a collection.
func CollectionKey(handle string) string {
	return "collection_" + handle
}
