package memory

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time // Zero means no expiry
}

// CompletionStore keeps completion text in memory with per-entry expiry.
type CompletionStore struct {
	mu      sync.RWMutex // Guards entries
	entries map[string]entry
	now     func() time.Time
}

// NewCompletionStore creates and returns an empty CompletionStore.
func NewCompletionStore() *CompletionStore {
	return &CompletionStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the stored value for key if present and not expired.
func (s *CompletionStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock() // Acquire a read lock
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed it.
		if cur, ok := s.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value under key. A non-positive ttl keeps it until Purge.
func (s *CompletionStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock() // Acquire a write lock
	defer s.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (s *CompletionStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.entries {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *CompletionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
