// Package ttlstore provides a small key-value store with per-key expiry.
// It backs the per-email magic-link issuance limit: the limit used to live
// in a module-level map, which made it untestable; an injected store with
// a swappable clock fixes that and leaves room for a shared backend later.
package ttlstore

import (
	"sync"
	"time"
)

// Store records keys for a limited time.
type Store interface {
	// Acquire claims key for ttl. If the key is free (absent or expired) it
	// is claimed and Acquire returns (true, 0). If the key is still held,
	// nothing changes and Acquire returns (false, remaining) where remaining
	// is the time until the hold lapses.
	Acquire(key string, ttl time.Duration) (bool, time.Duration)

	// Release drops a key before its ttl lapses.
	Release(key string)
}

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	now func() time.Time

	mu          sync.Mutex
	entries     map[string]time.Time // key -> expiry
	lastCleanup time.Time
}

// NewMemory returns a Memory store using the wall clock.
func NewMemory() *Memory {
	return NewMemoryWithClock(time.Now)
}

// NewMemoryWithClock returns a Memory store with an injected clock.
// Tests use this to step time deterministically.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		now:         now,
		entries:     make(map[string]time.Time),
		lastCleanup: now(),
	}
}

func (m *Memory) Acquire(key string, ttl time.Duration) (bool, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expiry, ok := m.entries[key]; ok && expiry.After(now) {
		return false, expiry.Sub(now)
	}

	m.entries[key] = now.Add(ttl)
	m.maybeCleanupLocked(now)
	return true, 0
}

func (m *Memory) Release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// maybeCleanupLocked drops expired entries at most once every 5 minutes so
// the map does not grow without bound under churny keys.
func (m *Memory) maybeCleanupLocked(now time.Time) {
	if now.Sub(m.lastCleanup) < 5*time.Minute {
		return
	}
	m.lastCleanup = now

	for key, expiry := range m.entries {
		if !expiry.After(now) {
			delete(m.entries, key)
		}
	}
}
