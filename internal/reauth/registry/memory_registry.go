package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRegistry is the process-local Registry implementation. A mutex guards
// the map; all operations are short and lock-free callers are not supported.
type MemoryRegistry struct {
	mu      sync.Mutex
	entries map[uuid.UUID]Entry
}

// NewMemoryRegistry creates an empty in-process registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		entries: make(map[uuid.UUID]Entry),
	}
}

// Put records a newly issued grant.
func (r *MemoryRegistry) Put(tokenID uuid.UUID, entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[tokenID] = entry
}

// Get returns the entry for tokenID if present.
func (r *MemoryRegistry) Get(tokenID uuid.UUID) (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[tokenID]
	return entry, ok
}

// Consume removes the entry, returning false if it was already gone.
func (r *MemoryRegistry) Consume(tokenID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[tokenID]; !ok {
		return false
	}
	delete(r.entries, tokenID)
	return true
}

// RevokeForUser removes every entry for userID and returns the count.
func (r *MemoryRegistry) RevokeForUser(userID uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for tokenID, entry := range r.entries {
		if entry.UserID == userID {
			delete(r.entries, tokenID)
			count++
		}
	}
	return count
}

// Sweep removes entries past their expiry and returns the count.
func (r *MemoryRegistry) Sweep(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for tokenID, entry := range r.entries {
		if entry.ExpiresAt.Before(now) {
			delete(r.entries, tokenID)
			count++
		}
	}
	return count
}

// Len returns the number of outstanding entries.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
