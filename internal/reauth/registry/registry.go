// Package registry tracks outstanding step-up grants for single-use consumption.
package registry

import (
	"time"

	"github.com/google/uuid"
)

// Entry is the registry value for one outstanding grant.
type Entry struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// Registry tracks issued reauth tokens between issuance and consumption.
// Presence is necessary for validity: a syntactically valid signed token whose
// entry was removed (consumed or revoked) must be rejected.
//
// The in-memory implementation is process-local. Multi-instance deployments
// must swap in a shared-store implementation (the same database or a
// distributed cache) behind this interface; callers do not change.
type Registry interface {
	// Put records a newly issued grant.
	Put(tokenID uuid.UUID, entry Entry)
	// Get returns the entry for tokenID if present.
	Get(tokenID uuid.UUID) (Entry, bool)
	// Consume removes the entry, returning false if it was already gone.
	// Idempotent: a second call for the same tokenID returns false.
	Consume(tokenID uuid.UUID) bool
	// RevokeForUser removes every entry for userID and returns the count.
	// Used when the user's credentials change.
	RevokeForUser(userID uuid.UUID) int
	// Sweep removes entries past their expiry and returns the count.
	Sweep(now time.Time) int
	// Len returns the number of outstanding entries.
	Len() int
}
