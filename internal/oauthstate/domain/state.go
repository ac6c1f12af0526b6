// Package domain defines the OAuth state token entities and errors.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// State is one issued OAuth authorization state, persisted for single-use
// consumption tracking. The signed token and this row are both required at
// validation time: forging a signature without database access yields nothing,
// and a database row without the matching HMAC is equally useless.
type State struct {
	ID        uuid.UUID
	Nonce     string
	AgencyID  uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}

// ValidatedState is the identity a successfully validated state token binds.
type ValidatedState struct {
	Nonce    string
	AgencyID uuid.UUID
	UserID   uuid.UUID
}

// GenerateStateInput carries the tenant identity a new state binds to. Both
// values must come from the authenticated session, never from request
// parameters.
type GenerateStateInput struct {
	AgencyID uuid.UUID
	UserID   uuid.UUID
}
