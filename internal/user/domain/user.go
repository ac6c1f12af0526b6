// Package domain defines the minimal user surface the security layer needs.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/isohub/securitycore/internal/errors"
)

// User is the slice of a platform account relevant to step-up verification:
// credential material and tenant binding. Profile data lives elsewhere.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	TOTPSecret   *string
	AgencyID     uuid.UUID
	IsActive     bool
	CreatedAt    time.Time
}

// TOTPEnabled reports whether the account has an enrolled TOTP secret.
func (u *User) TOTPEnabled() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}

// CredentialSample is one row of the bounded credential sample the security
// assessment inspects (hash shapes only, never plaintext).
type CredentialSample struct {
	PasswordHash string
	TOTPEnabled  bool
}

// ErrUserNotFound indicates a user with the specified ID was not found.
var ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")
