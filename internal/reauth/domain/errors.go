package domain

import (
	"github.com/isohub/securitycore/internal/errors"
)

// Step-up verification failures are expected-path user errors (wrong password
// or code), not system faults: they surface as typed errors, never panics, and
// are rate-limited by the surrounding middleware.
var (
	// ErrReauthFailed indicates the credential re-proof failed. Deliberately
	// generic: wrong password and unknown user look identical to the caller.
	ErrReauthFailed = errors.Wrap(errors.ErrUnauthorized, "reauthentication failed")

	// ErrInvalidReauthToken indicates a reauth token failed validation: bad
	// signature, expired, consumed, revoked, or bound to a different user. The
	// caller gets no distinction; consumed-vs-revoked doesn't matter to them.
	ErrInvalidReauthToken = errors.Wrap(errors.ErrUnauthorized, "invalid reauthentication token")

	// ErrTOTPNotEnrolled indicates the account has no enrolled TOTP secret.
	ErrTOTPNotEnrolled = errors.Wrap(errors.ErrInvalidInput, "totp is not enrolled for this account")
)
