package domain

import (
	"github.com/isohub/securitycore/internal/errors"
)

// State validation failure modes. All five are security-relevant and must stay
// distinguishable in logs and metrics even though the HTTP surface collapses
// them into one generic "invalid or expired link" response.
var (
	// ErrMalformedState indicates the token does not decode into the expected
	// five colon-separated fields.
	ErrMalformedState = errors.Wrap(errors.ErrInvalidInput, "malformed oauth state token")

	// ErrInvalidStateSignature indicates HMAC verification failed: possible
	// forgery or CSRF attempt.
	ErrInvalidStateSignature = errors.Wrap(errors.ErrSecurityViolation, "invalid oauth state signature")

	// ErrExpiredState indicates the token's embedded expiry has passed.
	ErrExpiredState = errors.Wrap(errors.ErrUnauthorized, "oauth state expired")

	// ErrStateReplayed indicates the nonce was already consumed (or never
	// issued). The consuming UPDATE's row count is the sole source of truth.
	ErrStateReplayed = errors.Wrap(errors.ErrSecurityViolation, "oauth state already consumed")

	// ErrTamperedState indicates the persisted row's tenant binding does not
	// match the token payload: possible cross-tenant injection.
	ErrTamperedState = errors.Wrap(errors.ErrSecurityViolation, "oauth state tenant mismatch")
)
