package domain

import (
	"github.com/isohub/securitycore/internal/errors"
)

// PII field validation errors. These are caller-fixable and precede any
// cryptographic work: a malformed value must never become an opaque encrypted
// blob that passes later format checks vacuously.
var (
	// ErrInvalidSSN indicates the value is not exactly 9 digits after stripping separators.
	ErrInvalidSSN = errors.Wrap(errors.ErrInvalidInput, "ssn must be exactly 9 digits")

	// ErrInvalidEIN indicates the value is not exactly 9 digits after stripping separators.
	ErrInvalidEIN = errors.Wrap(errors.ErrInvalidInput, "ein must be exactly 9 digits")

	// ErrInvalidBankAccount indicates the value is not 4-17 digits after stripping separators.
	ErrInvalidBankAccount = errors.Wrap(errors.ErrInvalidInput, "bank account must be between 4 and 17 digits")

	// ErrInvalidRoutingNumber indicates the value is not exactly 9 digits after stripping separators.
	ErrInvalidRoutingNumber = errors.Wrap(errors.ErrInvalidInput, "routing number must be exactly 9 digits")
)
