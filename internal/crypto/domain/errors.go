package domain

import (
	"github.com/isohub/securitycore/internal/errors"
)

// Encryption and blob-format errors.
var (
	// ErrInvalidBlobFormat indicates an encrypted blob does not have exactly
	// three colon-separated hex segments.
	ErrInvalidBlobFormat = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted blob format")

	// ErrInvalidBlobSegment indicates a blob segment is not valid hex or has
	// the wrong length (IV and tag must be exactly 16 bytes).
	ErrInvalidBlobSegment = errors.Wrap(errors.ErrInvalidInput, "invalid encrypted blob segment")

	// ErrDecryptionFailed indicates AEAD tag verification failed: the blob was
	// tampered with, truncated, or encrypted under a different key or AAD. The
	// caller-visible message stays generic to avoid acting as a padding/format
	// oracle; logs carry the context.
	ErrDecryptionFailed = errors.Wrap(errors.ErrSecurityViolation, "decryption failed")

	// ErrInvalidKeySize indicates the encryption key does not decode to 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrConfiguration, "encryption key must be exactly 32 bytes")
)
