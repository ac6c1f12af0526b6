// Package service provides nonce generation and HMAC signing for OAuth state tokens.
package service

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	apperrors "github.com/isohub/securitycore/internal/errors"
)

// StateSigner generates nonces and signs/verifies state payloads.
type StateSigner interface {
	// GenerateNonce returns a fresh 16-byte random nonce as hex.
	GenerateNonce() (string, error)
	// Sign computes the hex HMAC-SHA256 of payload under the state secret.
	Sign(payload string) string
	// Verify constant-time-compares signature against the recomputed HMAC.
	Verify(payload, signature string) bool
}

// stateSigner implements StateSigner with HMAC-SHA256 under a dedicated secret.
// The secret is never shared with the field-encryption key: one secret, one
// cryptographic purpose.
type stateSigner struct {
	secret []byte
}

// NewStateSigner creates a StateSigner. The secret is required; an unsigned
// state token is a CSRF hole, so construction fails rather than degrading.
func NewStateSigner(secret string) (StateSigner, error) {
	if secret == "" {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "oauth state secret is required")
	}
	return &stateSigner{secret: []byte(secret)}, nil
}

// GenerateNonce returns a fresh 16-byte random nonce as a hex string.
func (s *stateSigner) GenerateNonce() (string, error) {
	randomBytes := make([]byte, 16)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate state nonce")
	}
	return hex.EncodeToString(randomBytes), nil
}

// Sign computes the hex-encoded HMAC-SHA256 of payload.
func (s *stateSigner) Sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the HMAC and compares in constant time.
func (s *stateSigner) Verify(payload, signature string) bool {
	expected := s.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
