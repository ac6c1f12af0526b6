package service

import (
	"errors"
	"fmt"

	cryptoDomain "github.com/isohub/securitycore/internal/crypto/domain"
	apperrors "github.com/isohub/securitycore/internal/errors"
)

// fieldAAD is the additional-authenticated-data domain separator bound to
// every field ciphertext. Ciphertexts produced by this system cannot be
// silently reinterpreted by another AES-GCM consumer, and vice versa.
const fieldAAD = "isohub.field.v1"

// blobCodec implements Codec over an AEAD cipher, producing the
// iv:tag:ciphertext hex blob format.
type blobCodec struct {
	aead AEAD
}

// NewCodec creates a Codec encrypting under the given 32-byte key.
func NewCodec(key []byte) (Codec, error) {
	aead, err := NewAESGCM(key)
	if err != nil {
		return nil, err
	}
	return &blobCodec{aead: aead}, nil
}

// Encrypt encrypts plaintext into the three-segment hex blob. Empty plaintext
// is rejected: an empty PII field should be stored as NULL, not as a ciphertext.
func (c *blobCodec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "plaintext must not be empty")
	}

	ciphertext, tag, iv, err := c.aead.Encrypt([]byte(plaintext), []byte(fieldAAD))
	if err != nil {
		return "", err
	}

	blob := cryptoDomain.EncryptedBlob{IV: iv, Tag: tag, Ciphertext: ciphertext}
	return blob.String(), nil
}

// Decrypt parses the blob and returns the plaintext. Structural parse failures
// and tag verification failures are distinct error kinds, but neither ever
// yields partial plaintext.
func (c *blobCodec) Decrypt(blob string) (string, error) {
	parsed, err := cryptoDomain.NewEncryptedBlob(blob)
	if err != nil {
		return "", err
	}

	plaintext, err := c.aead.Decrypt(parsed.Ciphertext, parsed.Tag, parsed.IV, []byte(fieldAAD))
	if err != nil {
		if errors.Is(err, cryptoDomain.ErrDecryptionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
