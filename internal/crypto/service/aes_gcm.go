package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/isohub/securitycore/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// The cipher uses a 16-byte IV (matching the stored blob format) and a 16-byte
// authentication tag. A unique IV is generated per encryption with crypto/rand;
// IV reuse under GCM is a catastrophic confidentiality and integrity break, so
// callers must never supply their own.
//
// The cipher instance is stateless and safe for concurrent use from multiple
// goroutines.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
// The key must be exactly 32 bytes (256 bits).
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, cryptoDomain.IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Encrypt encrypts plaintext with a fresh random 16-byte IV, authenticating aad.
// The GCM tag is returned separately so the blob format can store it as its own
// segment.
func (a *AESGCMCipher) Encrypt(plaintext, aad []byte) (ciphertext, tag, iv []byte, err error) {
	iv = make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	sealed := a.aead.Seal(nil, iv, plaintext, aad)

	// Seal appends the tag to the ciphertext; split it back out.
	tagStart := len(sealed) - a.aead.Overhead()
	return sealed[:tagStart], sealed[tagStart:], iv, nil
}

// Decrypt verifies the tag and decrypts ciphertext. The same AAD used during
// encryption must be provided. On any verification failure no plaintext is
// returned.
func (a *AESGCMCipher) Decrypt(ciphertext, tag, iv, aad []byte) ([]byte, error) {
	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := a.aead.Open(nil, iv, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrDecryptionFailed, err)
	}
	return plaintext, nil
}
