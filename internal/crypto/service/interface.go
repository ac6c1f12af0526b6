package service

import "context"

// AEAD provides authenticated encryption with associated data.
type AEAD interface {
	// Encrypt encrypts plaintext with a fresh random IV, binding aad. Returns
	// ciphertext (without tag), the tag, and the IV used.
	Encrypt(plaintext, aad []byte) (ciphertext, tag, iv []byte, err error)
	// Decrypt verifies the tag and decrypts. Never returns partial plaintext.
	Decrypt(ciphertext, tag, iv, aad []byte) ([]byte, error)
}

// Codec encrypts and decrypts opaque strings into the EncryptedBlob format.
type Codec interface {
	// Encrypt returns the three-segment hex blob for plaintext.
	Encrypt(plaintext string) (string, error)
	// Decrypt parses blob, verifies authenticity, and returns the plaintext.
	Decrypt(blob string) (string, error)
}

// KeyResolver resolves the 32-byte field-encryption key at startup.
type KeyResolver interface {
	// Resolve returns the key material. Implementations must never fall back
	// to a fixed default key.
	Resolve(ctx context.Context) ([]byte, error)
}
