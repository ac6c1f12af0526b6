package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/isohub/securitycore/internal/crypto/domain"
	apperrors "github.com/isohub/securitycore/internal/errors"
)

// keyResolver resolves the field-encryption key in priority order:
//
//  1. KMS-wrapped key (kmsKeyURI + base64 ciphertext), unwrapped via gocloud
//  2. Hex-encoded key from the environment
//  3. Ephemeral random key for the process lifetime
//
// The ephemeral fallback is deliberate fail-safe behavior: the service keeps
// working, but a loud warning records that encrypted data will not survive a
// restart. There is no silent fixed default.
type keyResolver struct {
	hexKey     string
	kmsKeyURI  string
	wrappedKey string
	kmsService KMSService
	logger     *slog.Logger
}

// NewKeyResolver creates a KeyResolver for the configured key sources.
func NewKeyResolver(
	hexKey string,
	kmsKeyURI string,
	wrappedKey string,
	kmsService KMSService,
	logger *slog.Logger,
) KeyResolver {
	return &keyResolver{
		hexKey:     hexKey,
		kmsKeyURI:  kmsKeyURI,
		wrappedKey: wrappedKey,
		kmsService: kmsService,
		logger:     logger,
	}
}

// Resolve returns the 32-byte AES-256 key material.
func (r *keyResolver) Resolve(ctx context.Context) ([]byte, error) {
	if r.kmsKeyURI != "" {
		return r.resolveFromKMS(ctx)
	}

	if r.hexKey != "" {
		key, err := hex.DecodeString(r.hexKey)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrConfiguration, "PII encryption key is not valid hex")
		}
		if len(key) != 32 {
			return nil, cryptoDomain.ErrInvalidKeySize
		}
		return key, nil
	}

	// Ephemeral key: generated once per process.
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral key: %w", err)
	}

	r.logger.Warn("PII_ENCRYPTION_KEY is not set; using an ephemeral process key. " +
		"Data encrypted in this session CANNOT be decrypted after a restart. " +
		"Set PII_ENCRYPTION_KEY in production.")

	return key, nil
}

// resolveFromKMS unwraps the base64 key ciphertext through the configured keeper.
func (r *keyResolver) resolveFromKMS(ctx context.Context) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(r.wrappedKey)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrConfiguration, "PII_ENCRYPTED_KEY is not valid base64")
	}

	keeper, err := r.kmsService.OpenKeeper(ctx, r.kmsKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			r.logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap PII key via KMS: %w", err)
	}
	if len(key) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	r.logger.Info("PII encryption key unwrapped via KMS", slog.String("key_uri", r.kmsKeyURI))
	return key, nil
}
