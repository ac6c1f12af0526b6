package service_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/isohub/securitycore/internal/crypto/domain"
	"github.com/isohub/securitycore/internal/crypto/service"
	apperrors "github.com/isohub/securitycore/internal/errors"
)

func newTestCodec(t *testing.T) service.Codec {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	codec, err := service.NewCodec(key)
	require.NoError(t, err)
	return codec
}

func TestNewCodec_KeySize(t *testing.T) {
	_, err := service.NewCodec(make([]byte, 16))
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)

	_, err = service.NewCodec(nil)
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)

	_, err = service.NewCodec(make([]byte, 32))
	assert.NoError(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	plaintexts := []string{
		"123456789",
		"a",
		"the quick brown fox jumps over the lazy dog",
		"ünïcödé ✓",
	}

	for _, plaintext := range plaintexts {
		blob, err := codec.Encrypt(plaintext)
		require.NoError(t, err)
		assert.True(t, cryptoDomain.IsEncryptedBlob(blob))

		decrypted, err := codec.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestCodec_EmptyPlaintextRejected(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Encrypt("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCodec_FreshIVPerCall(t *testing.T) {
	codec := newTestCodec(t)

	first, err := codec.Encrypt("123456789")
	require.NoError(t, err)
	second, err := codec.Encrypt("123456789")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	firstIV := strings.SplitN(first, ":", 2)[0]
	secondIV := strings.SplitN(second, ":", 2)[0]
	assert.NotEqual(t, firstIV, secondIV)
}

func TestCodec_TamperDetection(t *testing.T) {
	codec := newTestCodec(t)

	blob, err := codec.Encrypt("123456789")
	require.NoError(t, err)

	segments := strings.Split(blob, ":")
	require.Len(t, segments, 3)

	flipHex := func(s string, i int) string {
		replacement := byte('0')
		if s[i] == '0' {
			replacement = '1'
		}
		return s[:i] + string(replacement) + s[i+1:]
	}

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := segments[0] + ":" + segments[1] + ":" + flipHex(segments[2], 0)
		_, err := codec.Decrypt(tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered tag", func(t *testing.T) {
		tampered := segments[0] + ":" + flipHex(segments[1], 0) + ":" + segments[2]
		_, err := codec.Decrypt(tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("tampered iv", func(t *testing.T) {
		tampered := flipHex(segments[0], 0) + ":" + segments[1] + ":" + segments[2]
		_, err := codec.Decrypt(tampered)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})
}

func TestCodec_WrongKeyFails(t *testing.T) {
	codec := newTestCodec(t)

	otherKey := make([]byte, 32)
	for i := range otherKey {
		otherKey[i] = byte(255 - i)
	}
	otherCodec, err := service.NewCodec(otherKey)
	require.NoError(t, err)

	blob, err := codec.Encrypt("123456789")
	require.NoError(t, err)

	_, err = otherCodec.Decrypt(blob)
	assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
}

func TestCodec_MalformedBlob(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Decrypt("not-a-blob")
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidBlobFormat)

	_, err = codec.Decrypt("aa:bb:cc")
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidBlobSegment)
}
