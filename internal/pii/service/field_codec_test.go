package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoService "github.com/isohub/securitycore/internal/crypto/service"
	apperrors "github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/pii/domain"
	"github.com/isohub/securitycore/internal/pii/service"
)

func newTestFieldCodec(t *testing.T) *service.FieldCodec {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	codec, err := cryptoService.NewCodec(key)
	require.NoError(t, err)
	return service.NewFieldCodec(codec)
}

func TestFieldCodec_SSN(t *testing.T) {
	fieldCodec := newTestFieldCodec(t)

	t.Run("rejects malformed values before encrypting", func(t *testing.T) {
		tests := []string{"12345", "", "123-45-678", "abcdefghi", "1234567890"}
		for _, ssn := range tests {
			_, err := fieldCodec.EncryptSSN(ssn)
			assert.ErrorIs(t, err, domain.ErrInvalidSSN, "ssn %q", ssn)
		}
	})

	t.Run("accepts separators and reveals canonical formatting", func(t *testing.T) {
		blob, err := fieldCodec.EncryptSSN("123-45-6789")
		require.NoError(t, err)
		assert.True(t, fieldCodec.IsEncrypted(blob))

		masked, err := fieldCodec.RevealSSN(blob, domain.RevealMasked)
		require.NoError(t, err)
		assert.Equal(t, "XXX-XX-6789", masked)

		full, err := fieldCodec.RevealSSN(blob, domain.RevealFull)
		require.NoError(t, err)
		assert.Equal(t, "123-45-6789", full)
	})

	t.Run("bare digits canonicalize the same way", func(t *testing.T) {
		blob, err := fieldCodec.EncryptSSN("123456789")
		require.NoError(t, err)

		full, err := fieldCodec.RevealSSN(blob, domain.RevealFull)
		require.NoError(t, err)
		assert.Equal(t, "123-45-6789", full)
	})
}

func TestFieldCodec_EIN(t *testing.T) {
	fieldCodec := newTestFieldCodec(t)

	_, err := fieldCodec.EncryptEIN("12-345678")
	assert.ErrorIs(t, err, domain.ErrInvalidEIN)

	blob, err := fieldCodec.EncryptEIN("12-3456789")
	require.NoError(t, err)

	masked, err := fieldCodec.RevealEIN(blob, domain.RevealMasked)
	require.NoError(t, err)
	assert.Equal(t, "XX-XXX6789", masked)

	full, err := fieldCodec.RevealEIN(blob, domain.RevealFull)
	require.NoError(t, err)
	assert.Equal(t, "12-3456789", full)
}

func TestFieldCodec_BankAccount(t *testing.T) {
	fieldCodec := newTestFieldCodec(t)

	t.Run("length bounds", func(t *testing.T) {
		_, err := fieldCodec.EncryptBankAccount("123")
		assert.ErrorIs(t, err, domain.ErrInvalidBankAccount)

		_, err = fieldCodec.EncryptBankAccount("123456789012345678")
		assert.ErrorIs(t, err, domain.ErrInvalidBankAccount)

		_, err = fieldCodec.EncryptBankAccount("1234")
		assert.NoError(t, err)

		_, err = fieldCodec.EncryptBankAccount("12345678901234567")
		assert.NoError(t, err)
	})

	t.Run("masks all but the last four digits", func(t *testing.T) {
		blob, err := fieldCodec.EncryptBankAccount("000123456789")
		require.NoError(t, err)

		masked, err := fieldCodec.RevealBankAccount(blob, domain.RevealMasked)
		require.NoError(t, err)
		assert.Equal(t, "XXXXXXXX6789", masked)

		full, err := fieldCodec.RevealBankAccount(blob, domain.RevealFull)
		require.NoError(t, err)
		assert.Equal(t, "000123456789", full)
	})

	t.Run("short account is not masked away entirely", func(t *testing.T) {
		blob, err := fieldCodec.EncryptBankAccount("1234")
		require.NoError(t, err)

		masked, err := fieldCodec.RevealBankAccount(blob, domain.RevealMasked)
		require.NoError(t, err)
		assert.Equal(t, "1234", masked)
	})
}

func TestFieldCodec_RoutingNumber(t *testing.T) {
	fieldCodec := newTestFieldCodec(t)

	_, err := fieldCodec.EncryptRoutingNumber("12345678")
	assert.ErrorIs(t, err, domain.ErrInvalidRoutingNumber)

	blob, err := fieldCodec.EncryptRoutingNumber("021000021")
	require.NoError(t, err)

	masked, err := fieldCodec.RevealRoutingNumber(blob, domain.RevealMasked)
	require.NoError(t, err)
	assert.Equal(t, "XXXXX0021", masked)

	full, err := fieldCodec.RevealRoutingNumber(blob, domain.RevealFull)
	require.NoError(t, err)
	assert.Equal(t, "021000021", full)
}

func TestFieldCodec_IsEncrypted(t *testing.T) {
	fieldCodec := newTestFieldCodec(t)

	blob, err := fieldCodec.EncryptSSN("123456789")
	require.NoError(t, err)

	assert.True(t, fieldCodec.IsEncrypted(blob))
	assert.False(t, fieldCodec.IsEncrypted("123-45-6789"))
	assert.False(t, fieldCodec.IsEncrypted(""))
}

func TestFieldCodec_RevealTamperedBlob(t *testing.T) {
	fieldCodec := newTestFieldCodec(t)

	blob, err := fieldCodec.EncryptSSN("123456789")
	require.NoError(t, err)

	tampered := blob[:len(blob)-1]
	if blob[len(blob)-1] == '0' {
		tampered += "1"
	} else {
		tampered += "0"
	}

	_, err = fieldCodec.RevealSSN(tampered, domain.RevealFull)
	assert.ErrorIs(t, err, apperrors.ErrSecurityViolation)
}
