// Package service implements validated encryption wrappers for PII fields.
//
// Each wrapper strips separators, asserts the canonical digit count, and only
// then touches the underlying codec. Reveal (decryption) happens inside this
// package in both masked and full modes so that complete plaintext exposure is
// auditable to one code path; callers never "decrypt then truncate".
package service

import (
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/isohub/securitycore/internal/crypto/domain"
	cryptoService "github.com/isohub/securitycore/internal/crypto/service"
	piiDomain "github.com/isohub/securitycore/internal/pii/domain"
	customValidation "github.com/isohub/securitycore/internal/validation"
)

const (
	ssnDigits        = 9
	einDigits        = 9
	routingDigits    = 9
	bankDigitsMin    = 4
	bankDigitsMax    = 17
	revealLastDigits = 4
)

// FieldCodec encrypts and reveals SSN, EIN, bank account and routing number
// fields using the shared authenticated-encryption codec.
type FieldCodec struct {
	codec cryptoService.Codec
}

// NewFieldCodec creates a FieldCodec over the given codec.
func NewFieldCodec(codec cryptoService.Codec) *FieldCodec {
	return &FieldCodec{codec: codec}
}

// stripNonDigits removes every non-digit character from value.
func stripNonDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EncryptSSN validates and encrypts a social security number.
// Accepts separators ("123-45-6789"); stores the canonical 9 digits.
func (f *FieldCodec) EncryptSSN(ssn string) (string, error) {
	digits := stripNonDigits(ssn)
	if err := validation.Validate(digits, validation.Required, customValidation.DigitsExact(ssnDigits)); err != nil {
		return "", piiDomain.ErrInvalidSSN
	}
	return f.codec.Encrypt(digits)
}

// EncryptEIN validates and encrypts an employer identification number.
func (f *FieldCodec) EncryptEIN(ein string) (string, error) {
	digits := stripNonDigits(ein)
	if err := validation.Validate(digits, validation.Required, customValidation.DigitsExact(einDigits)); err != nil {
		return "", piiDomain.ErrInvalidEIN
	}
	return f.codec.Encrypt(digits)
}

// EncryptBankAccount validates and encrypts a bank account number (4-17 digits).
func (f *FieldCodec) EncryptBankAccount(account string) (string, error) {
	digits := stripNonDigits(account)
	if err := validation.Validate(digits, validation.Required, customValidation.DigitsBetween(bankDigitsMin, bankDigitsMax)); err != nil {
		return "", piiDomain.ErrInvalidBankAccount
	}
	return f.codec.Encrypt(digits)
}

// EncryptRoutingNumber validates and encrypts an ABA routing number.
func (f *FieldCodec) EncryptRoutingNumber(routing string) (string, error) {
	digits := stripNonDigits(routing)
	if err := validation.Validate(digits, validation.Required, customValidation.DigitsExact(routingDigits)); err != nil {
		return "", piiDomain.ErrInvalidRoutingNumber
	}
	return f.codec.Encrypt(digits)
}

// RevealSSN decrypts an SSN blob. Masked mode returns "XXX-XX-1234"; full mode
// returns the canonical "123-45-6789" formatting.
func (f *FieldCodec) RevealSSN(blob string, mode piiDomain.RevealMode) (string, error) {
	digits, err := f.codec.Decrypt(blob)
	if err != nil {
		return "", err
	}
	if len(digits) != ssnDigits {
		// Legacy blob encrypted before canonicalization; fall back to the
		// trailing-four reveal rather than guessing separator positions.
		return revealDigits(digits, mode), nil
	}
	if mode == piiDomain.RevealFull {
		return digits[0:3] + "-" + digits[3:5] + "-" + digits[5:9], nil
	}
	return maskDigits(digits[0:3]) + "-" + maskDigits(digits[3:5]) + "-" + digits[5:9], nil
}

// RevealEIN decrypts an EIN blob. Masked mode returns "XX-XXX1234"; full mode
// returns the canonical "12-3456789" formatting.
func (f *FieldCodec) RevealEIN(blob string, mode piiDomain.RevealMode) (string, error) {
	digits, err := f.codec.Decrypt(blob)
	if err != nil {
		return "", err
	}
	if len(digits) != einDigits {
		return revealDigits(digits, mode), nil
	}
	if mode == piiDomain.RevealFull {
		return digits[0:2] + "-" + digits[2:9], nil
	}
	return maskDigits(digits[0:2]) + "-" + maskDigits(digits[2:5]) + digits[5:9], nil
}

// RevealBankAccount decrypts a bank account blob, masking all but the last four digits.
func (f *FieldCodec) RevealBankAccount(blob string, mode piiDomain.RevealMode) (string, error) {
	return f.revealTrailing(blob, mode)
}

// RevealRoutingNumber decrypts a routing number blob, masking all but the last four digits.
func (f *FieldCodec) RevealRoutingNumber(blob string, mode piiDomain.RevealMode) (string, error) {
	return f.revealTrailing(blob, mode)
}

// revealTrailing is the shared last-four reveal for unformatted digit fields.
func (f *FieldCodec) revealTrailing(blob string, mode piiDomain.RevealMode) (string, error) {
	digits, err := f.codec.Decrypt(blob)
	if err != nil {
		return "", err
	}
	return revealDigits(digits, mode), nil
}

// revealDigits applies the trailing-four mask policy to a digit string.
func revealDigits(digits string, mode piiDomain.RevealMode) string {
	if mode == piiDomain.RevealFull {
		return digits
	}
	if len(digits) <= revealLastDigits {
		return digits
	}
	return maskDigits(digits[:len(digits)-revealLastDigits]) + digits[len(digits)-revealLastDigits:]
}

// IsEncrypted reports whether a stored value is already in the encrypted blob
// format. Used to decide whether a field read from the database still needs
// migration to encrypted storage.
func (f *FieldCodec) IsEncrypted(value string) bool {
	return cryptoDomain.IsEncryptedBlob(value)
}

// maskDigits replaces every character with the fixed mask character.
func maskDigits(s string) string {
	return strings.Repeat(string(piiDomain.MaskChar), len(s))
}
