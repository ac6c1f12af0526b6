// Package domain defines PII field categories and their display contracts.
package domain

// RevealMode selects how much of a decrypted PII value is exposed.
type RevealMode string

const (
	// RevealMasked exposes only the last four digits; the rest is replaced by
	// the mask character. This is the default display mode.
	RevealMasked RevealMode = "masked"

	// RevealFull exposes the canonical formatted value. Full reveals are the
	// single auditable code path for complete plaintext exposure.
	RevealFull RevealMode = "full"
)

// MaskChar is the fixed character used for masked reveals.
const MaskChar = 'X'
