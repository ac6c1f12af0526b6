package commands

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// RunGenerateEncryptionKey prints a random hex-encoded 32-byte key suitable
// for the PII_ENCRYPTION_KEY environment variable.
func RunGenerateEncryptionKey(w io.Writer) error {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate key material: %w", err)
	}

	fmt.Fprintln(w, hex.EncodeToString(key))
	return nil
}
