// Package domain defines the value types of the field-encryption subsystem.
package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// IVSize is the AES-GCM initialization vector length in bytes.
	IVSize = 16
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

// EncryptedBlob is the serialized form of an AES-256-GCM field ciphertext.
//
// The wire format is three colon-separated hex segments:
//
//	iv (16 bytes) : authTag (16 bytes) : ciphertext (variable)
//
// A valid blob always parses into exactly three non-empty segments with IV and
// tag each 32 hex characters. The format is produced only by Codec.Encrypt and
// consumed only by Codec.Decrypt under the same key.
type EncryptedBlob struct {
	IV         []byte
	Tag        []byte
	Ciphertext []byte
}

// NewEncryptedBlob parses the three-segment string representation. Parsing
// fails closed: any malformed segment returns an error and never a partially
// populated blob.
func NewEncryptedBlob(content string) (EncryptedBlob, error) {
	parts := strings.Split(content, ":")
	if len(parts) != 3 {
		return EncryptedBlob{}, fmt.Errorf(
			"%w: expected 'iv:tag:ciphertext', got %d segment(s)",
			ErrInvalidBlobFormat,
			len(parts),
		)
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: iv is not valid hex", ErrInvalidBlobSegment)
	}
	if len(iv) != IVSize {
		return EncryptedBlob{}, fmt.Errorf(
			"%w: iv must be %d bytes, got %d", ErrInvalidBlobSegment, IVSize, len(iv),
		)
	}

	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: tag is not valid hex", ErrInvalidBlobSegment)
	}
	if len(tag) != TagSize {
		return EncryptedBlob{}, fmt.Errorf(
			"%w: tag must be %d bytes, got %d", ErrInvalidBlobSegment, TagSize, len(tag),
		)
	}

	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return EncryptedBlob{}, fmt.Errorf("%w: ciphertext is not valid hex", ErrInvalidBlobSegment)
	}
	if len(ciphertext) == 0 {
		return EncryptedBlob{}, fmt.Errorf("%w: ciphertext must not be empty", ErrInvalidBlobSegment)
	}

	return EncryptedBlob{IV: iv, Tag: tag, Ciphertext: ciphertext}, nil
}

// IsEncryptedBlob reports whether value structurally matches the blob format.
// Used to decide whether a stored field still needs encryption on read. The
// hex and length checks ensure plaintext that happens to contain colons does
// not false-positive.
func IsEncryptedBlob(value string) bool {
	_, err := NewEncryptedBlob(value)
	return err == nil
}

// String serializes the blob to its three-segment hex representation.
// Round-trips with NewEncryptedBlob.
func (eb EncryptedBlob) String() string {
	return fmt.Sprintf(
		"%s:%s:%s",
		hex.EncodeToString(eb.IV),
		hex.EncodeToString(eb.Tag),
		hex.EncodeToString(eb.Ciphertext),
	)
}
