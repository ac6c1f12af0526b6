package service

import (
	"strings"

	"github.com/allisson/go-pwdhash"
	"golang.org/x/crypto/bcrypt"

	"github.com/isohub/securitycore/internal/errors"
)

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(hash, password string) bool
}

type passwordVerifier struct {
	hasher *pwdhash.PasswordHasher
}

// NewPasswordVerifier creates a verifier that handles both argon2id hashes
// (the current scheme) and bcrypt hashes left over from accounts that predate
// the argon2id migration. Bcrypt verification still succeeds so those users
// can re-prove identity; their hash is upgraded on next password change.
func NewPasswordVerifier() (PasswordVerifier, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create password hasher")
	}
	return &passwordVerifier{hasher: hasher}, nil
}

func (v *passwordVerifier) Verify(hash, password string) bool {
	switch {
	case strings.HasPrefix(hash, "$argon2"):
		ok, err := v.hasher.Verify([]byte(password), hash)
		return err == nil && ok
	case strings.HasPrefix(hash, "$2a$"), strings.HasPrefix(hash, "$2b$"), strings.HasPrefix(hash, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	default:
		return false
	}
}
