// Package service provides step-up credential verification and token signing.
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/reauth/domain"
)

// Claims is the JWT payload for a reauth token. Subject carries the user ID;
// TokenID keys the registry entry that makes the token single-use.
type Claims struct {
	TokenID string `json:"tid"`
	Method  string `json:"mth"`
	jwt.RegisteredClaims
}

// TokenSigner signs and parses reauth tokens.
type TokenSigner interface {
	Sign(token domain.Token) (string, error)
	Parse(signed string) (*Claims, error)
}

type jwtSigner struct {
	secret []byte
}

// NewTokenSigner creates an HMAC-SHA256 token signer. The secret must not be
// empty; a missing secret would make every token forgeable.
func NewTokenSigner(secret string) (TokenSigner, error) {
	if secret == "" {
		return nil, errors.Wrap(errors.ErrConfiguration, "reauth token secret must not be empty")
	}
	return &jwtSigner{secret: []byte(secret)}, nil
}

func (s *jwtSigner) Sign(token domain.Token) (string, error) {
	claims := Claims{
		TokenID: token.TokenID.String(),
		Method:  string(token.Method),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   token.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(token.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(token.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign reauth token")
	}
	return signed, nil
}

// Parse verifies the signature and expiry and returns the claims. Any failure
// maps to ErrInvalidReauthToken; the caller never learns which check failed.
func (s *jwtSigner) Parse(signed string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidReauthToken
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, domain.ErrInvalidReauthToken
	}

	if _, err := uuid.Parse(claims.TokenID); err != nil {
		return nil, domain.ErrInvalidReauthToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, domain.ErrInvalidReauthToken
	}

	return claims, nil
}

// TTL helpers keep expiry computation in one place.

// ExpiryFrom computes the expiry instant for a token issued at issuedAt.
func ExpiryFrom(issuedAt time.Time, ttl time.Duration) time.Time {
	return issuedAt.Add(ttl)
}
