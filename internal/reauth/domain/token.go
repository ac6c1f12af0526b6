// Package domain defines step-up reauthentication entities and errors.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Method is the credential re-proof used to mint a reauth token.
type Method string

const (
	// MethodPassword indicates the user re-proved identity with their password.
	MethodPassword Method = "password"
	// MethodTOTP indicates the user re-proved identity with a one-time code.
	MethodTOTP Method = "totp"
)

// Token is an issued step-up grant. It exists in two coupled forms: the signed
// string handed to the client and the registry entry keyed by TokenID. Both
// are required at validation time; registry absence means consumed or revoked.
type Token struct {
	TokenID   uuid.UUID
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
	Method    Method
}

// Grant is the issuance output returned to the caller.
type Grant struct {
	// Token is the signed token string, supplied back via the X-Reauth-Token
	// header when performing the sensitive operation.
	Token string
	// ExpiresIn is the grant lifetime in seconds.
	ExpiresIn int64
}

// Validated is the identity a successfully validated reauth token proves.
type Validated struct {
	UserID uuid.UUID
	Method Method
}
