// Package identity carries the authenticated caller's tenant identity through
// request contexts.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the tenant identity resolved from the platform JWT. It is the
// only permitted source of tenant scoping: handlers must never read agency or
// subaccount identifiers from request parameters.
type Identity struct {
	UserID        uuid.UUID
	AgencyID      uuid.UUID
	SubaccountID  *uuid.UUID
	IsSuperAdmin  bool
	IsAgencyAdmin bool
}

type contextKey struct{}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity set by the authentication middleware.
func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(*Identity)
	return id, ok && id != nil
}
