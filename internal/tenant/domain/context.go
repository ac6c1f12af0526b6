// Package domain defines the tenant identity propagated to the database.
package domain

import (
	"github.com/google/uuid"

	"github.com/isohub/securitycore/internal/errors"
)

// Context is the tenant identity applied to a database session for the
// duration of one operation. Row-level security policies read these values
// from session variables; they are never taken from request parameters.
type Context struct {
	AgencyID      uuid.UUID
	SubaccountID  *uuid.UUID
	IsSuperAdmin  bool
	IsAgencyAdmin bool
}

// ErrMissingTenant indicates an operation required a tenant identity but the
// request context carried none.
var ErrMissingTenant = errors.Wrap(errors.ErrUnauthorized, "missing tenant identity")
