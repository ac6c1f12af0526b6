package http

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/httputil"
	"github.com/isohub/securitycore/internal/identity"
	"github.com/isohub/securitycore/internal/tenant"
	tenantDomain "github.com/isohub/securitycore/internal/tenant/domain"
)

// TenantContextMiddleware runs the rest of the request on a pinned database
// connection carrying the caller's tenant identity as session variables, so
// row-level security policies see the correct agency on every query the
// handlers make. The identity comes from the session token only, never from
// request parameters.
//
// MUST be used after AuthenticationMiddleware.
func TenantContextMiddleware(propagator *tenant.Propagator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity.FromContext(c.Request.Context())
		if !ok {
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		err := propagator.WithTenantContext(c.Request.Context(), tenantDomain.Context{
			AgencyID:      id.AgencyID,
			SubaccountID:  id.SubaccountID,
			IsSuperAdmin:  id.IsSuperAdmin,
			IsAgencyAdmin: id.IsAgencyAdmin,
		}, func(ctx context.Context, _ *sql.Conn) error {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return nil
		})
		if err != nil {
			// Connection acquisition or set_config failed; the handler never
			// ran and nothing has been written yet.
			logger.Error("failed to establish tenant database context",
				slog.String("agency_id", id.AgencyID.String()),
				slog.Any("error", err))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
		}
	}
}
