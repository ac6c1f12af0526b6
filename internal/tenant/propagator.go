// Package tenant propagates tenant identity to PostgreSQL session variables
// for row-level security enforcement.
package tenant

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"log/slog"

	"github.com/isohub/securitycore/internal/database"
	"github.com/isohub/securitycore/internal/errors"
	"github.com/isohub/securitycore/internal/tenant/domain"
)

// Session variable names read by row-level security policies.
const (
	varAgencyID     = "app.current_agency_id"
	varSubaccountID = "app.current_subaccount_id"
	varSuperAdmin   = "app.is_super_admin"
	varAgencyAdmin  = "app.is_agency_admin"
)

// Propagator runs database work under a tenant identity. It pins a single
// connection from the pool, sets the session variables, runs the operation on
// that connection, and unconditionally resets the variables before releasing
// the connection back to the pool. Without the reset, a pooled connection
// would leak one tenant's identity into the next borrower's queries.
type Propagator struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPropagator creates a tenant context propagator.
func NewPropagator(db *sql.DB, logger *slog.Logger) *Propagator {
	return &Propagator{db: db, logger: logger}
}

// WithTenantContext runs op on a pinned connection with tenantCtx applied as
// session variables. The variables are reset even when op returns an error or
// panics. Calls must not be nested: the inner reset would strip the outer
// identity mid-operation.
//
// The context passed to op carries the pinned connection, so repositories that
// resolve their querier through database.GetTx execute on the connection
// holding the session variables rather than an arbitrary pool connection.
func (p *Propagator) WithTenantContext(
	ctx context.Context,
	tenantCtx domain.Context,
	op func(ctx context.Context, conn *sql.Conn) error,
) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to acquire connection for tenant context")
	}
	defer conn.Close()

	if err := p.set(ctx, conn, tenantCtx); err != nil {
		// Never run the operation with a partially applied identity.
		p.reset(ctx, conn)
		return err
	}

	defer p.reset(ctx, conn)
	return op(database.WithConn(ctx, conn), conn)
}

// WithSuperAdminContext runs op with the super admin flag set and no agency
// binding, for cross-tenant administrative operations. Call sites are the
// audit trail; keep them few.
func (p *Propagator) WithSuperAdminContext(
	ctx context.Context,
	op func(ctx context.Context, conn *sql.Conn) error,
) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to acquire connection for super admin context")
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx,
		`SELECT set_config($1, 'true', false)`, varSuperAdmin); err != nil {
		p.reset(ctx, conn)
		return errors.Wrap(err, "failed to set super admin context")
	}

	p.logger.Info("super admin database context opened")

	defer p.reset(ctx, conn)
	return op(database.WithConn(ctx, conn), conn)
}

// set applies all four session variables on the pinned connection.
func (p *Propagator) set(ctx context.Context, conn *sql.Conn, tenantCtx domain.Context) error {
	subaccountID := ""
	if tenantCtx.SubaccountID != nil {
		subaccountID = tenantCtx.SubaccountID.String()
	}

	query := `SELECT set_config($1, $2, false),
					 set_config($3, $4, false),
					 set_config($5, $6, false),
					 set_config($7, $8, false)`
	_, err := conn.ExecContext(ctx, query,
		varAgencyID, tenantCtx.AgencyID.String(),
		varSubaccountID, subaccountID,
		varSuperAdmin, boolValue(tenantCtx.IsSuperAdmin),
		varAgencyAdmin, boolValue(tenantCtx.IsAgencyAdmin),
	)
	if err != nil {
		return errors.Wrap(err, "failed to set tenant context")
	}
	return nil
}

// reset clears all four session variables. Uses context.WithoutCancel so the
// cleanup still runs when the request context is already cancelled; a failed
// reset is logged loudly because the connection may now carry stale identity.
func (p *Propagator) reset(ctx context.Context, conn *sql.Conn) {
	query := `SELECT set_config($1, '', false),
					 set_config($2, '', false),
					 set_config($3, 'false', false),
					 set_config($4, 'false', false)`
	_, err := conn.ExecContext(context.WithoutCancel(ctx), query,
		varAgencyID, varSubaccountID, varSuperAdmin, varAgencyAdmin)
	if err != nil {
		p.logger.Error("failed to reset tenant context on pooled connection",
			slog.Any("error", err))
		// Poison the connection rather than return it with stale identity.
		_ = conn.Raw(func(any) error { return driver.ErrBadConn })
	}
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
