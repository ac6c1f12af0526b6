package usecase

import (
	"context"
	"database/sql"
	"time"

	stateDomain "github.com/isohub/securitycore/internal/oauthstate/domain"
)

// AdminScope runs a database operation with cross-tenant visibility. Expired
// state rows belong to every agency, so the cleanup sweep cannot run under a
// single tenant's row-level security context. Satisfied by *tenant.Propagator.
type AdminScope interface {
	WithSuperAdminContext(ctx context.Context, op func(ctx context.Context, conn *sql.Conn) error) error
}

// StateRepository defines OAuth state persistence operations.
type StateRepository interface {
	// Create inserts a new state row with consumed=false.
	Create(ctx context.Context, state *stateDomain.State) error
	// Consume atomically flips the row to consumed=true and returns it.
	// Returns domain.ErrStateReplayed when no unconsumed row matches.
	Consume(ctx context.Context, nonce string) (*stateDomain.State, error)
	// DeleteExpired removes rows past their expiry and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	// CountExpired counts rows past their expiry without removing them.
	CountExpired(ctx context.Context) (int64, error)
}

// StateUseCase defines OAuth state token operations.
type StateUseCase interface {
	// GenerateState issues a signed, single-use state token bound to the tenant.
	GenerateState(ctx context.Context, input *stateDomain.GenerateStateInput) (string, error)
	// ValidateState verifies and consumes a state token exactly once.
	ValidateState(ctx context.Context, token string) (*stateDomain.ValidatedState, error)
	// CleanupExpired deletes expired state rows and returns the count.
	CleanupExpired(ctx context.Context) (int64, error)
	// CountExpired counts expired state rows without deleting them.
	CountExpired(ctx context.Context) (int64, error)
	// RunCleanupLoop runs CleanupExpired on the given interval until ctx ends.
	// Failures are logged, never propagated: the sweep must not crash the host.
	RunCleanupLoop(ctx context.Context, interval time.Duration)
}
