// Package usecase implements step-up reauthentication business logic.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/isohub/securitycore/internal/reauth/domain"
	userDomain "github.com/isohub/securitycore/internal/user/domain"
)

// UserRepository defines the user lookups the reauth flow needs.
type UserRepository interface {
	Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error)
}

// ReauthUseCase defines step-up reauthentication operations.
type ReauthUseCase interface {
	// VerifyPassword re-proves identity with the account password and, on
	// success, issues a short-lived single-use reauth token.
	VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (*domain.Grant, error)
	// VerifyTOTP re-proves identity with a one-time code and, on success,
	// issues a short-lived single-use reauth token.
	VerifyTOTP(ctx context.Context, userID uuid.UUID, code string) (*domain.Grant, error)
	// ValidateReauthToken checks a token without consuming it. When
	// expectedUserID is non-nil the token must be bound to that user.
	ValidateReauthToken(ctx context.Context, token string, expectedUserID *uuid.UUID) (*domain.Validated, error)
	// ConsumeReauthToken validates and removes the token in one step. The
	// returned bool reports whether this call performed the removal.
	ConsumeReauthToken(ctx context.Context, token string, expectedUserID *uuid.UUID) (*domain.Validated, bool, error)
	// RevokeAllTokensForUser invalidates every outstanding token for the user
	// and returns the number revoked.
	RevokeAllTokensForUser(ctx context.Context, userID uuid.UUID) int
	// RunSweepLoop removes expired registry entries on the given interval
	// until the context is cancelled.
	RunSweepLoop(ctx context.Context, interval time.Duration)
}
