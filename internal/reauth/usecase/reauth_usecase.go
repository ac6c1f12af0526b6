package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/isohub/securitycore/internal/metrics"
	"github.com/isohub/securitycore/internal/reauth/domain"
	"github.com/isohub/securitycore/internal/reauth/registry"
	reauthService "github.com/isohub/securitycore/internal/reauth/service"
	userDomain "github.com/isohub/securitycore/internal/user/domain"
)

const metricsComponent = "reauth"

// reauthUseCase implements ReauthUseCase.
type reauthUseCase struct {
	users           UserRepository
	registry        registry.Registry
	signer          reauthService.TokenSigner
	passwords       reauthService.PasswordVerifier
	totp            reauthService.TOTPVerifier
	ttl             time.Duration
	logger          *slog.Logger
	securityMetrics metrics.SecurityMetrics
}

// NewReauthUseCase creates a ReauthUseCase with the given dependencies.
func NewReauthUseCase(
	users UserRepository,
	reg registry.Registry,
	signer reauthService.TokenSigner,
	passwords reauthService.PasswordVerifier,
	totp reauthService.TOTPVerifier,
	ttl time.Duration,
	logger *slog.Logger,
	securityMetrics metrics.SecurityMetrics,
) ReauthUseCase {
	return &reauthUseCase{
		users:           users,
		registry:        reg,
		signer:          signer,
		passwords:       passwords,
		totp:            totp,
		ttl:             ttl,
		logger:          logger,
		securityMetrics: securityMetrics,
	}
}

// VerifyPassword re-proves identity with the account password. Failure is a
// soft error: the caller gets ErrReauthFailed with no detail about whether the
// account exists, is inactive, or the password was wrong.
func (u *reauthUseCase) VerifyPassword(
	ctx context.Context,
	userID uuid.UUID,
	password string,
) (*domain.Grant, error) {
	user, err := u.lookupActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !u.passwords.Verify(user.PasswordHash, password) {
		return nil, u.fail(ctx, userID, domain.MethodPassword, "password mismatch")
	}

	return u.issue(ctx, userID, domain.MethodPassword)
}

// VerifyTOTP re-proves identity with a one-time code. An account without an
// enrolled secret gets ErrTOTPNotEnrolled so the client can offer the password
// path instead; a wrong code gets the same soft failure as a wrong password.
func (u *reauthUseCase) VerifyTOTP(
	ctx context.Context,
	userID uuid.UUID,
	code string,
) (*domain.Grant, error) {
	user, err := u.lookupActiveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.TOTPEnabled() {
		return nil, domain.ErrTOTPNotEnrolled
	}

	if !u.totp.Verify(*user.TOTPSecret, code, time.Now().UTC()) {
		return nil, u.fail(ctx, userID, domain.MethodTOTP, "totp code mismatch")
	}

	return u.issue(ctx, userID, domain.MethodTOTP)
}

// ValidateReauthToken checks a token without consuming it: signature, expiry,
// registry presence, and (when expectedUserID is set) user binding. Expiry is
// enforced twice, in the JWT claims and against the registry entry, so a clock
// disagreement between the two always resolves to the stricter answer.
func (u *reauthUseCase) ValidateReauthToken(
	ctx context.Context,
	token string,
	expectedUserID *uuid.UUID,
) (*domain.Validated, error) {
	validated, _, err := u.check(ctx, token, expectedUserID)
	return validated, err
}

// ConsumeReauthToken validates the token and removes its registry entry in one
// step. The bool reports whether this call performed the removal; a concurrent
// consumer losing the race gets false with no error, so retried requests stay
// idempotent.
func (u *reauthUseCase) ConsumeReauthToken(
	ctx context.Context,
	token string,
	expectedUserID *uuid.UUID,
) (*domain.Validated, bool, error) {
	validated, tokenID, err := u.check(ctx, token, expectedUserID)
	if err != nil {
		return nil, false, err
	}

	consumed := u.registry.Consume(tokenID)
	if consumed {
		u.logger.Debug("reauth token consumed",
			slog.String("token_id", tokenID.String()),
			slog.String("user_id", validated.UserID.String()),
		)
	}
	return validated, consumed, nil
}

// RevokeAllTokensForUser invalidates every outstanding token for the user.
// Called when credentials change; a password rotation must not leave grants
// minted under the old password alive.
func (u *reauthUseCase) RevokeAllTokensForUser(ctx context.Context, userID uuid.UUID) int {
	count := u.registry.RevokeForUser(userID)
	if count > 0 {
		u.logger.Info("reauth tokens revoked",
			slog.String("user_id", userID.String()),
			slog.Int("revoked", count),
		)
	}
	return count
}

// RunSweepLoop delegates to the registry sweep until the context is cancelled.
func (u *reauthUseCase) RunSweepLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if count := u.registry.Sweep(time.Now().UTC()); count > 0 {
				u.logger.Debug("reauth sweep completed", slog.Int("removed", count))
			}
		}
	}
}

// check runs the shared validation pipeline and returns the proven identity
// plus the registry key.
func (u *reauthUseCase) check(
	ctx context.Context,
	token string,
	expectedUserID *uuid.UUID,
) (*domain.Validated, uuid.UUID, error) {
	claims, err := u.signer.Parse(token)
	if err != nil {
		u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, metrics.EventStepUpFailure)
		return nil, uuid.Nil, domain.ErrInvalidReauthToken
	}

	tokenID, err := uuid.Parse(claims.TokenID)
	if err != nil {
		u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, metrics.EventStepUpFailure)
		return nil, uuid.Nil, domain.ErrInvalidReauthToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, metrics.EventStepUpFailure)
		return nil, uuid.Nil, domain.ErrInvalidReauthToken
	}

	entry, ok := u.registry.Get(tokenID)
	if !ok {
		// Consumed, revoked, or swept. Same answer in every case.
		u.logger.Warn("reauth token not in registry",
			slog.String("token_id", tokenID.String()),
			slog.String("user_id", userID.String()),
		)
		u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, metrics.EventStepUpFailure)
		return nil, uuid.Nil, domain.ErrInvalidReauthToken
	}

	now := time.Now().UTC()
	if entry.ExpiresAt.Before(now) {
		u.registry.Consume(tokenID)
		u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, metrics.EventStepUpFailure)
		return nil, uuid.Nil, domain.ErrInvalidReauthToken
	}

	if entry.UserID != userID {
		// Registry and claims disagree on identity. Should be impossible.
		u.logger.Error("reauth token identity mismatch",
			slog.String("token_id", tokenID.String()),
			slog.String("claims_user_id", userID.String()),
			slog.String("registry_user_id", entry.UserID.String()),
		)
		u.registry.Consume(tokenID)
		u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, metrics.EventStepUpFailure)
		return nil, uuid.Nil, domain.ErrInvalidReauthToken
	}

	if expectedUserID != nil && *expectedUserID != userID {
		u.logger.Warn("reauth token bound to different user",
			slog.String("token_id", tokenID.String()),
			slog.String("expected_user_id", expectedUserID.String()),
			slog.String("token_user_id", userID.String()),
		)
		u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, metrics.EventStepUpFailure)
		return nil, uuid.Nil, domain.ErrInvalidReauthToken
	}

	return &domain.Validated{
		UserID: userID,
		Method: domain.Method(claims.Method),
	}, tokenID, nil
}

// issue mints a signed token and records it in the registry.
func (u *reauthUseCase) issue(
	ctx context.Context,
	userID uuid.UUID,
	method domain.Method,
) (*domain.Grant, error) {
	now := time.Now().UTC()
	token := domain.Token{
		TokenID:   uuid.Must(uuid.NewV7()),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(u.ttl),
		Method:    method,
	}

	signed, err := u.signer.Sign(token)
	if err != nil {
		return nil, err
	}

	u.registry.Put(token.TokenID, registry.Entry{
		UserID:    userID,
		ExpiresAt: token.ExpiresAt,
	})

	u.logger.Info("reauth token issued",
		slog.String("token_id", token.TokenID.String()),
		slog.String("user_id", userID.String()),
		slog.String("method", string(method)),
		slog.Time("expires_at", token.ExpiresAt),
	)
	u.securityMetrics.RecordOperation(ctx, metricsComponent, "issue_"+string(method), "success")

	return &domain.Grant{
		Token:     signed,
		ExpiresIn: int64(u.ttl.Seconds()),
	}, nil
}

// lookupActiveUser fetches the user and collapses not-found and inactive into
// the generic reauth failure.
func (u *reauthUseCase) lookupActiveUser(
	ctx context.Context,
	userID uuid.UUID,
) (*userDomain.User, error) {
	user, err := u.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, userDomain.ErrUserNotFound) {
			return nil, u.fail(ctx, userID, "", "user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, u.fail(ctx, userID, "", "user inactive")
	}
	return user, nil
}

// fail records the step-up failure in logs and metrics and returns the generic
// domain error. The reason stays server-side.
func (u *reauthUseCase) fail(
	ctx context.Context,
	userID uuid.UUID,
	method domain.Method,
	reason string,
) error {
	attrs := []any{
		slog.String("user_id", userID.String()),
		slog.String("reason", reason),
	}
	if method != "" {
		attrs = append(attrs, slog.String("method", string(method)))
	}
	u.logger.Warn("step-up reauthentication failed", attrs...)
	u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, metrics.EventStepUpFailure)
	return domain.ErrReauthFailed
}
