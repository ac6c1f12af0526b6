// Package usecase implements OAuth state token issuance and single-use validation.
package usecase

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/isohub/securitycore/internal/metrics"
	stateDomain "github.com/isohub/securitycore/internal/oauthstate/domain"
	stateService "github.com/isohub/securitycore/internal/oauthstate/service"
)

const (
	metricsComponent = "oauth_state"
	payloadFields    = 5
)

// stateUseCase implements StateUseCase.
type stateUseCase struct {
	repo            StateRepository
	signer          stateService.StateSigner
	admin           AdminScope
	ttl             time.Duration
	logger          *slog.Logger
	securityMetrics metrics.SecurityMetrics
}

// NewStateUseCase creates a StateUseCase with the given dependencies.
func NewStateUseCase(
	repo StateRepository,
	signer stateService.StateSigner,
	admin AdminScope,
	ttl time.Duration,
	logger *slog.Logger,
	securityMetrics metrics.SecurityMetrics,
) StateUseCase {
	return &stateUseCase{
		repo:            repo,
		signer:          signer,
		admin:           admin,
		ttl:             ttl,
		logger:          logger,
		securityMetrics: securityMetrics,
	}
}

// GenerateState issues a signed single-use state token.
//
// The nonce row is persisted before the token is built so that validation can
// require both the persisted row and a valid HMAC. Token layout:
//
//	base64url( nonce:agencyId:userId:expiryUnix:signature )
//
// where signature is HMAC-SHA256 over the first four fields.
func (u *stateUseCase) GenerateState(
	ctx context.Context,
	input *stateDomain.GenerateStateInput,
) (string, error) {
	nonce, err := u.signer.GenerateNonce()
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	expiresAt := now.Add(u.ttl)

	state := &stateDomain.State{
		ID:        uuid.Must(uuid.NewV7()),
		Nonce:     nonce,
		AgencyID:  input.AgencyID,
		UserID:    input.UserID,
		ExpiresAt: expiresAt,
		Consumed:  false,
		CreatedAt: now,
	}
	if err := u.repo.Create(ctx, state); err != nil {
		return "", err
	}

	payload := strings.Join([]string{
		nonce,
		input.AgencyID.String(),
		input.UserID.String(),
		strconv.FormatInt(expiresAt.Unix(), 10),
	}, ":")
	signature := u.signer.Sign(payload)

	token := base64.URLEncoding.EncodeToString([]byte(payload + ":" + signature))

	u.logger.Debug("oauth state issued",
		slog.String("nonce", nonce),
		slog.String("agency_id", input.AgencyID.String()),
		slog.String("user_id", input.UserID.String()),
		slog.Time("expires_at", expiresAt),
	)

	return token, nil
}

// ValidateState verifies and consumes a state token.
//
// The checks run in a fixed order, each a distinct failure mode:
//
//	(a) base64 decode + field count  -> ErrMalformedState
//	(b) HMAC over the first 4 fields -> ErrInvalidStateSignature (forgery/CSRF)
//	(c) embedded expiry vs now       -> ErrExpiredState
//	(d) atomic row consumption       -> ErrStateReplayed (replay)
//	(e) row vs payload tenant match  -> ErrTamperedState (cross-tenant injection)
//
// All five are logged and counted distinctly; the HTTP layer collapses them
// into one generic response.
func (u *stateUseCase) ValidateState(
	ctx context.Context,
	token string,
) (*stateDomain.ValidatedState, error) {
	// (a) decode and split
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, u.reject(ctx, metrics.EventMalformedState, stateDomain.ErrMalformedState,
			slog.String("reason", "not base64"))
	}

	fields := strings.Split(string(raw), ":")
	if len(fields) != payloadFields {
		return nil, u.reject(ctx, metrics.EventMalformedState, stateDomain.ErrMalformedState,
			slog.Int("field_count", len(fields)))
	}

	nonce := fields[0]
	payload := strings.Join(fields[:4], ":")
	signature := fields[4]

	// (b) signature
	if !u.signer.Verify(payload, signature) {
		return nil, u.reject(ctx, metrics.EventInvalidSignature, stateDomain.ErrInvalidStateSignature,
			slog.String("nonce", nonce))
	}

	agencyID, err := uuid.Parse(fields[1])
	if err != nil {
		return nil, u.reject(ctx, metrics.EventMalformedState, stateDomain.ErrMalformedState,
			slog.String("reason", "invalid agency uuid"))
	}
	userID, err := uuid.Parse(fields[2])
	if err != nil {
		return nil, u.reject(ctx, metrics.EventMalformedState, stateDomain.ErrMalformedState,
			slog.String("reason", "invalid user uuid"))
	}
	expiryUnix, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, u.reject(ctx, metrics.EventMalformedState, stateDomain.ErrMalformedState,
			slog.String("reason", "invalid expiry"))
	}

	// (c) expiry is a pure wall-clock comparison at the moment of use; no
	// timers to restore after a process restart.
	if time.Now().UTC().Unix() > expiryUnix {
		return nil, u.reject(ctx, metrics.EventExpiredState, stateDomain.ErrExpiredState,
			slog.String("nonce", nonce))
	}

	// (d) atomic consumption; the row count of the consuming UPDATE is the
	// sole source of truth for replay detection.
	row, err := u.repo.Consume(ctx, nonce)
	if err != nil {
		if errors.Is(err, stateDomain.ErrStateReplayed) {
			return nil, u.reject(ctx, metrics.EventReplayDetected, stateDomain.ErrStateReplayed,
				slog.String("nonce", nonce),
				slog.String("agency_id", agencyID.String()),
				slog.String("user_id", userID.String()))
		}
		return nil, err
	}

	// (e) double binding: the persisted row must agree with the signed payload.
	if row.AgencyID != agencyID || row.UserID != userID {
		return nil, u.reject(ctx, metrics.EventTamperedState, stateDomain.ErrTamperedState,
			slog.String("nonce", nonce),
			slog.String("payload_agency_id", agencyID.String()),
			slog.String("stored_agency_id", row.AgencyID.String()),
			slog.String("payload_user_id", userID.String()),
			slog.String("stored_user_id", row.UserID.String()))
	}

	return &stateDomain.ValidatedState{
		Nonce:    nonce,
		AgencyID: agencyID,
		UserID:   userID,
	}, nil
}

// CleanupExpired deletes expired state rows across all agencies and returns
// the deleted count. Runs under the admin scope so row-level security does not
// hide other tenants' rows from the sweep.
func (u *stateUseCase) CleanupExpired(ctx context.Context) (int64, error) {
	var count int64
	err := u.admin.WithSuperAdminContext(ctx, func(ctx context.Context, _ *sql.Conn) error {
		var opErr error
		count, opErr = u.repo.DeleteExpired(ctx, time.Now().UTC())
		return opErr
	})
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired oauth states: %w", err)
	}
	return count, nil
}

// CountExpired counts expired state rows across all agencies without deleting
// them. Used for the cleanup command's dry-run mode.
func (u *stateUseCase) CountExpired(ctx context.Context) (int64, error) {
	var count int64
	err := u.admin.WithSuperAdminContext(ctx, func(ctx context.Context, _ *sql.Conn) error {
		var opErr error
		count, opErr = u.repo.CountExpired(ctx)
		return opErr
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count expired oauth states: %w", err)
	}
	return count, nil
}

// RunCleanupLoop sweeps expired state rows on the given interval until the
// context is cancelled. Sweep failures are logged and never crash the host.
func (u *stateUseCase) RunCleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := u.CleanupExpired(ctx)
			if err != nil {
				u.logger.Error("oauth state cleanup failed", slog.Any("error", err))
				continue
			}
			if count > 0 {
				u.logger.Info("oauth state cleanup completed", slog.Int64("deleted", count))
			}
		}
	}
}

// reject records the security event in logs and metrics and returns the domain error.
func (u *stateUseCase) reject(
	ctx context.Context,
	event string,
	domainErr error,
	attrs ...slog.Attr,
) error {
	logAttrs := make([]any, 0, len(attrs)+1)
	logAttrs = append(logAttrs, slog.String("event", event))
	for _, attr := range attrs {
		logAttrs = append(logAttrs, attr)
	}
	u.logger.Warn("oauth state validation rejected", logAttrs...)
	u.securityMetrics.RecordSecurityEvent(ctx, metricsComponent, event)
	return domainErr
}
