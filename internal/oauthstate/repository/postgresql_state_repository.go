// Package repository implements OAuth state persistence for PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/isohub/securitycore/internal/database"
	apperrors "github.com/isohub/securitycore/internal/errors"
	stateDomain "github.com/isohub/securitycore/internal/oauthstate/domain"
)

// PostgreSQLStateRepository implements OAuth state persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLStateRepository struct {
	db *sql.DB
}

// NewPostgreSQLStateRepository creates a new PostgreSQL OAuth state repository.
func NewPostgreSQLStateRepository(db *sql.DB) *PostgreSQLStateRepository {
	return &PostgreSQLStateRepository{db: db}
}

// Create inserts a new State row. Returns an error if database insertion fails
// (including a nonce uniqueness violation, which should never happen with
// 128-bit random nonces).
func (p *PostgreSQLStateRepository) Create(ctx context.Context, state *stateDomain.State) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO oauth_states (id, nonce, agency_id, user_id, expires_at, consumed, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := querier.ExecContext(
		ctx,
		query,
		state.ID,
		state.Nonce,
		state.AgencyID,
		state.UserID,
		state.ExpiresAt,
		state.Consumed,
		state.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create oauth state")
	}
	return nil
}

// Consume atomically flips the row for nonce to consumed=true and returns it.
//
// The WHERE consumed = false predicate makes the database's row lock the sole
// mutual-exclusion mechanism: concurrent validations of the same nonce across
// any number of process instances are serialized by PostgreSQL and exactly one
// sees the row. Zero rows returned means the nonce was already consumed or was
// never issued; both surface as ErrStateReplayed.
func (p *PostgreSQLStateRepository) Consume(ctx context.Context, nonce string) (*stateDomain.State, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE oauth_states
			  SET consumed = true
			  WHERE nonce = $1 AND consumed = false
			  RETURNING id, nonce, agency_id, user_id, expires_at, consumed, created_at`

	var state stateDomain.State

	err := querier.QueryRowContext(ctx, query, nonce).Scan(
		&state.ID,
		&state.Nonce,
		&state.AgencyID,
		&state.UserID,
		&state.ExpiresAt,
		&state.Consumed,
		&state.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, stateDomain.ErrStateReplayed
		}
		return nil, apperrors.Wrap(err, "failed to consume oauth state")
	}

	return &state, nil
}

// DeleteExpired bulk-deletes rows whose expiry has passed. Idempotent and safe
// to run concurrently with active validations: it only removes rows validation
// would reject anyway.
func (p *PostgreSQLStateRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM oauth_states WHERE expires_at < $1`, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired oauth states")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read deleted row count")
	}
	return count, nil
}

// CountExpired counts rows past expiry that the cleanup job has not removed
// yet. Read-only; used by the security assessment.
func (p *PostgreSQLStateRepository) CountExpired(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	var count int64
	err := querier.QueryRowContext(ctx,
		`SELECT count(*) FROM oauth_states WHERE expires_at < $1`, time.Now().UTC()).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired oauth states")
	}
	return count, nil
}
