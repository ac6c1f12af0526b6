// Package repository implements user persistence for PostgreSQL.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/isohub/securitycore/internal/database"
	apperrors "github.com/isohub/securitycore/internal/errors"
	userDomain "github.com/isohub/securitycore/internal/user/domain"
)

// PostgreSQLUserRepository implements user lookups for PostgreSQL.
// Uses transaction support via database.GetTx().
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQL user repository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{db: db}
}

// Get retrieves a user by ID. Returns ErrUserNotFound if the user doesn't exist.
func (p *PostgreSQLUserRepository) Get(ctx context.Context, userID uuid.UUID) (*userDomain.User, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, email, password_hash, totp_secret, agency_id, is_active, created_at
			  FROM users WHERE id = $1`

	var user userDomain.User
	var totpSecret sql.NullString

	err := querier.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&totpSecret,
		&user.AgencyID,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if totpSecret.Valid {
		user.TOTPSecret = &totpSecret.String
	}

	return &user, nil
}

// SampleCredentials returns a bounded sample of credential hash shapes for the
// security assessment. Never returns plaintext credential material.
func (p *PostgreSQLUserRepository) SampleCredentials(
	ctx context.Context,
	limit int,
) ([]userDomain.CredentialSample, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT password_hash, totp_secret IS NOT NULL AND totp_secret <> ''
			  FROM users ORDER BY created_at DESC LIMIT $1`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sample user credentials")
	}
	defer rows.Close()

	var samples []userDomain.CredentialSample
	for rows.Next() {
		var sample userDomain.CredentialSample
		if err := rows.Scan(&sample.PasswordHash, &sample.TOTPEnabled); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan credential sample")
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credential samples")
	}

	return samples, nil
}
