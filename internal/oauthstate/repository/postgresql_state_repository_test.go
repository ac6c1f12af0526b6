package repository

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stateDomain "github.com/isohub/securitycore/internal/oauthstate/domain"
	"github.com/isohub/securitycore/internal/tenant"
	tenantDomain "github.com/isohub/securitycore/internal/tenant/domain"
)

func newTestState() *stateDomain.State {
	now := time.Now().UTC()
	return &stateDomain.State{
		ID:        uuid.Must(uuid.NewV7()),
		Nonce:     "a1b2c3d4e5f60718293a4b5c6d7e8f90",
		AgencyID:  uuid.Must(uuid.NewV7()),
		UserID:    uuid.Must(uuid.NewV7()),
		ExpiresAt: now.Add(10 * time.Minute),
		Consumed:  false,
		CreatedAt: now,
	}
}

func TestPostgreSQLStateRepository_Create(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLStateRepository(db)
	state := newTestState()

	dbMock.ExpectExec("INSERT INTO oauth_states").
		WithArgs(
			state.ID,
			state.Nonce,
			state.AgencyID,
			state.UserID,
			state.ExpiresAt,
			state.Consumed,
			state.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Create(context.Background(), state)
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLStateRepository_Consume(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLStateRepository(db)
	state := newTestState()

	rows := sqlmock.NewRows([]string{
		"id", "nonce", "agency_id", "user_id", "expires_at", "consumed", "created_at",
	}).AddRow(state.ID, state.Nonce, state.AgencyID, state.UserID, state.ExpiresAt, true, state.CreatedAt)

	dbMock.ExpectQuery("UPDATE oauth_states").
		WithArgs(state.Nonce).
		WillReturnRows(rows)

	consumed, err := repo.Consume(context.Background(), state.Nonce)
	require.NoError(t, err)
	assert.Equal(t, state.ID, consumed.ID)
	assert.Equal(t, state.AgencyID, consumed.AgencyID)
	assert.Equal(t, state.UserID, consumed.UserID)
	assert.True(t, consumed.Consumed)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLStateRepository_ConsumeUnderTenantContext(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLStateRepository(db)
	state := newTestState()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	propagator := tenant.NewPropagator(db, logger)

	// Strict order on one pinned connection: session variables applied, then
	// the consuming UPDATE, then the reset. If the UPDATE ran on a bare pool
	// connection instead, row-level security would see no agency binding, match
	// zero rows and report a false replay.
	dbMock.ExpectExec("SELECT set_config").
		WithArgs(
			"app.current_agency_id", state.AgencyID.String(),
			"app.current_subaccount_id", "",
			"app.is_super_admin", "false",
			"app.is_agency_admin", "false",
		).
		WillReturnResult(sqlmock.NewResult(0, 0))
	dbMock.ExpectQuery("UPDATE oauth_states").
		WithArgs(state.Nonce).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "nonce", "agency_id", "user_id", "expires_at", "consumed", "created_at",
		}).AddRow(state.ID, state.Nonce, state.AgencyID, state.UserID, state.ExpiresAt, true, state.CreatedAt))
	dbMock.ExpectExec("SELECT set_config").
		WithArgs(
			"app.current_agency_id",
			"app.current_subaccount_id",
			"app.is_super_admin",
			"app.is_agency_admin",
		).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = propagator.WithTenantContext(context.Background(), tenantDomain.Context{
		AgencyID: state.AgencyID,
	}, func(ctx context.Context, _ *sql.Conn) error {
		consumed, opErr := repo.Consume(ctx, state.Nonce)
		if opErr != nil {
			return opErr
		}
		assert.Equal(t, state.ID, consumed.ID)
		assert.True(t, consumed.Consumed)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLStateRepository_ConsumeAlreadyConsumed(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLStateRepository(db)

	// Zero rows back from the consuming UPDATE: consumed before, or never issued.
	dbMock.ExpectQuery("UPDATE oauth_states").
		WithArgs("unknown-nonce").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "nonce", "agency_id", "user_id", "expires_at", "consumed", "created_at",
		}))

	_, err = repo.Consume(context.Background(), "unknown-nonce")
	assert.ErrorIs(t, err, stateDomain.ErrStateReplayed)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLStateRepository_DeleteExpired(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLStateRepository(db)
	now := time.Now().UTC()

	dbMock.ExpectExec("DELETE FROM oauth_states").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	count, err := repo.DeleteExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPostgreSQLStateRepository_CountExpired(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLStateRepository(db)

	dbMock.ExpectQuery("SELECT count").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	count, err := repo.CountExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
