package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgreSQLPolicyRepository_TablesWithoutRLS(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgreSQLPolicyRepository(db)

	t.Run("all tables protected", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT c.relname").
			WillReturnRows(sqlmock.NewRows([]string{"relname"}))

		unprotected, err := repo.TablesWithoutRLS(context.Background())
		require.NoError(t, err)
		assert.Empty(t, unprotected)
	})

	t.Run("unprotected tables reported", func(t *testing.T) {
		dbMock.ExpectQuery("SELECT c.relname").
			WillReturnRows(sqlmock.NewRows([]string{"relname"}).
				AddRow("users").
				AddRow("oauth_states"))

		unprotected, err := repo.TablesWithoutRLS(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"users", "oauth_states"}, unprotected)
	})

	require.NoError(t, dbMock.ExpectationsWereMet())
}
