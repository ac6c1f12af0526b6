package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTx_DefaultsToPool(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Same(t, db, GetTx(context.Background(), db))
}

func TestGetTx_PinnedConnection(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	ctx := WithConn(context.Background(), conn)
	assert.Same(t, conn, GetTx(ctx, db))
}

func TestGetTx_TransactionWinsOverPinnedConnection(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	conn, err := db.Conn(context.Background())
	require.NoError(t, err)
	defer conn.Close()

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	ctx := WithConn(context.Background(), conn)
	ctx = context.WithValue(ctx, txKey{}, tx)
	assert.Same(t, tx, GetTx(ctx, db))
}
