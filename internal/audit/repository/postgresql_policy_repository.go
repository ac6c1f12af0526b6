// Package repository implements catalog introspection for the security assessment.
package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/isohub/securitycore/internal/database"
	apperrors "github.com/isohub/securitycore/internal/errors"
)

// Tables that carry tenant-scoped data and must have row-level security.
var tenantTables = []string{"users", "oauth_states"}

// PostgreSQLPolicyRepository inspects the pg_class catalog for row-level
// security coverage. Read-only.
type PostgreSQLPolicyRepository struct {
	db *sql.DB
}

// NewPostgreSQLPolicyRepository creates a new PostgreSQL policy repository.
func NewPostgreSQLPolicyRepository(db *sql.DB) *PostgreSQLPolicyRepository {
	return &PostgreSQLPolicyRepository{db: db}
}

// TablesWithoutRLS returns tenant tables that exist but have row-level
// security disabled. Tables missing entirely are not reported; the schema
// migration check owns that concern.
func (p *PostgreSQLPolicyRepository) TablesWithoutRLS(ctx context.Context) ([]string, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT c.relname
			  FROM pg_class c
			  JOIN pg_namespace n ON n.oid = c.relnamespace
			  WHERE n.nspname = 'public'
				AND c.relname = ANY($1)
				AND NOT c.relrowsecurity`

	rows, err := querier.QueryContext(ctx, query, pq.Array(tenantTables))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to inspect row-level security coverage")
	}
	defer rows.Close()

	var unprotected []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan table name")
		}
		unprotected = append(unprotected, name)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate table names")
	}
	return unprotected, nil
}
