// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package access

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/dberr"
	"github.com/nabtahq/nabta/internal/platform/sec"
)

// PostgresRoleRepository implements the RoleRepository interface using pgx.
type PostgresRoleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository creates a new PostgreSQL implementation of the RoleRepository.
func NewRoleRepository(pool *pgxpool.Pool) *PostgresRoleRepository {
	return &PostgresRoleRepository{pool: pool}
}

// ListByAccount returns every assignment belonging to the account, newest first.
//
// # Parameters
//   - ctx: Context for the database operation.
//   - accountID: The account whose assignments to list.
func (repository *PostgresRoleRepository) ListByAccount(ctx context.Context, accountID string) ([]Assignment, error) {
	const query = `
		SELECT accountid, role, grantedby, createdat
		FROM users.roleassignment
		WHERE accountid = $1
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_list_by_account_failed: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// AnyExists reports whether the role store holds any assignment at all.
func (repository *PostgresRoleRepository) AnyExists(ctx context.Context) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users.roleassignment)`

	var exists bool
	if err := repository.pool.QueryRow(ctx, query).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_role_repo_any_exists_failed: %w", err)
	}

	return exists, nil
}

// InsertIfAbsent inserts the assignment unless the (account, role) pair exists.
//
// # Concurrency
//
// The primary key on (accountid, role) is the real guard against the
// bootstrap race: ON CONFLICT DO NOTHING turns a lost race into a zero-row
// insert instead of an error, and the caller reads that as inserted=false.
func (repository *PostgresRoleRepository) InsertIfAbsent(ctx context.Context, assignment Assignment) (bool, error) {
	const query = `
		INSERT INTO users.roleassignment (accountid, role, grantedby, createdat)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (accountid, role) DO NOTHING`

	tag, err := repository.pool.Exec(ctx, query,
		assignment.AccountID,
		assignment.Role,
		nilIfEmpty(assignment.GrantedBy),
		assignment.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("postgres_role_repo_insert_if_absent_failed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Grant persists an explicit role grant.
//
// # Returns
//
// Returns [apperr.Conflict] if the account already holds the role.
func (repository *PostgresRoleRepository) Grant(ctx context.Context, assignment Assignment) error {
	const query = `
		INSERT INTO users.roleassignment (accountid, role, grantedby, createdat)
		VALUES ($1, $2, $3, $4)`

	_, err := repository.pool.Exec(ctx, query,
		assignment.AccountID,
		assignment.Role,
		nilIfEmpty(assignment.GrantedBy),
		assignment.CreatedAt,
	)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Account already holds this role")
		}
		return fmt.Errorf("postgres_role_repo_grant_failed: %w", err)
	}

	return nil
}

// Revoke removes the (account, role) pair.
//
// # Returns
//
// Returns [apperr.NotFound] if the account does not hold the role.
func (repository *PostgresRoleRepository) Revoke(ctx context.Context, accountID string, role sec.Role) error {
	const query = `
		DELETE FROM users.roleassignment
		WHERE accountid = $1 AND role = $2`

	tag, err := repository.pool.Exec(ctx, query, accountID, role)
	if err != nil {
		return fmt.Errorf("postgres_role_repo_revoke_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Role assignment")
	}

	return nil
}

// List returns all assignments in the store, newest first.
func (repository *PostgresRoleRepository) List(ctx context.Context) ([]Assignment, error) {
	const query = `
		SELECT accountid, role, grantedby, createdat
		FROM users.roleassignment
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_list_failed: %w", err)
	}
	defer rows.Close()

	return scanAssignments(rows)
}

// scanAssignments collects assignment rows, mapping NULL grantedby to "".
func scanAssignments(rows pgx.Rows) ([]Assignment, error) {
	assignments := make([]Assignment, 0)

	for rows.Next() {
		var assignment Assignment
		var grantedBy *string

		if err := rows.Scan(&assignment.AccountID, &assignment.Role, &grantedBy, &assignment.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres_role_repo_scan_failed: %w", err)
		}

		if grantedBy != nil {
			assignment.GrantedBy = *grantedBy
		}

		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_role_repo_rows_failed: %w", err)
	}

	return assignments, nil
}

// nilIfEmpty maps "" to NULL for optional text columns.
func nilIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// PostgresAccountDirectory implements the AccountDirectory interface using pgx.
//
// It reads the users.account table directly rather than going through the
// users domain, because bootstrap must not depend on domain services that
// themselves depend on role resolution.
type PostgresAccountDirectory struct {
	pool *pgxpool.Pool
}

// NewAccountDirectory creates a new PostgreSQL implementation of the AccountDirectory.
func NewAccountDirectory(pool *pgxpool.Pool) *PostgresAccountDirectory {
	return &PostgresAccountDirectory{pool: pool}
}

// EarliestAccountID returns the ID of the oldest account by creation timestamp.
//
// # Returns
//
// Returns [apperr.NotFound] if no accounts exist yet.
func (directory *PostgresAccountDirectory) EarliestAccountID(ctx context.Context) (string, error) {
	const query = `
		SELECT id
		FROM users.account
		WHERE deletedat IS NULL
		ORDER BY createdat ASC
		LIMIT 1`

	var accountID string
	if err := directory.pool.QueryRow(ctx, query).Scan(&accountID); err != nil {
		return "", dberr.Wrap(err, "earliest_account")
	}

	return accountID, nil
}
