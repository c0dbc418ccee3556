// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/dberr"
)

// # Account Repository

const accountColumns = `
	id, email, passwordhash, displayname, phone, preferredlanguage,
	isactive, lastloginat, createdat, updatedat`

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a PostgreSQL implementation of [AccountRepository].
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
Create persists a new account record into the users.account table.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: [apperr.Conflict] on a duplicate email, or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, displayname, phone, preferredlanguage,
			isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
		account.Phone,
		account.PreferredLanguage,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves an account by its unique email address.

Description: Lookup on the account table, filtering out soft-deleted rows.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *Account: Hydrated entity
  - error: [apperr.NotFound] or database errors
*/
func (repository *PostgresAccountRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE email = $1 AND deletedat IS NULL`

	return repository.findOne(context, query, email)
}

/*
FindByID retrieves an account by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Account: Hydrated entity
  - error: [apperr.NotFound] or execution errors
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1 AND deletedat IS NULL`

	return repository.findOne(context, query, id)
}

// findOne runs a single-row account query and maps pgx.ErrNoRows.
func (repository *PostgresAccountRepository) findOne(context context.Context, query string, argument any) (*Account, error) {
	account := &Account{}
	err := repository.pool.QueryRow(context, query, argument).Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.DisplayName,
		&account.Phone,
		&account.PreferredLanguage,
		&account.IsActive,
		&account.LastLoginAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return account, nil
}

/*
Update persists changes to an account's mutable profile fields.

Parameters:
  - context: context.Context
  - account: *Account

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, account *Account) error {
	const query = `
		UPDATE users.account
		SET displayname = $2, phone = $3, preferredlanguage = $4, updatedat = $5
		WHERE id = $1 AND deletedat IS NULL`

	account.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.DisplayName,
		account.Phone,
		account.PreferredLanguage,
		account.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific account.

Parameters:
  - context: context.Context
  - accountID: string
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) UpdatePassword(context context.Context, accountID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1 AND deletedat IS NULL`

	_, err := repository.pool.Exec(context, query, accountID, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_password_failed: %w", err)
	}

	return nil
}

// TouchLastLogin stamps the account's most recent successful login.
func (repository *PostgresAccountRepository) TouchLastLogin(context context.Context, accountID string) error {
	const query = "UPDATE users.account SET lastloginat = $2 WHERE id = $1"
	_, err := repository.pool.Exec(context, query, accountID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_touch_login_failed: %w", err)
	}
	return nil
}

/*
SoftDelete marks an account as deleted using its ID.

Description: Retention-friendly deletion by setting deletedat.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Side-effect failures
*/
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	const query = "UPDATE users.account SET deletedat = $2, isactive = FALSE WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_soft_delete_failed: %w", err)
	}
	return nil
}

// # Session Repository

// PostgresSessionRepository implements [SessionRepository].
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a PostgreSQL implementation of [SessionRepository].
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

/*
Create persists a new session record into the users.session table.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (
			id, userid, tokenhash, devicename, ipaddress, useragent,
			isrevoked, expiresat, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.AccountID,
		session.TokenHash,
		session.DeviceName,
		session.IPAddress,
		session.UserAgent,
		session.IsRevoked,
		session.ExpiresAt,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByTokenHash retrieves an active session by its unique token hash.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated session metadata
  - error: [apperr.NotFound] or execution errors
*/
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	const query = `
		SELECT id, userid, tokenhash, devicename, ipaddress, useragent,
		       isrevoked, expiresat, revokedat, createdat
		FROM users.session
		WHERE tokenhash = $1 AND isrevoked = FALSE AND expiresat > NOW()`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, tokenHash).Scan(
		&session.ID,
		&session.AccountID,
		&session.TokenHash,
		&session.DeviceName,
		&session.IPAddress,
		&session.UserAgent,
		&session.IsRevoked,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("postgres_session_repo_find_failed: %w", err)
	}

	return session, nil
}

/*
ListActive returns the account's live sessions, newest first.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - []Session: Active sessions
  - error: Retrieval failures
*/
func (repository *PostgresSessionRepository) ListActive(context context.Context, accountID string) ([]Session, error) {
	const query = `
		SELECT id, userid, tokenhash, devicename, ipaddress, useragent,
		       isrevoked, expiresat, revokedat, createdat
		FROM users.session
		WHERE userid = $1 AND isrevoked = FALSE AND expiresat > NOW()
		ORDER BY createdat DESC`

	rows, err := repository.pool.Query(context, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("postgres_session_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(
			&session.ID,
			&session.AccountID,
			&session.TokenHash,
			&session.DeviceName,
			&session.IPAddress,
			&session.UserAgent,
			&session.IsRevoked,
			&session.ExpiresAt,
			&session.RevokedAt,
			&session.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_session_repo_scan_failed: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

/*
Revoke marks a specific session as revoked.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Revocation failures
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE, revokedat = NOW() WHERE id = $1"
	_, err := repository.pool.Exec(context, query, sessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_failed: %w", err)
	}
	return nil
}

/*
RevokeAll marks all active sessions for an account as revoked.

Parameters:
  - context: context.Context
  - accountID: string

Returns:
  - error: Batch revocation failures
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, accountID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE, revokedat = NOW() WHERE userid = $1 AND isrevoked = FALSE"
	_, err := repository.pool.Exec(context, query, accountID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_all_failed: %w", err)
	}
	return nil
}

/*
RevokeOthers marks all active sessions for an account as revoked, except one.

Parameters:
  - context: context.Context
  - accountID: string
  - currentSessionID: string

Returns:
  - error: Filtered revocation failures
*/
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, accountID, currentSessionID string) error {
	const query = "UPDATE users.session SET isrevoked = TRUE, revokedat = NOW() WHERE userid = $1 AND id != $2 AND isrevoked = FALSE"
	_, err := repository.pool.Exec(context, query, accountID, currentSessionID)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_revoke_others_failed: %w", err)
	}
	return nil
}

/*
DeleteExpired permanently removes all sessions past their expiration.

Description: Cleanup task to reclaim storage from stale sessions.

Parameters:
  - context: context.Context

Returns:
  - error: Cleanup failures
*/
func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) error {
	const query = "DELETE FROM users.session WHERE expiresat <= NOW()"
	_, err := repository.pool.Exec(context, query)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_delete_expired_failed: %w", err)
	}
	return nil
}
