// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package auth

import (
	"context"
	"time"
)

// # Account Data Access

// AccountRepository defines the data access contract for customer accounts.
type AccountRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Account: Hydrated entity
		  - error: [apperr.NotFound] or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*Account, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Account: Hydrated entity
		  - error: [apperr.NotFound] or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*Account, error)

	/*
		Create persists a brand-new customer account.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: [apperr.Conflict] on a duplicate email, or persistence failures
	*/
	Create(context context.Context, account *Account) error

	/*
		Update persists changes to mutable profile fields.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, account *Account) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, accountID, newHash string) error

	/*
		TouchLastLogin stamps the account's most recent successful login.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - error: Persistence failures
	*/
	TouchLastLogin(context context.Context, accountID string) error

	/*
		SoftDelete marks the account as deleted without removing the row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	SoftDelete(context context.Context, id string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	/*
		Create persists a new tracking session for an authenticated login.

		Parameters:
		  - context: context.Context
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, session *Session) error

	/*
		FindByTokenHash returns the live session matching the token hash.
		Revoked and expired sessions are never returned.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated entity
		  - error: [apperr.NotFound] or database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)

	/*
		ListActive returns the account's live sessions, newest first.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - []Session: Active sessions
		  - error: Retrieval failures
	*/
	ListActive(context context.Context, accountID string) ([]Session, error)

	/*
		Revoke marks a specific session as permanently invalidated.

		Parameters:
		  - context: context.Context
		  - sessionID: string

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, sessionID string) error

	/*
		RevokeAll revokes every active session belonging to the accountID.

		Parameters:
		  - context: context.Context
		  - accountID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeAll(context context.Context, accountID string) error

	/*
		RevokeOthers revokes all of the account's sessions except the current one.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - currentSessionID: string

		Returns:
		  - error: Persistence failures
	*/
	RevokeOthers(context context.Context, accountID, currentSessionID string) error

	/*
		DeleteExpired physically removes sessions whose ExpiresAt is in the past.

		Parameters:
		  - context: context.Context

		Returns:
		  - error: Persistence failures
	*/
	DeleteExpired(context context.Context) error
}

// # Volatile Data Access

// ResetTokenRepository defines the contract for storing volatile password reset tokens.
type ResetTokenRepository interface {

	/*
		Set stores a reset token associated with an accountID for a limited duration.

		Parameters:
		  - context: context.Context
		  - token: string
		  - accountID: string
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Set(context context.Context, token string, accountID string, ttl time.Duration) error

	/*
		Get retrieves the accountID associated with a given reset token.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: AccountID
		  - error: [apperr.NotFound] or retrieval failures
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a reset token after successful use.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error
}
