// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package account handles customer profile management and preferences.

It lets a signed-in customer view and update their identity data, switch
the storefront language between English and Arabic, and close their
account.

# Architecture

  - Domain: This package depends on the auth package for the Account
    entity; the repositories here are narrow views over the auth
    storage implementations.
  - Security: Account deletion revokes every active session.
*/
package account

import (
	"context"

	"github.com/nabtahq/nabta/internal/users/auth"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for customer profiles.
//
// Satisfied by [auth.PostgresAccountRepository].
type AccountRepository interface {
	/*
		FindByID retrieves an account record by its unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *auth.Account: Loaded account entity
		  - error: [apperr.NotFound] or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.Account, error)

	/*
		Update modifies the mutable profile fields of an existing account.

		Parameters:
		  - context: context.Context
		  - account: *auth.Account (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, account *auth.Account) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}

// SessionRevoker is the slice of session storage deletion needs.
//
// Satisfied by [auth.PostgresSessionRepository].
type SessionRevoker interface {
	// RevokeAll terminates every session for an account.
	RevokeAll(context context.Context, accountID string) error
}
