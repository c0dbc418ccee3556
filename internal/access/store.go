// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package access

import (
	"context"
	"time"

	"github.com/nabtahq/nabta/internal/platform/sec"
)

// Assignment is one persisted (account, role) pair.
//
// An account may hold several assignments; the effective role is always the
// highest-privilege one. Rows are created by bootstrap or an explicit grant
// and removed only by an explicit revoke.
type Assignment struct {
	AccountID string    `json:"account_id"`
	Role      sec.Role  `json:"role"`
	GrantedBy string    `json:"granted_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleRepository defines the data access contract for role assignments.
//
// # Review Process
//
// This interface is placed in a separate file from resolver.go so contract
// changes and resolution-logic changes can be reviewed independently.
//
// # Implementations
//
// The canonical implementation for Nabta is PostgreSQL (store_postgres.go).
type RoleRepository interface {
	// ListByAccount returns every assignment belonging to the account,
	// newest first. An account with no assignments returns an empty slice,
	// not an error.
	ListByAccount(ctx context.Context, accountID string) ([]Assignment, error)

	// AnyExists reports whether the role store holds any assignment at all,
	// for any account. Used only by the bootstrap emptiness check.
	AnyExists(ctx context.Context) (bool, error)

	// InsertIfAbsent inserts the assignment unless the (account, role) pair
	// already exists. It reports inserted=false on a primary-key conflict
	// instead of an error, so a lost bootstrap race is distinguishable from
	// a store failure.
	InsertIfAbsent(ctx context.Context, assignment Assignment) (inserted bool, err error)

	// Grant persists an explicit role grant made by an administrator.
	//
	// Returns [apperr.Conflict] if the account already holds the role.
	Grant(ctx context.Context, assignment Assignment) error

	// Revoke removes the (account, role) pair.
	//
	// Returns [apperr.NotFound] if the account does not hold the role.
	Revoke(ctx context.Context, accountID string, role sec.Role) error

	// List returns all assignments in the store, newest first.
	// Used by the admin dashboard's staff listing.
	List(ctx context.Context) ([]Assignment, error)
}

// AccountDirectory answers the one question bootstrap needs about accounts:
// which identity was created first. It is deliberately narrow so the access
// package does not depend on the users domain.
type AccountDirectory interface {
	// EarliestAccountID returns the ID of the oldest account by creation
	// timestamp.
	//
	// Returns [apperr.NotFound] if no accounts exist yet.
	EarliestAccountID(ctx context.Context) (string, error)
}
