// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package access implements role resolution and the first-admin bootstrap.

Every staff-facing decision in the storefront starts here: given an
authenticated account, the resolver produces the account's effective role
and its derived capability set. The first actor ever to authenticate is
granted admin so a fresh deployment is never locked out of its own
dashboard.

# Failure Posture

The resolver fails closed. Any role-store failure resolves the actor as a
plain customer and surfaces a [*StoreError] for diagnostics; it never
guesses at elevated privilege.
*/
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nabtahq/nabta/internal/platform/apperr"
	"github.com/nabtahq/nabta/internal/platform/sec"
)

// StoreError reports that the role store could not be read or written.
// Callers treat the actor as a plain customer when they see one.
type StoreError struct {
	// Op names the store operation that failed, e.g. "list_assignments".
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("access store: %s: %v", e.Op, e.Err)
}

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *StoreError) Unwrap() error { return e.Err }

// Resolution is the outcome of a role resolution pass.
type Resolution struct {
	// Role is the effective role, the highest-privilege assignment found
	// or [sec.RoleUser] when none exists.
	Role sec.Role `json:"role"`

	// Permissions is the capability set derived from Role. Recomputed on
	// every resolution, never persisted.
	Permissions sec.PermissionSet `json:"permissions"`

	// Bootstrapped is true when this resolution performed the one-time
	// first-admin insert.
	Bootstrapped bool `json:"bootstrapped,omitempty"`
}

// customerResolution is the fail-closed default: plain customer, no grants.
func customerResolution() Resolution {
	return Resolution{
		Role:        sec.RoleUser,
		Permissions: sec.PermissionsFor(sec.RoleUser),
	}
}

// Resolver resolves roles and performs the first-admin bootstrap.
//
// # Review Process
//
// This service gates every privileged operation in the API. Changes to the
// bootstrap conditions must be reviewed by the security team.
type Resolver struct {
	roles     RoleRepository
	directory AccountDirectory
	logger    *slog.Logger
}

// NewResolver constructs a [Resolver] with its storage dependencies.
func NewResolver(roles RoleRepository, directory AccountDirectory, logger *slog.Logger) *Resolver {
	return &Resolver{
		roles:     roles,
		directory: directory,
		logger:    logger,
	}
}

// Resolve produces the effective role and capability set for an actor.
//
// # Parameters
//   - context: Context for the store round-trips.
//   - actorID: The authenticated account ID. An empty ID means there is no
//     session; the actor resolves as a plain customer with no writes.
//
// # Returns
//   - A [Resolution] holding the role, its capability set, and whether this
//     pass performed the bootstrap insert.
//   - A [*StoreError] when the role store failed; the returned Resolution is
//     then the fail-closed customer default.
//
// # Business Rules
//   - Existing assignments win: the highest-privilege one is the role, and
//     no write happens.
//   - An empty role store makes this actor the first ever: they receive the
//     one-time admin bootstrap.
//   - A non-empty store still bootstraps the account that was created first
//     (the store owner may sign in after staff they invited out-of-band).
//   - A lost bootstrap race resolves as customer for this pass only; the
//     next call sees the store consistently. Races are accepted, not
//     retried, to avoid duplicate-admin storms under contention.
func (resolver *Resolver) Resolve(context context.Context, actorID string) (Resolution, error) {
	// ── 1. No Session ─────────────────────────────────────────────────────

	if actorID == "" {
		return customerResolution(), nil
	}

	// ── 2. Existing Assignments ───────────────────────────────────────────

	assignments, err := resolver.roles.ListByAccount(context, actorID)
	if err != nil {
		return customerResolution(), &StoreError{Op: "list_assignments", Err: err}
	}

	if len(assignments) > 0 {
		role := highestRole(assignments)
		return Resolution{Role: role, Permissions: sec.PermissionsFor(role)}, nil
	}

	// ── 3. Bootstrap Checks ───────────────────────────────────────────────

	anyExists, err := resolver.roles.AnyExists(context)
	if err != nil {
		return customerResolution(), &StoreError{Op: "any_exists", Err: err}
	}

	if !anyExists {
		// First actor system-wide.
		return resolver.bootstrap(context, actorID)
	}

	// The store has other assignments. Only the earliest-created account
	// (the store owner) may still claim the bootstrap.
	earliestID, err := resolver.directory.EarliestAccountID(context)
	if err != nil {
		if isNotFound(err) {
			return customerResolution(), nil
		}
		return customerResolution(), &StoreError{Op: "earliest_account", Err: err}
	}

	if earliestID != actorID {
		return customerResolution(), nil
	}

	return resolver.bootstrap(context, actorID)
}

// bootstrap attempts the one-time admin insert for the actor.
//
// A conflict means another process inserted first; the actor resolves as a
// plain customer for this pass without a re-read.
func (resolver *Resolver) bootstrap(context context.Context, actorID string) (Resolution, error) {
	assignment := Assignment{
		AccountID: actorID,
		Role:      sec.RoleAdmin,
		CreatedAt: time.Now().UTC(),
	}

	inserted, err := resolver.roles.InsertIfAbsent(context, assignment)
	if err != nil {
		return customerResolution(), &StoreError{Op: "bootstrap_insert", Err: err}
	}

	if !inserted {
		// Lost the race.
		resolver.logger.WarnContext(context, "admin_bootstrap_race_lost",
			slog.String("account_id", actorID),
		)
		return customerResolution(), nil
	}

	resolver.logger.InfoContext(context, "admin_bootstrap_completed",
		slog.String("account_id", actorID),
	)

	return Resolution{
		Role:         sec.RoleAdmin,
		Permissions:  sec.PermissionsFor(sec.RoleAdmin),
		Bootstrapped: true,
	}, nil
}

// highestRole returns the highest-privilege role among the assignments.
func highestRole(assignments []Assignment) sec.Role {
	effective := sec.RoleUser
	for _, assignment := range assignments {
		if assignment.Role.AtLeast(effective) {
			effective = assignment.Role
		}
	}
	return effective
}

// # Administrative Grants

// GrantInput holds the data for an explicit role grant.
type GrantInput struct {
	AccountID string
	Role      sec.Role
	GrantedBy string
}

// Grant persists an explicit role grant made by an administrator.
//
// # Business Rules
//   - Only staff roles may be granted; `user` is the implicit default and
//     never stored.
//   - Granting a role the account already holds returns [apperr.Conflict].
func (resolver *Resolver) Grant(context context.Context, input GrantInput) (Assignment, error) {
	if !input.Role.Valid() || input.Role == sec.RoleUser {
		return Assignment{}, apperr.ValidationError("Role must be one of: admin, store_manager, moderator")
	}

	assignment := Assignment{
		AccountID: input.AccountID,
		Role:      input.Role,
		GrantedBy: input.GrantedBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := resolver.roles.Grant(context, assignment); err != nil {
		return Assignment{}, err
	}

	resolver.logger.InfoContext(context, "role_granted",
		slog.String("account_id", input.AccountID),
		slog.String("role", string(input.Role)),
		slog.String("granted_by", input.GrantedBy),
	)

	return assignment, nil
}

// Revoke removes an explicit role grant.
//
// # Business Rules
//   - Administrators cannot revoke their own admin role; another admin must
//     do it. This keeps the store from locking itself out.
func (resolver *Resolver) Revoke(context context.Context, accountID string, role sec.Role, revokedBy string) error {
	if !role.Valid() || role == sec.RoleUser {
		return apperr.ValidationError("Role must be one of: admin, store_manager, moderator")
	}

	if role == sec.RoleAdmin && accountID == revokedBy {
		return apperr.Forbidden("Administrators cannot revoke their own admin role")
	}

	if err := resolver.roles.Revoke(context, accountID, role); err != nil {
		return err
	}

	resolver.logger.InfoContext(context, "role_revoked",
		slog.String("account_id", accountID),
		slog.String("role", string(role)),
		slog.String("revoked_by", revokedBy),
	)

	return nil
}

// ListAssignments returns every assignment in the store for the dashboard.
func (resolver *Resolver) ListAssignments(context context.Context) ([]Assignment, error) {
	assignments, err := resolver.roles.List(context)
	if err != nil {
		return nil, &StoreError{Op: "list_all", Err: err}
	}
	return assignments, nil
}

// isNotFound reports whether err is the apperr NOT_FOUND kind.
func isNotFound(err error) bool {
	var appError *apperr.AppError
	if errors.As(err, &appError) {
		return appError.Code == "NOT_FOUND"
	}
	return false
}
