// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// The set is closed: resolution only ever produces one of the four values
// below, and storage rejects anything else.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Can manage the catalog, orders, and the VIP program
	RoleStoreManager Role = "store_manager"

	// Can moderate reviews and community content
	RoleModerator Role = "moderator"

	// Default role for standard registered customers
	RoleUser Role = "user"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-40) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 40
	case RoleStoreManager:
		return 30
	case RoleModerator:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}
