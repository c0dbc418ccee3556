// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package sec

import "errors"

// # Capabilities

// Capability is a named boolean permission derived from a [Role].
//
// Capabilities are never persisted. They are recomputed from the static
// role table on every resolution, so a role change takes effect on the
// next token refresh without any data migration.
type Capability string

const (
	// CapManageRoles allows granting and revoking role assignments.
	CapManageRoles Capability = "manage_roles"

	// CapEditSettings allows editing store-wide configuration documents.
	CapEditSettings Capability = "edit_settings"

	// CapEditProducts allows creating, updating, and retiring catalog entries.
	CapEditProducts Capability = "edit_products"

	// CapManageOrders allows viewing and updating customer orders.
	CapManageOrders Capability = "manage_orders"

	// CapManageVIP allows editing membership tiers and pinning customer tiers.
	CapManageVIP Capability = "manage_vip"

	// CapModerateReviews allows hiding or removing customer reviews.
	CapModerateReviews Capability = "moderate_reviews"

	// CapViewDashboard allows read access to the admin dashboard.
	CapViewDashboard Capability = "view_dashboard"
)

// ErrUnknownCapability signals a lookup with a capability name that is not
// part of the registry. This is a programmer error, not user input — it must
// never be silently treated as "false".
var ErrUnknownCapability = errors.New("sec: unknown capability")

// PermissionSet maps every known capability to whether it is granted.
type PermissionSet map[Capability]bool

// roleGrants lists the capabilities each role adds ON TOP of the role below
// it. Building the table cumulatively guarantees the superset invariant:
// admin ⊇ store_manager ⊇ moderator ⊇ user (empty).
var roleGrants = map[Role][]Capability{
	RoleModerator:    {CapModerateReviews, CapViewDashboard},
	RoleStoreManager: {CapEditProducts, CapManageOrders, CapManageVIP},
	RoleAdmin:        {CapEditSettings, CapManageRoles},
}

// ladder is the privilege order used to accumulate grants, lowest first.
var ladder = []Role{RoleUser, RoleModerator, RoleStoreManager, RoleAdmin}

// PermissionsFor returns the derived permission set for a role.
//
// The returned map is a fresh copy: callers may not mutate shared state.
// An unknown role yields the all-false set (same as [RoleUser]).
func PermissionsFor(role Role) PermissionSet {
	set := make(PermissionSet, len(capabilityRegistry()))
	for _, capability := range capabilityRegistry() {
		set[capability] = false
	}

	for _, rung := range ladder {
		for _, capability := range roleGrants[rung] {
			set[capability] = true
		}
		if rung == role {
			return set
		}
	}

	// Role not on the ladder: nothing was granted before falling through.
	return PermissionsFor(RoleUser)
}

// Has reports whether the set grants the named capability.
//
// Unlike a raw map read, querying a capability outside the registry returns
// [ErrUnknownCapability] instead of a zero value.
func (set PermissionSet) Has(capability Capability) (bool, error) {
	granted, known := set[capability]
	if !known {
		return false, ErrUnknownCapability
	}
	return granted, nil
}

// Granted returns the capabilities enabled in the set, for transport payloads.
func (set PermissionSet) Granted() []Capability {
	var enabled []Capability
	for _, capability := range capabilityRegistry() {
		if set[capability] {
			enabled = append(enabled, capability)
		}
	}
	return enabled
}

// capabilityRegistry returns all known capabilities in a stable order.
func capabilityRegistry() []Capability {
	return []Capability{
		CapManageRoles,
		CapEditSettings,
		CapEditProducts,
		CapManageOrders,
		CapManageVIP,
		CapModerateReviews,
		CapViewDashboard,
	}
}
