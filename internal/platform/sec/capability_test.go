// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabtahq/nabta/internal/platform/sec"
)

/*
TestPermissionsFor_SupersetChain verifies that every role's permission set
contains the full permission set of the role below it, and that the base
customer role grants nothing.
*/
func TestPermissionsFor_SupersetChain(t *testing.T) {
	chain := []sec.Role{sec.RoleUser, sec.RoleModerator, sec.RoleStoreManager, sec.RoleAdmin}

	for i := 1; i < len(chain); i++ {
		lower := sec.PermissionsFor(chain[i-1])
		higher := sec.PermissionsFor(chain[i])

		for capability, granted := range lower {
			if granted {
				assert.True(t, higher[capability],
					"%s must inherit %s from %s", chain[i], capability, chain[i-1])
			}
		}
	}

	// The base role grants nothing at all.
	assert.Empty(t, sec.PermissionsFor(sec.RoleUser).Granted())

	// The admin role grants everything in the registry.
	admin := sec.PermissionsFor(sec.RoleAdmin)
	for capability, granted := range admin {
		assert.True(t, granted, "admin must hold %s", capability)
	}
}

/*
TestPermissionsFor_UnknownRole falls back to the empty customer set.
*/
func TestPermissionsFor_UnknownRole(t *testing.T) {
	set := sec.PermissionsFor(sec.Role("superuser"))
	assert.Empty(t, set.Granted())
}

/*
TestPermissionSet_Has distinguishes denied capabilities from unknown names.
*/
func TestPermissionSet_Has(t *testing.T) {
	moderator := sec.PermissionsFor(sec.RoleModerator)

	granted, err := moderator.Has(sec.CapModerateReviews)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = moderator.Has(sec.CapManageRoles)
	require.NoError(t, err)
	assert.False(t, granted)

	// A typo'd capability is a programmer error, never a silent false.
	_, err = moderator.Has(sec.Capability("manage_rolez"))
	assert.ErrorIs(t, err, sec.ErrUnknownCapability)
}

/*
TestPermissionsFor_Isolation ensures callers cannot poison the shared table.
*/
func TestPermissionsFor_Isolation(t *testing.T) {
	first := sec.PermissionsFor(sec.RoleUser)
	first[sec.CapManageRoles] = true

	second := sec.PermissionsFor(sec.RoleUser)
	granted, err := second.Has(sec.CapManageRoles)
	require.NoError(t, err)
	assert.False(t, granted)
}

/*
TestRole_AtLeast covers the privilege ordering.
*/
func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.Role
		target   sec.Role
		expected bool
	}{
		{"admin_over_manager", sec.RoleAdmin, sec.RoleStoreManager, true},
		{"manager_over_moderator", sec.RoleStoreManager, sec.RoleModerator, true},
		{"moderator_under_manager", sec.RoleModerator, sec.RoleStoreManager, false},
		{"user_meets_user", sec.RoleUser, sec.RoleUser, true},
		{"unknown_below_user", sec.Role("ghost"), sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.AtLeast(tt.target))
		})
	}
}
