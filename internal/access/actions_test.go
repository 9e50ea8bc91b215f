// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pixelhaven/pixelhaven/internal/access"
)

func TestPermittedActions(t *testing.T) {
	t.Run("empty set permits nothing", func(t *testing.T) {
		assert.Empty(t, access.PermittedActions(0, access.Target{}))
	})

	t.Run("ban requires target not self and not banned", func(t *testing.T) {
		caps := access.NewSet(access.CapBanUsers)

		assert.Contains(t, access.PermittedActions(caps, access.Target{}), access.ActionBan)
		assert.NotContains(t, access.PermittedActions(caps, access.Target{IsSelf: true}), access.ActionBan)
		assert.NotContains(t, access.PermittedActions(caps, access.Target{Banned: true}), access.ActionBan)
	})

	t.Run("unban only offered for banned targets", func(t *testing.T) {
		caps := access.NewSet(access.CapUnbanUsers)

		assert.Contains(t, access.PermittedActions(caps, access.Target{Banned: true}), access.ActionUnban)
		assert.NotContains(t, access.PermittedActions(caps, access.Target{}), access.ActionUnban)
	})

	t.Run("currency management is a union gate", func(t *testing.T) {
		give := access.NewSet(access.CapGiveCurrency)
		take := access.NewSet(access.CapTakeCurrency)
		other := access.NewSet(access.CapBanUsers)

		assert.Contains(t, access.PermittedActions(give, access.Target{}), access.ActionManageCurrency)
		assert.Contains(t, access.PermittedActions(take, access.Target{}), access.ActionManageCurrency)
		assert.NotContains(t, access.PermittedActions(other, access.Target{}), access.ActionManageCurrency)
	})

	t.Run("staff delete never offered against self", func(t *testing.T) {
		// Even a full capability set cannot surface self-deletion.
		caps := access.FullSet()
		actions := access.PermittedActions(caps, access.Target{IsSelf: true, IsStaff: true})
		assert.NotContains(t, actions, access.ActionDeleteStaff)

		actions = access.PermittedActions(caps, access.Target{IsStaff: true})
		assert.Contains(t, actions, access.ActionDeleteStaff)
	})

	t.Run("staff actions require a staff target", func(t *testing.T) {
		caps := access.NewSet(access.CapManageStaff)
		actions := access.PermittedActions(caps, access.Target{})
		assert.NotContains(t, actions, access.ActionEditPermissions)
		assert.NotContains(t, actions, access.ActionDeleteStaff)
	})

	t.Run("one flag gates exactly its own actions", func(t *testing.T) {
		// Flags that gate a single action, checked against a plain target.
		singles := map[access.Capability]access.Action{
			access.CapViewUserEmails:     access.ActionViewEmail,
			access.CapEditUserInfo:       access.ActionEditUserInfo,
			access.CapResetUserPasswords: access.ActionResetPassword,
			access.CapBanUsers:           access.ActionBan,
		}
		for cap, want := range singles {
			actions := access.PermittedActions(access.NewSet(cap), access.Target{})
			assert.Equal(t, []access.Action{want}, actions, "capability %s", cap)
		}
	})
}
