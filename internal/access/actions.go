// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package access

// Action names a staff operation the presentation layer may offer against a
// target user. The list returned by PermittedActions drives which controls
// are rendered; the handlers re-check the same gates on submission.
type Action string

// Staff actions surfaced on the admin user page.
const (
	ActionViewEmail       Action = "view_email"
	ActionEditUserInfo    Action = "edit_user_info"
	ActionResetPassword   Action = "reset_password"
	ActionBan             Action = "ban"
	ActionUnban           Action = "unban"
	ActionManageCurrency  Action = "manage_currency"
	ActionManageItems     Action = "manage_items"
	ActionEditPermissions Action = "edit_permissions"
	ActionDeleteStaff     Action = "delete_staff"
)

// Target describes the state of the user a staff action would apply to.
type Target struct {
	IsSelf  bool // the actor's own record
	IsStaff bool // target holds a staff capability record
	Banned  bool
}

// actionRule gates one action on a capability requirement plus target state.
type actionRule struct {
	action  Action
	require Requirement
	allowed func(Target) bool
}

var actionRules = []actionRule{
	{ActionViewEmail, Require(CapViewUserEmails), nil},
	{ActionEditUserInfo, Require(CapEditUserInfo), nil},
	{ActionResetPassword, Require(CapResetUserPasswords), nil},
	// Self-protection: destructive account actions never target the actor's
	// own record. Applied to ban as well as delete; see DESIGN.md.
	{ActionBan, Require(CapBanUsers), func(t Target) bool { return !t.IsSelf && !t.Banned }},
	{ActionUnban, Require(CapUnbanUsers), func(t Target) bool { return t.Banned }},
	// Union gates: holding either direction of the grant/revoke pair is
	// enough to surface the management control.
	{ActionManageCurrency, RequireAny(CapGiveCurrency, CapTakeCurrency), nil},
	{ActionManageItems, RequireAny(CapGiveItems, CapTakeItems), nil},
	{ActionEditPermissions, Require(CapManageStaff), func(t Target) bool { return t.IsStaff }},
	{ActionDeleteStaff, Require(CapManageStaff), func(t Target) bool { return t.IsStaff && !t.IsSelf }},
}

// PermittedActions returns the staff actions the given capability set may
// perform against the target, in stable order. It is a pure function; the
// caller supplies the target state.
func PermittedActions(caps Set, target Target) []Action {
	var actions []Action
	for _, rule := range actionRules {
		if !rule.require.SatisfiedBy(caps) {
			continue
		}
		if rule.allowed != nil && !rule.allowed(target) {
			continue
		}
		actions = append(actions, rule.action)
	}
	return actions
}
