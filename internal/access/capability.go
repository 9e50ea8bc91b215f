// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package access provides capability-gated authorization for staff actions.
//
// Staff accounts carry a fixed set of independent capabilities. The set is a
// closed enumeration: adding or removing a capability is a schema change, not
// a runtime string lookup. Handlers express requirements as a single
// capability or a disjunction of capabilities and evaluate them against the
// acting identity's Set.
package access

import "github.com/samber/oops"

// Capability identifies one staff action that can be granted independently.
type Capability uint8

// The closed set of staff capabilities. Each capability's bit position in a
// Set is its enum value; the stored representation uses the stable names, so
// reordering here does not corrupt persisted records.
const (
	CapViewItemInfo Capability = iota
	CapEditItemInfo
	CapCreateHatItems
	CapCreateFaceItems
	CapCreateGadgetItems
	CapViewUserInfo
	CapEditUserInfo
	CapResetUserPasswords
	CapViewUserEmails
	CapGiveItems
	CapGiveCurrency
	CapTakeItems
	CapTakeCurrency
	CapBanUsers
	CapUnbanUsers
	CapIPBanUsers
	CapIPUnbanUsers
	CapReviewPendingAssets
	CapReviewPendingReports
	CapEditForumPosts
	CapDeleteForumPosts
	CapPinForumPosts
	CapLockForumPosts
	CapManageForumTopics
	CapManageStaff
	CapManageSite
	CapRenderThumbnails

	capCount // sentinel, not a capability
)

// capabilityNames maps each capability to its stable wire/column name.
var capabilityNames = [capCount]string{
	CapViewItemInfo:         "can_view_item_info",
	CapEditItemInfo:         "can_edit_item_info",
	CapCreateHatItems:       "can_create_hat_items",
	CapCreateFaceItems:      "can_create_face_items",
	CapCreateGadgetItems:    "can_create_gadget_items",
	CapViewUserInfo:         "can_view_user_info",
	CapEditUserInfo:         "can_edit_user_info",
	CapResetUserPasswords:   "can_reset_user_passwords",
	CapViewUserEmails:       "can_view_user_emails",
	CapGiveItems:            "can_give_items",
	CapGiveCurrency:         "can_give_currency",
	CapTakeItems:            "can_take_items",
	CapTakeCurrency:         "can_take_currency",
	CapBanUsers:             "can_ban_users",
	CapUnbanUsers:           "can_unban_users",
	CapIPBanUsers:           "can_ip_ban_users",
	CapIPUnbanUsers:         "can_ip_unban_users",
	CapReviewPendingAssets:  "can_review_pending_assets",
	CapReviewPendingReports: "can_review_pending_reports",
	CapEditForumPosts:       "can_edit_forum_posts",
	CapDeleteForumPosts:     "can_delete_forum_posts",
	CapPinForumPosts:        "can_pin_forum_posts",
	CapLockForumPosts:       "can_lock_forum_posts",
	CapManageForumTopics:    "can_manage_forum_topics",
	CapManageStaff:          "can_manage_staff",
	CapManageSite:           "can_manage_site",
	CapRenderThumbnails:     "can_render_thumbnails",
}

// nameToCapability is the reverse index, built once at init.
var nameToCapability = func() map[string]Capability {
	m := make(map[string]Capability, capCount)
	for c, name := range capabilityNames {
		m[name] = Capability(c)
	}
	return m
}()

// String returns the stable name of the capability (e.g. "can_ban_users").
func (c Capability) String() string {
	if c >= capCount {
		return "unknown"
	}
	return capabilityNames[c]
}

// Valid reports whether c is a member of the closed enumeration.
func (c Capability) Valid() bool {
	return c < capCount
}

// ParseCapability resolves a stable name back to its Capability.
func ParseCapability(name string) (Capability, error) {
	c, ok := nameToCapability[name]
	if !ok {
		return 0, oops.In("access").
			Code("UNKNOWN_CAPABILITY").
			With("name", name).
			Errorf("unknown capability %q", name)
	}
	return c, nil
}

// All returns every capability in enumeration order.
func All() []Capability {
	caps := make([]Capability, capCount)
	for i := range caps {
		caps[i] = Capability(i)
	}
	return caps
}
