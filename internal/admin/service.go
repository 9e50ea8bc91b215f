// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package admin implements the staff-facing moderation operations.
//
// Every operation re-checks its capability gate even when the presentation
// layer already filtered the offered actions through
// access.PermittedActions. Denials are uniformly access.ErrNotAuthorized.
package admin

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/pixelhaven/pixelhaven/internal/access"
	"github.com/pixelhaven/pixelhaven/internal/auth"
	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/internal/inventory"
)

// Service implements staff operations against user accounts.
type Service struct {
	users  identity.UserRepository
	staff  identity.StaffRepository
	items  *inventory.Service
	hasher auth.PasswordHasher
}

// NewService creates a new admin Service.
func NewService(users identity.UserRepository, staff identity.StaffRepository, items *inventory.Service, hasher auth.PasswordHasher) *Service {
	return &Service{users: users, staff: staff, items: items, hasher: hasher}
}

// UserDetail is the staff view of a user account. Email is nil unless the
// actor holds CapViewUserEmails, regardless of what the account stores.
type UserDetail struct {
	User    *identity.User
	Email   *string
	IsStaff bool
	Actions []access.Action
}

// UserDetail returns the staff view of the target account along with the
// actions the actor may take against it.
func (s *Service) UserDetail(ctx context.Context, actor identity.Actor, targetID ulid.ULID) (*UserDetail, error) {
	if err := access.Check(actor, access.Require(access.CapViewUserInfo)); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	targetStaff, err := s.staffRecord(ctx, targetID)
	if err != nil {
		return nil, err
	}

	caps, _ := actor.StaffCapabilities()
	target := access.Target{
		IsSelf:  actor.UserID == targetID,
		IsStaff: targetStaff != nil,
		Banned:  user.Banned,
	}

	detail := &UserDetail{
		User:    user,
		IsStaff: targetStaff != nil,
		Actions: access.PermittedActions(caps, target),
	}
	if caps.Has(access.CapViewUserEmails) {
		detail.Email = user.Email
	}
	return detail, nil
}

// UpdateUserInfo rewrites the target's profile description.
func (s *Service) UpdateUserInfo(ctx context.Context, actor identity.Actor, targetID ulid.ULID, description string) error {
	if err := access.Check(actor, access.Require(access.CapEditUserInfo)); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	user.Description = description
	user.UpdatedAt = time.Now()
	return s.users.Update(ctx, user)
}

// ResetPassword replaces the target's password hash.
func (s *Service) ResetPassword(ctx context.Context, actor identity.Actor, targetID ulid.ULID, newPassword string) error {
	if err := access.Check(actor, access.Require(access.CapResetUserPasswords)); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, targetID, hash)
}

// Ban marks the target account banned. Staff cannot ban themselves.
func (s *Service) Ban(ctx context.Context, actor identity.Actor, targetID ulid.ULID) error {
	if err := access.Check(actor, access.Require(access.CapBanUsers)); err != nil {
		return err
	}
	if actor.UserID == targetID {
		return oops.Code("ADMIN_SELF_TARGET").
			With("user_id", targetID.String()).
			Wrap(ErrSelfTarget)
	}
	return s.users.SetBanned(ctx, targetID, true)
}

// Unban lifts a ban.
func (s *Service) Unban(ctx context.Context, actor identity.Actor, targetID ulid.ULID) error {
	if err := access.Check(actor, access.Require(access.CapUnbanUsers)); err != nil {
		return err
	}
	return s.users.SetBanned(ctx, targetID, false)
}

// AdjustCurrency changes the target's balance by delta. Positive deltas need
// the give gate, negative deltas the take gate; each direction is checked
// against its own capability even though either one surfaces the control.
func (s *Service) AdjustCurrency(ctx context.Context, actor identity.Actor, targetID ulid.ULID, delta int64) (int64, error) {
	if delta == 0 {
		return 0, oops.Code("ADMIN_ZERO_DELTA").Wrap(ErrZeroDelta)
	}

	gate := access.Require(access.CapGiveCurrency)
	if delta < 0 {
		gate = access.Require(access.CapTakeCurrency)
	}
	if err := access.Check(actor, gate); err != nil {
		return 0, err
	}

	return s.users.AdjustCurrency(ctx, targetID, delta)
}

// GiveItem grants the item to the target.
func (s *Service) GiveItem(ctx context.Context, actor identity.Actor, targetID, itemID ulid.ULID) error {
	if err := access.Check(actor, access.Require(access.CapGiveItems)); err != nil {
		return err
	}
	return s.items.Grant(ctx, targetID, itemID)
}

// TakeItem removes the item from the target.
func (s *Service) TakeItem(ctx context.Context, actor identity.Actor, targetID, itemID ulid.ULID) error {
	if err := access.Check(actor, access.Require(access.CapTakeItems)); err != nil {
		return err
	}
	return s.items.Revoke(ctx, targetID, itemID)
}

// UpdateStaffPermissions replaces the target's capability set, creating the
// staff record when it does not exist yet.
func (s *Service) UpdateStaffPermissions(ctx context.Context, actor identity.Actor, targetID ulid.ULID, caps access.Set) error {
	if err := access.Check(actor, access.Require(access.CapManageStaff)); err != nil {
		return err
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return err
	}

	now := time.Now()
	rec := &identity.StaffRecord{
		UserID:    targetID,
		Caps:      caps,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.staffRecord(ctx, targetID); err != nil {
		return err
	} else if existing != nil {
		rec.CreatedAt = existing.CreatedAt
	}
	return s.staff.Upsert(ctx, rec)
}

// DeleteStaff removes the target's staff record. Staff cannot delete their
// own record.
func (s *Service) DeleteStaff(ctx context.Context, actor identity.Actor, targetID ulid.ULID) error {
	if err := access.Check(actor, access.Require(access.CapManageStaff)); err != nil {
		return err
	}
	if actor.UserID == targetID {
		return oops.Code("ADMIN_SELF_TARGET").
			With("user_id", targetID.String()).
			Wrap(ErrSelfTarget)
	}
	return s.staff.Delete(ctx, targetID)
}

// staffRecord loads the target's staff record, mapping absence to nil.
func (s *Service) staffRecord(ctx context.Context, userID ulid.ULID) (*identity.StaffRecord, error) {
	rec, err := s.staff.Get(ctx, userID)
	if errors.Is(err, identity.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
