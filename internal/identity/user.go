// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package identity holds user accounts, their settings, and staff records.
package identity

import (
	"context"
	"regexp"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Username validation constraints.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

// usernameRegex matches usernames that start with a letter and contain only
// letters, numbers, and underscores.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// User is a platform account.
type User struct {
	ID              ulid.ULID
	Username        string
	Description     string
	Email           *string
	EmailVerified   bool
	PasswordHash    string
	Currency        int64
	MembershipUntil *time.Time
	Banned          bool
	LastIP          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasMembership reports whether the user holds an unexpired membership.
func (u *User) HasMembership() bool {
	return u.MembershipUntil != nil && u.MembershipUntil.After(time.Now())
}

// Settings are the per-user privacy and contact preferences.
// A row is created alongside the user with these defaults.
type Settings struct {
	UserID          ulid.ULID
	PublicInventory bool
	AcceptsMessages bool
	AcceptsFriends  bool
	AcceptsTrades   bool
	Theme           string
}

// DefaultSettings returns the settings a new account starts with.
func DefaultSettings(userID ulid.ULID) Settings {
	return Settings{
		UserID:          userID,
		PublicInventory: true,
		AcceptsMessages: true,
		AcceptsFriends:  true,
		AcceptsTrades:   false,
		Theme:           "light",
	}
}

// Badge is a named award shown on the user's profile.
type Badge struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	Name      string
	AwardedAt time.Time
}

// ValidateUsername validates a username against account rules.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("IDENTITY_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	if len(username) < MinUsernameLength {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			With("min", MinUsernameLength).
			Errorf("username must be at least %d characters", MinUsernameLength)
	}
	if len(username) > MaxUsernameLength {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Errorf("username must be at most %d characters", MaxUsernameLength)
	}
	if !usernameRegex.MatchString(username) {
		return oops.Code("IDENTITY_INVALID_USERNAME").
			Errorf("username must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

// UserRepository manages user persistence.
type UserRepository interface {
	// Create stores a new user and its default settings row.
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*User, error)

	// GetByUsername retrieves a user by username (case-insensitive).
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Update updates an existing user.
	Update(ctx context.Context, user *User) error

	// UpdatePassword updates only the password hash for a user.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error

	// SetBanned flips the banned flag.
	SetBanned(ctx context.Context, id ulid.ULID, banned bool) error

	// AdjustCurrency atomically adds delta (possibly negative) to the
	// user's balance. The balance never drops below zero.
	AdjustCurrency(ctx context.Context, id ulid.ULID, delta int64) (int64, error)

	// GetSettings retrieves the settings row for a user.
	GetSettings(ctx context.Context, userID ulid.ULID) (*Settings, error)

	// Badges lists the user's badges, oldest first.
	Badges(ctx context.Context, userID ulid.ULID) ([]Badge, error)
}

// StaffRepository manages staff capability records.
type StaffRepository interface {
	// Get retrieves the staff record for a user.
	// Returns ErrNotFound for ordinary (non-staff) users.
	Get(ctx context.Context, userID ulid.ULID) (*StaffRecord, error)

	// Upsert creates or replaces the staff record for a user.
	Upsert(ctx context.Context, rec *StaffRecord) error

	// Delete removes the staff record, demoting the user.
	Delete(ctx context.Context, userID ulid.ULID) error
}
