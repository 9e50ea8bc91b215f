// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package identity

import (
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/pixelhaven/pixelhaven/internal/access"
)

// StaffRecord attaches a capability set to a user. Presence of the record
// denotes staff status; absence denotes an ordinary user.
type StaffRecord struct {
	UserID    ulid.ULID
	Caps      access.Set
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Has reports whether the record grants the capability.
func (r *StaffRecord) Has(c access.Capability) bool {
	return r.Caps.Has(c)
}

// Actor is the acting identity for a request. The zero value is anonymous.
// Handlers receive the Actor through the request context; there is no
// package-global "current user" state.
type Actor struct {
	UserID   ulid.ULID
	Username string
	Staff    *StaffRecord // nil for ordinary users
	present  bool
}

// NewActor builds an authenticated Actor. staff may be nil.
func NewActor(user *User, staff *StaffRecord) Actor {
	return Actor{
		UserID:   user.ID,
		Username: user.Username,
		Staff:    staff,
		present:  true,
	}
}

// Anonymous is the unauthenticated actor.
var Anonymous = Actor{}

// IsAnonymous implements access.Subject.
func (a Actor) IsAnonymous() bool {
	return !a.present
}

// StaffCapabilities implements access.Subject.
func (a Actor) StaffCapabilities() (access.Set, bool) {
	if !a.present || a.Staff == nil {
		return 0, false
	}
	return a.Staff.Caps, true
}

// Compile-time interface check.
var _ access.Subject = Actor{}
