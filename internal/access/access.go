// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package access

import "errors"

// ErrNotAuthorized is the uniform denial for failed capability checks.
// It deliberately carries no detail about which gate failed so the
// permission surface cannot be enumerated from responses.
var ErrNotAuthorized = errors.New("not authorized")

// Subject is the acting identity as seen by authorization checks.
// This mirrors the identity package's Actor to avoid coupling access to it.
type Subject interface {
	// IsAnonymous reports whether no authenticated user is acting.
	IsAnonymous() bool

	// StaffCapabilities returns the subject's capability set.
	// ok is false for anonymous and non-staff subjects.
	StaffCapabilities() (caps Set, ok bool)
}

// Requirement is a disjunction of capabilities: it is satisfied when the
// subject holds at least one of them. The empty requirement denies everyone.
type Requirement []Capability

// Require builds a single-capability requirement.
func Require(c Capability) Requirement {
	return Requirement{c}
}

// RequireAny builds a union-of-gates requirement satisfied by any one of the
// given capabilities.
func RequireAny(caps ...Capability) Requirement {
	return Requirement(caps)
}

// SatisfiedBy reports whether the capability set meets the requirement.
func (r Requirement) SatisfiedBy(s Set) bool {
	return s.HasAny(r...)
}

// Check authorizes the subject against a requirement. Non-staff subjects are
// always denied. The returned error is always the generic ErrNotAuthorized.
func Check(sub Subject, req Requirement) error {
	if sub == nil || sub.IsAnonymous() {
		return ErrNotAuthorized
	}
	caps, ok := sub.StaffCapabilities()
	if !ok {
		return ErrNotAuthorized
	}
	if !req.SatisfiedBy(caps) {
		return ErrNotAuthorized
	}
	return nil
}

// IsStaff reports whether the subject carries a staff capability record,
// regardless of which capabilities it grants.
func IsStaff(sub Subject) bool {
	if sub == nil || sub.IsAnonymous() {
		return false
	}
	_, ok := sub.StaffCapabilities()
	return ok
}
