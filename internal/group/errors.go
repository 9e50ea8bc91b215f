// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package group

import "errors"

// Sentinel errors for the group package. Callers distinguish outcomes with
// errors.Is; the structured detail rides on the wrapping oops error.
var (
	// ErrNotFound indicates the requested group or wall post does not exist.
	ErrNotFound = errors.New("group not found")

	// ErrNotMember indicates the acting user does not belong to the group.
	// This is a relationship failure, distinct from capability denial.
	ErrNotMember = errors.New("not a group member")

	// ErrInvalidBody indicates a wall post body failed validation.
	ErrInvalidBody = errors.New("invalid wall post body")
)
