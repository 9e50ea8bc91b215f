// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package inventory

import "errors"

var (
	// ErrNotFound indicates the requested item or entry does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrUnknownCategory indicates a category name outside the closed set.
	ErrUnknownCategory = errors.New("unknown item category")

	// ErrPrivate indicates the owner has made their inventory private.
	ErrPrivate = errors.New("inventory is private")

	// ErrNotOwned indicates an attempt to take an item the user does not own.
	ErrNotOwned = errors.New("item not owned")
)
