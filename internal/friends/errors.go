// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package friends

import "errors"

var (
	// ErrNotFound indicates the request does not exist or is not addressed
	// to the acting user.
	ErrNotFound = errors.New("friend request not found")

	// ErrInvalidAction indicates a response other than accept or decline.
	ErrInvalidAction = errors.New("invalid friend request action")

	// ErrSelfRequest indicates a user tried to befriend themselves.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")

	// ErrAlreadyFriends indicates the pair is already linked.
	ErrAlreadyFriends = errors.New("already friends")

	// ErrRequestPending indicates a request between the pair already exists.
	ErrRequestPending = errors.New("friend request already pending")

	// ErrNotAccepting indicates the recipient does not accept friend
	// requests.
	ErrNotAccepting = errors.New("user does not accept friend requests")
)
