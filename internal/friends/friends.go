// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package friends holds friend requests and the friendships they produce.
//
// A request is pending until its recipient accepts or declines it. Both
// outcomes are terminal and remove the request; accepting also records the
// friendship. The storage layer runs each resolution in one transaction.
package friends

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Request is a pending friend request from Sender to Recipient.
type Request struct {
	ID          ulid.ULID
	SenderID    ulid.ULID
	RecipientID ulid.ULID
	CreatedAt   time.Time
}

// RequestRow is a pending request joined with its sender, as listed to the
// recipient.
type RequestRow struct {
	Request
	SenderUsername string
}

// Action is the recipient's response to a request.
type Action int

const (
	ActionAccept Action = iota
	ActionDecline
)

// ParseAction folds case and resolves a client-supplied action name.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accept":
		return ActionAccept, nil
	case "decline":
		return ActionDecline, nil
	}
	return 0, oops.Code("FRIEND_INVALID_ACTION").
		With("action", s).
		Wrap(ErrInvalidAction)
}

// Repository is the storage contract for requests and friendships.
// Accept and Decline are atomic; Accept records the friendship and removes
// the request in one transaction.
type Repository interface {
	CreateRequest(ctx context.Context, req *Request) error
	GetRequest(ctx context.Context, id ulid.ULID) (*Request, error)
	RequestPending(ctx context.Context, senderID, recipientID ulid.ULID) (bool, error)
	Requests(ctx context.Context, recipientID ulid.ULID, offset, limit int) ([]RequestRow, error)
	CountRequests(ctx context.Context, recipientID ulid.ULID) (int64, error)

	Accept(ctx context.Context, id ulid.ULID) error
	Decline(ctx context.Context, id ulid.ULID) error
	AreFriends(ctx context.Context, a, b ulid.ULID) (bool, error)
}
