// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package group holds groups, their memberships, and their walls.
//
// A wall is an append-only list of short posts. Posts are never edited in
// place; pinning is the only mutation, and it only affects ordering.
package group

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Group is a user-created community with its own wall.
type Group struct {
	ID          ulid.ULID
	Name        string
	Description string
	OwnerID     ulid.ULID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Membership links a user to a group.
type Membership struct {
	GroupID  ulid.ULID
	UserID   ulid.ULID
	JoinedAt time.Time
}

// WallPost is a single entry on a group wall. The body is stored exactly as
// submitted; HTML shaping happens at presentation time.
type WallPost struct {
	ID        ulid.ULID
	GroupID   ulid.ULID
	AuthorID  ulid.ULID
	Body      string
	Pinned    bool
	CreatedAt time.Time
}

// WallRow is a wall post joined with its author, as listed on the wall.
type WallRow struct {
	WallPost
	AuthorUsername string
}

// Repository is the storage contract for groups and walls.
type Repository interface {
	GetGroup(ctx context.Context, id ulid.ULID) (*Group, error)
	IsMember(ctx context.Context, groupID, userID ulid.ULID) (bool, error)
	AddMember(ctx context.Context, m *Membership) error
	RemoveMember(ctx context.Context, groupID, userID ulid.ULID) error
	MemberCount(ctx context.Context, groupID ulid.ULID) (int64, error)

	CreateWallPost(ctx context.Context, post *WallPost) error
	WallPosts(ctx context.Context, groupID ulid.ULID, offset, limit int) ([]WallRow, error)
	CountWallPosts(ctx context.Context, groupID ulid.ULID) (int64, error)
	SetWallPostPinned(ctx context.Context, postID ulid.ULID, pinned bool) error
	DeleteWallPost(ctx context.Context, postID ulid.ULID) error
}
