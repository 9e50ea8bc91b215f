// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package group

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/pixelhaven/pixelhaven/pkg/pagination"
)

// WallPageSize is the number of posts per wall page.
const WallPageSize = 10

// Service implements group wall operations over a Repository.
type Service struct {
	repo Repository
}

// NewService creates a new group Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetGroup retrieves a group by ID.
func (s *Service) GetGroup(ctx context.Context, id ulid.ULID) (*Group, error) {
	return s.repo.GetGroup(ctx, id)
}

// Wall returns one page of a group's wall, pinned posts first, then newest
// first. Requesting a page past the end returns an empty page with the
// correct page count.
func (s *Service) Wall(ctx context.Context, groupID ulid.ULID, page int) (pagination.Page[WallRow], error) {
	var empty pagination.Page[WallRow]

	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return empty, err
	}

	total, err := s.repo.CountWallPosts(ctx, groupID)
	if err != nil {
		return empty, err
	}

	page = pagination.ClampPage(page)
	rows, err := s.repo.WallPosts(ctx, groupID, pagination.Offset(page, WallPageSize), WallPageSize)
	if err != nil {
		return empty, err
	}

	return pagination.NewPage(rows, page, WallPageSize, total), nil
}

// PostToWall validates and stores a new wall post by the given author.
// Authorship and timestamp are set here, never taken from the caller.
func (s *Service) PostToWall(ctx context.Context, authorID, groupID ulid.ULID, body string) (*WallPost, error) {
	if _, err := s.repo.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}

	member, err := s.repo.IsMember(ctx, groupID, authorID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, oops.Code("GROUP_NOT_MEMBER").
			With("group_id", groupID.String()).
			With("user_id", authorID.String()).
			Wrap(ErrNotMember)
	}

	// Missing group and non-member take precedence over a bad body.
	trimmed, err := ValidateWallPostBody(body)
	if err != nil {
		return nil, err
	}

	post := &WallPost{
		ID:        ulid.Make(),
		GroupID:   groupID,
		AuthorID:  authorID,
		Body:      trimmed,
		Pinned:    false,
		CreatedAt: time.Now(),
	}
	if err := s.repo.CreateWallPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// SetWallPostPinned pins or unpins a wall post.
func (s *Service) SetWallPostPinned(ctx context.Context, postID ulid.ULID, pinned bool) error {
	return s.repo.SetWallPostPinned(ctx, postID, pinned)
}

// DeleteWallPost removes a wall post.
func (s *Service) DeleteWallPost(ctx context.Context, postID ulid.ULID) error {
	return s.repo.DeleteWallPost(ctx, postID)
}
