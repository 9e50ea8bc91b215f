// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/pixelhaven/pixelhaven/internal/group"
)

// Repository implements group.Repository using PostgreSQL.
type Repository struct {
	db DB
}

// NewRepository creates a new group Repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// GetGroup retrieves a group by ID.
func (r *Repository) GetGroup(ctx context.Context, id ulid.ULID) (*group.Group, error) {
	var (
		g          group.Group
		idStr      string
		ownerIDStr string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM groups
		WHERE id = $1
	`, id.String()).Scan(&idStr, &g.Name, &g.Description, &ownerIDStr, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("GROUP_NOT_FOUND").
			With("id", id.String()).
			Wrap(group.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("GROUP_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if g.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("GROUP_INVALID_ID").With("id", idStr).Wrap(err)
	}
	if g.OwnerID, err = ulid.Parse(ownerIDStr); err != nil {
		return nil, oops.Code("GROUP_INVALID_OWNER_ID").With("owner_id", ownerIDStr).Wrap(err)
	}
	return &g, nil
}

// IsMember reports whether the user belongs to the group.
func (r *Repository) IsMember(ctx context.Context, groupID, userID ulid.ULID) (bool, error) {
	var member bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM group_memberships
			WHERE group_id = $1 AND user_id = $2
		)
	`, groupID.String(), userID.String()).Scan(&member)
	if err != nil {
		return false, oops.Code("GROUP_MEMBERSHIP_CHECK_FAILED").
			With("group_id", groupID.String()).
			With("user_id", userID.String()).
			Wrap(err)
	}
	return member, nil
}

// AddMember records a group membership. Joining twice is a no-op.
func (r *Repository) AddMember(ctx context.Context, m *group.Membership) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO group_memberships (group_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`, m.GroupID.String(), m.UserID.String(), m.JoinedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return oops.Code("GROUP_NOT_FOUND").
				With("group_id", m.GroupID.String()).
				Wrap(group.ErrNotFound)
		}
		return oops.Code("GROUP_ADD_MEMBER_FAILED").
			With("group_id", m.GroupID.String()).
			With("user_id", m.UserID.String()).
			Wrap(err)
	}
	return nil
}

// RemoveMember deletes a group membership.
func (r *Repository) RemoveMember(ctx context.Context, groupID, userID ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM group_memberships
		WHERE group_id = $1 AND user_id = $2
	`, groupID.String(), userID.String())
	if err != nil {
		return oops.Code("GROUP_REMOVE_MEMBER_FAILED").
			With("group_id", groupID.String()).
			With("user_id", userID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("GROUP_NOT_MEMBER").
			With("group_id", groupID.String()).
			With("user_id", userID.String()).
			Wrap(group.ErrNotMember)
	}
	return nil
}

// MemberCount returns the number of members in the group.
func (r *Repository) MemberCount(ctx context.Context, groupID ulid.ULID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM group_memberships WHERE group_id = $1
	`, groupID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("GROUP_MEMBER_COUNT_FAILED").
			With("group_id", groupID.String()).
			Wrap(err)
	}
	return count, nil
}

// CreateWallPost stores a new wall post.
func (r *Repository) CreateWallPost(ctx context.Context, post *group.WallPost) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO group_wall_posts (id, group_id, author_id, body, pinned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		post.ID.String(),
		post.GroupID.String(),
		post.AuthorID.String(),
		post.Body,
		post.Pinned,
		post.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return oops.Code("GROUP_NOT_FOUND").
				With("group_id", post.GroupID.String()).
				Wrap(group.ErrNotFound)
		}
		return oops.Code("WALL_POST_CREATE_FAILED").
			With("group_id", post.GroupID.String()).
			With("author_id", post.AuthorID.String()).
			Wrap(err)
	}
	return nil
}

// WallPosts lists one window of a group's wall, pinned first, then newest
// first, ULID descending on created_at ties.
func (r *Repository) WallPosts(ctx context.Context, groupID ulid.ULID, offset, limit int) ([]group.WallRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.group_id, p.author_id, p.body, p.pinned, p.created_at,
		       u.username
		FROM group_wall_posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.group_id = $1
		ORDER BY p.pinned DESC, p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, groupID.String(), limit, offset)
	if err != nil {
		return nil, oops.Code("WALL_POSTS_QUERY_FAILED").
			With("group_id", groupID.String()).
			Wrap(err)
	}
	defer rows.Close()

	posts := []group.WallRow{}
	for rows.Next() {
		var (
			row         group.WallRow
			idStr       string
			groupIDStr  string
			authorIDStr string
		)
		err := rows.Scan(&idStr, &groupIDStr, &authorIDStr, &row.Body, &row.Pinned, &row.CreatedAt, &row.AuthorUsername)
		if err != nil {
			return nil, oops.Code("WALL_POSTS_SCAN_FAILED").Wrap(err)
		}
		if row.ID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.Code("WALL_POST_INVALID_ID").With("id", idStr).Wrap(err)
		}
		if row.GroupID, err = ulid.Parse(groupIDStr); err != nil {
			return nil, oops.Code("WALL_POST_INVALID_GROUP_ID").With("group_id", groupIDStr).Wrap(err)
		}
		if row.AuthorID, err = ulid.Parse(authorIDStr); err != nil {
			return nil, oops.Code("WALL_POST_INVALID_AUTHOR_ID").With("author_id", authorIDStr).Wrap(err)
		}
		posts = append(posts, row)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("WALL_POSTS_QUERY_FAILED").Wrap(err)
	}
	return posts, nil
}

// CountWallPosts returns the number of posts on the group's wall.
func (r *Repository) CountWallPosts(ctx context.Context, groupID ulid.ULID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM group_wall_posts WHERE group_id = $1
	`, groupID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("WALL_POSTS_COUNT_FAILED").
			With("group_id", groupID.String()).
			Wrap(err)
	}
	return count, nil
}

// SetWallPostPinned pins or unpins a wall post.
func (r *Repository) SetWallPostPinned(ctx context.Context, postID ulid.ULID, pinned bool) error {
	result, err := r.db.Exec(ctx, `
		UPDATE group_wall_posts SET pinned = $2 WHERE id = $1
	`, postID.String(), pinned)
	if err != nil {
		return oops.Code("WALL_POST_PIN_FAILED").
			With("id", postID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("WALL_POST_NOT_FOUND").
			With("id", postID.String()).
			Wrap(group.ErrNotFound)
	}
	return nil
}

// DeleteWallPost removes a wall post.
func (r *Repository) DeleteWallPost(ctx context.Context, postID ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM group_wall_posts WHERE id = $1
	`, postID.String())
	if err != nil {
		return oops.Code("WALL_POST_DELETE_FAILED").
			With("id", postID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("WALL_POST_NOT_FOUND").
			With("id", postID.String()).
			Wrap(group.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ group.Repository = (*Repository)(nil)
