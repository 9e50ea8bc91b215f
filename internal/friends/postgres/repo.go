// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/pixelhaven/pixelhaven/internal/friends"
)

// Repository implements friends.Repository using PostgreSQL.
type Repository struct {
	db DB
}

// NewRepository creates a new friends Repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// orderPair returns the two IDs in canonical order for the friendships
// table, which stores each pair exactly once.
func orderPair(a, b ulid.ULID) (string, string) {
	as, bs := a.String(), b.String()
	if as > bs {
		return bs, as
	}
	return as, bs
}

// CreateRequest stores a pending request.
func (r *Repository) CreateRequest(ctx context.Context, req *friends.Request) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO friend_requests (id, sender_id, recipient_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, req.ID.String(), req.SenderID.String(), req.RecipientID.String(), req.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("FRIEND_REQUEST_PENDING").
				With("sender_id", req.SenderID.String()).
				With("recipient_id", req.RecipientID.String()).
				Wrap(friends.ErrRequestPending)
		}
		return oops.Code("FRIEND_REQUEST_CREATE_FAILED").
			With("sender_id", req.SenderID.String()).
			With("recipient_id", req.RecipientID.String()).
			Wrap(err)
	}
	return nil
}

// GetRequest retrieves a pending request by ID.
func (r *Repository) GetRequest(ctx context.Context, id ulid.ULID) (*friends.Request, error) {
	var (
		req            friends.Request
		idStr          string
		senderIDStr    string
		recipientIDStr string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, sender_id, recipient_id, created_at
		FROM friend_requests
		WHERE id = $1
	`, id.String()).Scan(&idStr, &senderIDStr, &recipientIDStr, &req.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("FRIEND_REQUEST_NOT_FOUND").
			With("id", id.String()).
			Wrap(friends.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("FRIEND_REQUEST_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if req.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("FRIEND_REQUEST_INVALID_ID").With("id", idStr).Wrap(err)
	}
	if req.SenderID, err = ulid.Parse(senderIDStr); err != nil {
		return nil, oops.Code("FRIEND_REQUEST_INVALID_SENDER_ID").With("sender_id", senderIDStr).Wrap(err)
	}
	if req.RecipientID, err = ulid.Parse(recipientIDStr); err != nil {
		return nil, oops.Code("FRIEND_REQUEST_INVALID_RECIPIENT_ID").With("recipient_id", recipientIDStr).Wrap(err)
	}
	return &req, nil
}

// RequestPending reports whether a request from sender to recipient exists.
func (r *Repository) RequestPending(ctx context.Context, senderID, recipientID ulid.ULID) (bool, error) {
	var pending bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE sender_id = $1 AND recipient_id = $2
		)
	`, senderID.String(), recipientID.String()).Scan(&pending)
	if err != nil {
		return false, oops.Code("FRIEND_REQUEST_CHECK_FAILED").
			With("sender_id", senderID.String()).
			With("recipient_id", recipientID.String()).
			Wrap(err)
	}
	return pending, nil
}

// Requests lists one window of the recipient's pending requests, newest
// first, ULID descending on created_at ties.
func (r *Repository) Requests(ctx context.Context, recipientID ulid.ULID, offset, limit int) ([]friends.RequestRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT fr.id, fr.sender_id, fr.recipient_id, fr.created_at, u.username
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.recipient_id = $1
		ORDER BY fr.created_at DESC, fr.id DESC
		LIMIT $2 OFFSET $3
	`, recipientID.String(), limit, offset)
	if err != nil {
		return nil, oops.Code("FRIEND_REQUESTS_QUERY_FAILED").
			With("recipient_id", recipientID.String()).
			Wrap(err)
	}
	defer rows.Close()

	requests := []friends.RequestRow{}
	for rows.Next() {
		var (
			row            friends.RequestRow
			idStr          string
			senderIDStr    string
			recipientIDStr string
		)
		err := rows.Scan(&idStr, &senderIDStr, &recipientIDStr, &row.CreatedAt, &row.SenderUsername)
		if err != nil {
			return nil, oops.Code("FRIEND_REQUESTS_SCAN_FAILED").Wrap(err)
		}
		if row.ID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.Code("FRIEND_REQUEST_INVALID_ID").With("id", idStr).Wrap(err)
		}
		if row.SenderID, err = ulid.Parse(senderIDStr); err != nil {
			return nil, oops.Code("FRIEND_REQUEST_INVALID_SENDER_ID").With("sender_id", senderIDStr).Wrap(err)
		}
		if row.RecipientID, err = ulid.Parse(recipientIDStr); err != nil {
			return nil, oops.Code("FRIEND_REQUEST_INVALID_RECIPIENT_ID").With("recipient_id", recipientIDStr).Wrap(err)
		}
		requests = append(requests, row)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("FRIEND_REQUESTS_QUERY_FAILED").Wrap(err)
	}
	return requests, nil
}

// CountRequests counts the recipient's pending requests.
func (r *Repository) CountRequests(ctx context.Context, recipientID ulid.ULID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM friend_requests WHERE recipient_id = $1
	`, recipientID.String()).Scan(&count)
	if err != nil {
		return 0, oops.Code("FRIEND_REQUESTS_COUNT_FAILED").
			With("recipient_id", recipientID.String()).
			Wrap(err)
	}
	return count, nil
}

// Accept records the friendship and removes the request in one transaction.
func (r *Repository) Accept(ctx context.Context, id ulid.ULID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return oops.Code("FRIEND_ACCEPT_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // rollback after commit is a no-op

	var senderIDStr, recipientIDStr string
	err = tx.QueryRow(ctx, `
		DELETE FROM friend_requests WHERE id = $1
		RETURNING sender_id, recipient_id
	`, id.String()).Scan(&senderIDStr, &recipientIDStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return oops.Code("FRIEND_REQUEST_NOT_FOUND").
			With("id", id.String()).
			Wrap(friends.ErrNotFound)
	}
	if err != nil {
		return oops.Code("FRIEND_ACCEPT_FAILED").
			With("id", id.String()).
			Wrap(err)
	}

	senderID, err := ulid.Parse(senderIDStr)
	if err != nil {
		return oops.Code("FRIEND_REQUEST_INVALID_SENDER_ID").With("sender_id", senderIDStr).Wrap(err)
	}
	recipientID, err := ulid.Parse(recipientIDStr)
	if err != nil {
		return oops.Code("FRIEND_REQUEST_INVALID_RECIPIENT_ID").With("recipient_id", recipientIDStr).Wrap(err)
	}

	first, second := orderPair(senderID, recipientID)
	_, err = tx.Exec(ctx, `
		INSERT INTO friendships (user_a, user_b, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_a, user_b) DO NOTHING
	`, first, second, time.Now())
	if err != nil {
		return oops.Code("FRIEND_ACCEPT_FAILED").
			With("id", id.String()).
			Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("FRIEND_ACCEPT_FAILED").
			With("operation", "commit").
			Wrap(err)
	}
	return nil
}

// Decline removes the request without recording a friendship.
func (r *Repository) Decline(ctx context.Context, id ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM friend_requests WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("FRIEND_DECLINE_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("FRIEND_REQUEST_NOT_FOUND").
			With("id", id.String()).
			Wrap(friends.ErrNotFound)
	}
	return nil
}

// AreFriends reports whether the pair has a friendship row.
func (r *Repository) AreFriends(ctx context.Context, a, b ulid.ULID) (bool, error) {
	first, second := orderPair(a, b)
	var linked bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM friendships WHERE user_a = $1 AND user_b = $2
		)
	`, first, second).Scan(&linked)
	if err != nil {
		return false, oops.Code("FRIENDSHIP_CHECK_FAILED").
			With("user_a", first).
			With("user_b", second).
			Wrap(err)
	}
	return linked, nil
}

// Compile-time interface check.
var _ friends.Repository = (*Repository)(nil)
