// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelhaven/pixelhaven/internal/friends"
	"github.com/pixelhaven/pixelhaven/pkg/errutil"
)

func TestRepository_Accept(t *testing.T) {
	ctx := context.Background()
	requestID := ulid.Make()
	senderID := ulid.Make()
	recipientID := ulid.Make()

	t.Run("deletes the request and records the friendship in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`DELETE FROM friend_requests`).
			WithArgs(requestID.String()).
			WillReturnRows(pgxmock.NewRows([]string{"sender_id", "recipient_id"}).
				AddRow(senderID.String(), recipientID.String()))
		mock.ExpectExec(`INSERT INTO friendships`).
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()
		mock.ExpectRollback()

		repo := NewRepository(mock)
		require.NoError(t, repo.Accept(ctx, requestID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing request rolls back with ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`DELETE FROM friend_requests`).
			WithArgs(requestID.String()).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectRollback()

		repo := NewRepository(mock)
		err = repo.Accept(ctx, requestID)
		require.Error(t, err)
		assert.ErrorIs(t, err, friends.ErrNotFound)
		errutil.AssertErrorCode(t, err, "FRIEND_REQUEST_NOT_FOUND")
	})
}

func TestRepository_Decline(t *testing.T) {
	ctx := context.Background()
	requestID := ulid.Make()

	t.Run("removes the request", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM friend_requests`).
			WithArgs(requestID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewRepository(mock)
		require.NoError(t, repo.Decline(ctx, requestID))
	})

	t.Run("missing request yields ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM friend_requests`).
			WithArgs(requestID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewRepository(mock)
		err = repo.Decline(ctx, requestID)
		require.Error(t, err)
		assert.ErrorIs(t, err, friends.ErrNotFound)
	})
}

func TestRepository_Requests(t *testing.T) {
	ctx := context.Background()
	recipientID := ulid.Make()
	requestID := ulid.Make()
	senderID := ulid.Make()
	now := time.Now()

	t.Run("lists requests with sender usernames", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "sender_id", "recipient_id", "created_at", "username"}).
			AddRow(requestID.String(), senderID.String(), recipientID.String(), now, "bob")
		mock.ExpectQuery(`SELECT fr.id, fr.sender_id, fr.recipient_id, fr.created_at`).
			WithArgs(recipientID.String(), 9, 0).
			WillReturnRows(rows)

		repo := NewRepository(mock)
		requests, err := repo.Requests(ctx, recipientID, 0, 9)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, "bob", requests[0].SenderUsername)
		assert.Equal(t, senderID, requests[0].SenderID)
	})
}

func TestOrderPair(t *testing.T) {
	a := ulid.Make()
	b := ulid.Make()

	f1, s1 := orderPair(a, b)
	f2, s2 := orderPair(b, a)
	assert.Equal(t, f1, f2)
	assert.Equal(t, s1, s2)
	assert.Less(t, f1, s1)
}
