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

	"github.com/pixelhaven/pixelhaven/internal/inventory"
	"github.com/pixelhaven/pixelhaven/pkg/errutil"
)

func TestRepository_GetItem(t *testing.T) {
	ctx := context.Background()
	itemID := ulid.Make()
	now := time.Now()

	t.Run("returns the item", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "item_type", "name", "public_view", "created_at"}).
			AddRow(itemID.String(), "hat", "Top Hat", true, now)
		mock.ExpectQuery(`SELECT id, item_type, name, public_view, created_at`).
			WithArgs(itemID.String()).
			WillReturnRows(rows)

		repo := NewRepository(mock)
		item, err := repo.GetItem(ctx, itemID)
		require.NoError(t, err)

		assert.Equal(t, itemID, item.ID)
		assert.Equal(t, inventory.ItemHat, item.Type)
		assert.True(t, item.PublicView)
	})

	t.Run("maps missing item to ErrNotFound", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, item_type, name, public_view, created_at`).
			WithArgs(itemID.String()).
			WillReturnError(pgx.ErrNoRows)

		repo := NewRepository(mock)
		_, err = repo.GetItem(ctx, itemID)
		require.Error(t, err)
		assert.ErrorIs(t, err, inventory.ErrNotFound)
		errutil.AssertErrorCode(t, err, "ITEM_NOT_FOUND")
	})

	t.Run("rejects unknown stored type", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "item_type", "name", "public_view", "created_at"}).
			AddRow(itemID.String(), "sword", "Sword", true, now)
		mock.ExpectQuery(`SELECT id, item_type, name, public_view, created_at`).
			WithArgs(itemID.String()).
			WillReturnRows(rows)

		repo := NewRepository(mock)
		_, err = repo.GetItem(ctx, itemID)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "ITEM_INVALID_TYPE")
	})
}

func TestRepository_Revoke(t *testing.T) {
	ctx := context.Background()
	userID := ulid.Make()
	itemID := ulid.Make()

	t.Run("removes the entry", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM inventories`).
			WithArgs(userID.String(), itemID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := NewRepository(mock)
		require.NoError(t, repo.Revoke(ctx, userID, itemID))
	})

	t.Run("unowned item yields ErrNotOwned", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec(`DELETE FROM inventories`).
			WithArgs(userID.String(), itemID.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := NewRepository(mock)
		err = repo.Revoke(ctx, userID, itemID)
		require.Error(t, err)
		assert.ErrorIs(t, err, inventory.ErrNotOwned)
		errutil.AssertErrorCode(t, err, "INVENTORY_NOT_OWNED")
	})
}

func TestRepository_Entries(t *testing.T) {
	ctx := context.Background()
	userID := ulid.Make()
	itemID := ulid.Make()
	now := time.Now()

	t.Run("lists owned items in the category", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{"id", "name", "item_type", "acquired_at"}).
			AddRow(itemID.String(), "Top Hat", "hat", now)
		mock.ExpectQuery(`SELECT i.id, i.name, i.item_type, inv.acquired_at`).
			WithArgs(userID.String(), "hat", 8, 0).
			WillReturnRows(rows)

		repo := NewRepository(mock)
		entries, err := repo.Entries(ctx, userID, inventory.ItemHat, 0, 8)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Top Hat", entries[0].Name)
		assert.Equal(t, inventory.ItemHat, entries[0].Type)
	})
}
