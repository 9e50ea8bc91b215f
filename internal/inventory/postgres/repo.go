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

	"github.com/pixelhaven/pixelhaven/internal/inventory"
)

// Repository implements inventory.Repository using PostgreSQL.
type Repository struct {
	db DB
}

// NewRepository creates a new inventory Repository.
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// GetItem retrieves a catalog item by ID.
func (r *Repository) GetItem(ctx context.Context, id ulid.ULID) (*inventory.Item, error) {
	var (
		item    inventory.Item
		idStr   string
		typeStr string
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, item_type, name, public_view, created_at
		FROM items
		WHERE id = $1
	`, id.String()).Scan(&idStr, &typeStr, &item.Name, &item.PublicView, &item.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("ITEM_NOT_FOUND").
			With("id", id.String()).
			Wrap(inventory.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("ITEM_GET_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if item.ID, err = ulid.Parse(idStr); err != nil {
		return nil, oops.Code("ITEM_INVALID_ID").With("id", idStr).Wrap(err)
	}
	item.Type = inventory.ItemType(typeStr)
	if !item.Type.Valid() {
		return nil, oops.Code("ITEM_INVALID_TYPE").
			With("id", idStr).
			With("type", typeStr).
			Errorf("unknown item type in storage")
	}
	return &item, nil
}

// CreateItem stores a new catalog item.
func (r *Repository) CreateItem(ctx context.Context, item *inventory.Item) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO items (id, item_type, name, public_view, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID.String(), string(item.Type), item.Name, item.PublicView, item.CreatedAt)
	if err != nil {
		return oops.Code("ITEM_CREATE_FAILED").
			With("name", item.Name).
			Wrap(err)
	}
	return nil
}

// Grant records ownership. Granting an already owned item is a no-op.
func (r *Repository) Grant(ctx context.Context, entry *inventory.Entry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO inventories (user_id, item_id, acquired_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_id) DO NOTHING
	`, entry.UserID.String(), entry.ItemID.String(), entry.AcquiredAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return oops.Code("ITEM_NOT_FOUND").
				With("item_id", entry.ItemID.String()).
				Wrap(inventory.ErrNotFound)
		}
		return oops.Code("INVENTORY_GRANT_FAILED").
			With("user_id", entry.UserID.String()).
			With("item_id", entry.ItemID.String()).
			Wrap(err)
	}
	return nil
}

// Revoke removes ownership.
func (r *Repository) Revoke(ctx context.Context, userID, itemID ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM inventories WHERE user_id = $1 AND item_id = $2
	`, userID.String(), itemID.String())
	if err != nil {
		return oops.Code("INVENTORY_REVOKE_FAILED").
			With("user_id", userID.String()).
			With("item_id", itemID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("INVENTORY_NOT_OWNED").
			With("user_id", userID.String()).
			With("item_id", itemID.String()).
			Wrap(inventory.ErrNotOwned)
	}
	return nil
}

// Owns reports whether the user owns the item.
func (r *Repository) Owns(ctx context.Context, userID, itemID ulid.ULID) (bool, error) {
	var owns bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM inventories WHERE user_id = $1 AND item_id = $2
		)
	`, userID.String(), itemID.String()).Scan(&owns)
	if err != nil {
		return false, oops.Code("INVENTORY_OWNS_CHECK_FAILED").
			With("user_id", userID.String()).
			With("item_id", itemID.String()).
			Wrap(err)
	}
	return owns, nil
}

// Entries lists one window of a user's inventory in the given category,
// newest acquisitions first, item ULID descending on ties. Only items
// flagged for public view are listed.
func (r *Repository) Entries(ctx context.Context, userID ulid.ULID, itemType inventory.ItemType, offset, limit int) ([]inventory.Row, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.name, i.item_type, inv.acquired_at
		FROM inventories inv
		JOIN items i ON i.id = inv.item_id
		WHERE inv.user_id = $1 AND i.item_type = $2 AND i.public_view
		ORDER BY inv.acquired_at DESC, i.id DESC
		LIMIT $3 OFFSET $4
	`, userID.String(), string(itemType), limit, offset)
	if err != nil {
		return nil, oops.Code("INVENTORY_QUERY_FAILED").
			With("user_id", userID.String()).
			With("type", string(itemType)).
			Wrap(err)
	}
	defer rows.Close()

	entries := []inventory.Row{}
	for rows.Next() {
		var (
			row     inventory.Row
			idStr   string
			typeStr string
		)
		if err := rows.Scan(&idStr, &row.Name, &typeStr, &row.AcquiredAt); err != nil {
			return nil, oops.Code("INVENTORY_SCAN_FAILED").Wrap(err)
		}
		if row.ItemID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.Code("ITEM_INVALID_ID").With("id", idStr).Wrap(err)
		}
		row.Type = inventory.ItemType(typeStr)
		entries = append(entries, row)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("INVENTORY_QUERY_FAILED").Wrap(err)
	}
	return entries, nil
}

// CountEntries counts the publicly viewable items a user owns in the
// given category.
func (r *Repository) CountEntries(ctx context.Context, userID ulid.ULID, itemType inventory.ItemType) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM inventories inv
		JOIN items i ON i.id = inv.item_id
		WHERE inv.user_id = $1 AND i.item_type = $2 AND i.public_view
	`, userID.String(), string(itemType)).Scan(&count)
	if err != nil {
		return 0, oops.Code("INVENTORY_COUNT_FAILED").
			With("user_id", userID.String()).
			With("type", string(itemType)).
			Wrap(err)
	}
	return count, nil
}

// Compile-time interface check.
var _ inventory.Repository = (*Repository)(nil)
