// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

// Package inventory holds the item catalog and per-user item ownership.
package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ItemType classifies a catalog item. The set is closed; category parsing
// rejects anything outside it.
type ItemType string

const (
	ItemHat    ItemType = "hat"
	ItemFace   ItemType = "face"
	ItemGadget ItemType = "gadget"
	ItemShirt  ItemType = "shirt"
	ItemPants  ItemType = "pants"
)

// categoryToType maps the plural, lowercased category names accepted from
// clients to item types. "pants" is its own plural.
var categoryToType = map[string]ItemType{
	"hats":    ItemHat,
	"faces":   ItemFace,
	"gadgets": ItemGadget,
	"shirts":  ItemShirt,
	"pants":   ItemPants,
}

// Category returns the plural category name for the type.
func (t ItemType) Category() string {
	if t == ItemPants {
		return string(ItemPants)
	}
	return string(t) + "s"
}

// Valid reports whether t is one of the closed item types.
func (t ItemType) Valid() bool {
	switch t {
	case ItemHat, ItemFace, ItemGadget, ItemShirt, ItemPants:
		return true
	}
	return false
}

// ParseCategory folds case and resolves a client-supplied category name to
// an item type. Unknown categories fail with ErrUnknownCategory.
func ParseCategory(s string) (ItemType, error) {
	t, ok := categoryToType[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", oops.Code("INVENTORY_UNKNOWN_CATEGORY").
			With("category", s).
			Wrap(ErrUnknownCategory)
	}
	return t, nil
}

// Item is a catalog entry users can own.
type Item struct {
	ID         ulid.ULID
	Type       ItemType
	Name       string
	PublicView bool
	CreatedAt  time.Time
}

// Entry links a user to an item they own. AcquiredAt orders the inventory
// listing, newest first.
type Entry struct {
	UserID     ulid.ULID
	ItemID     ulid.ULID
	AcquiredAt time.Time
}

// Row is an owned item as listed on an inventory page.
type Row struct {
	ItemID     ulid.ULID
	Name       string
	Type       ItemType
	AcquiredAt time.Time
}

// Repository is the storage contract for the catalog and ownership.
type Repository interface {
	GetItem(ctx context.Context, id ulid.ULID) (*Item, error)
	CreateItem(ctx context.Context, item *Item) error

	Grant(ctx context.Context, entry *Entry) error
	Revoke(ctx context.Context, userID, itemID ulid.ULID) error
	Owns(ctx context.Context, userID, itemID ulid.ULID) (bool, error)

	Entries(ctx context.Context, userID ulid.ULID, itemType ItemType, offset, limit int) ([]Row, error)
	CountEntries(ctx context.Context, userID ulid.ULID, itemType ItemType) (int64, error)
}
