// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package inventory

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/pkg/pagination"
)

// PageSize is the number of items per inventory page.
const PageSize = 8

// SettingsSource provides the privacy settings of an inventory owner.
// identity.UserRepository satisfies it.
type SettingsSource interface {
	GetSettings(ctx context.Context, userID ulid.ULID) (*identity.Settings, error)
}

// Service implements inventory operations over a Repository and the owner's
// privacy settings.
type Service struct {
	repo     Repository
	settings SettingsSource
}

// NewService creates a new inventory Service.
func NewService(repo Repository, settings SettingsSource) *Service {
	return &Service{repo: repo, settings: settings}
}

// UserInventory returns one page of ownerID's inventory in the given
// category. viewer is nil for anonymous requests. Owners always see their
// own inventory; everyone else needs the owner's public_inventory setting,
// and only items flagged public_view are ever listed.
func (s *Service) UserInventory(ctx context.Context, viewer *ulid.ULID, ownerID ulid.ULID, itemType ItemType, page int) (pagination.Page[Row], error) {
	var empty pagination.Page[Row]

	settings, err := s.settings.GetSettings(ctx, ownerID)
	if err != nil {
		return empty, err
	}

	isOwner := viewer != nil && *viewer == ownerID
	if !settings.PublicInventory && !isOwner {
		return empty, oops.Code("INVENTORY_PRIVATE").
			With("owner_id", ownerID.String()).
			Wrap(ErrPrivate)
	}

	total, err := s.repo.CountEntries(ctx, ownerID, itemType)
	if err != nil {
		return empty, err
	}

	page = pagination.ClampPage(page)
	rows, err := s.repo.Entries(ctx, ownerID, itemType, pagination.Offset(page, PageSize), PageSize)
	if err != nil {
		return empty, err
	}

	return pagination.NewPage(rows, page, PageSize, total), nil
}

// Grant gives the item to the user. Granting an already owned item is a
// no-op.
func (s *Service) Grant(ctx context.Context, userID, itemID ulid.ULID) error {
	if _, err := s.repo.GetItem(ctx, itemID); err != nil {
		return err
	}
	return s.repo.Grant(ctx, &Entry{
		UserID:     userID,
		ItemID:     itemID,
		AcquiredAt: time.Now(),
	})
}

// Revoke takes the item away from the user.
func (s *Service) Revoke(ctx context.Context, userID, itemID ulid.ULID) error {
	return s.repo.Revoke(ctx, userID, itemID)
}

// CreateItem adds a catalog item.
func (s *Service) CreateItem(ctx context.Context, itemType ItemType, name string, publicView bool) (*Item, error) {
	if !itemType.Valid() {
		return nil, oops.Code("INVENTORY_UNKNOWN_CATEGORY").
			With("type", string(itemType)).
			Wrap(ErrUnknownCategory)
	}
	item := &Item{
		ID:         ulid.Make(),
		Type:       itemType,
		Name:       name,
		PublicView: publicView,
		CreatedAt:  time.Now(),
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
