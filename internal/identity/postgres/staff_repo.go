// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/pixelhaven/pixelhaven/internal/access"
	"github.com/pixelhaven/pixelhaven/internal/identity"
)

// StaffRepository implements identity.StaffRepository using PostgreSQL.
// Capabilities are stored as an array of stable names so the enumeration can
// be reordered in code without a data migration.
type StaffRepository struct {
	db DB
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(db DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// Get retrieves the staff record for a user.
func (r *StaffRepository) Get(ctx context.Context, userID ulid.ULID) (*identity.StaffRecord, error) {
	var (
		idStr string
		names []string
		rec   identity.StaffRecord
	)
	err := r.db.QueryRow(ctx, `
		SELECT user_id, capabilities, created_at, updated_at
		FROM staff_permissions
		WHERE user_id = $1
	`, userID.String()).Scan(&idStr, &names, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("STAFF_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("STAFF_GET_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}

	rec.UserID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("STAFF_INVALID_USER_ID").
			With("user_id", idStr).
			Wrap(err)
	}
	rec.Caps, err = parseCapabilityNames(names)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert creates or replaces the staff record for a user.
func (r *StaffRepository) Upsert(ctx context.Context, rec *identity.StaffRecord) error {
	names := capabilityNames(rec.Caps)
	_, err := r.db.Exec(ctx, `
		INSERT INTO staff_permissions (user_id, capabilities, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET capabilities = EXCLUDED.capabilities, updated_at = EXCLUDED.updated_at
	`, rec.UserID.String(), names, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return oops.Code("STAFF_UPSERT_FAILED").
			With("user_id", rec.UserID.String()).
			Wrap(err)
	}
	return nil
}

// Delete removes the staff record, demoting the user.
func (r *StaffRepository) Delete(ctx context.Context, userID ulid.ULID) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM staff_permissions WHERE user_id = $1
	`, userID.String())
	if err != nil {
		return oops.Code("STAFF_DELETE_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("STAFF_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// capabilityNames flattens a Set to its stored name list.
func capabilityNames(s access.Set) []string {
	caps := s.Capabilities()
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.String()
	}
	return names
}

// parseCapabilityNames rebuilds a Set from stored names. An unknown name is
// a corrupt row, not a silently dropped grant.
func parseCapabilityNames(names []string) (access.Set, error) {
	var s access.Set
	for _, name := range names {
		c, err := access.ParseCapability(name)
		if err != nil {
			return 0, oops.Code("STAFF_INVALID_CAPABILITY").
				With("name", name).
				Errorf("capability name %q is not recognized", name)
		}
		s = s.Grant(c)
	}
	return s, nil
}

// Compile-time interface check.
var _ identity.StaffRepository = (*StaffRepository)(nil)
