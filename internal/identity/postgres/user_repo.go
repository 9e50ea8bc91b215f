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

	"github.com/pixelhaven/pixelhaven/internal/identity"
)

// userColumns is the select list shared by user lookups.
const userColumns = `id, username, description, email, email_verified, password_hash,
	       currency, membership_until, banned, last_ip, created_at, updated_at`

// UserRepository implements identity.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user and its default settings row in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *identity.User) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.Exec(ctx, `
		INSERT INTO users (
			id, username, description, email, email_verified, password_hash,
			currency, membership_until, banned, last_ip, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		user.ID.String(),
		user.Username,
		user.Description,
		user.Email,
		user.EmailVerified,
		user.PasswordHash,
		user.Currency,
		user.MembershipUntil,
		user.Banned,
		user.LastIP,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_USERNAME_TAKEN").
				With("username", user.Username).
				Wrap(err)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}

	s := identity.DefaultSettings(user.ID)
	_, err = tx.Exec(ctx, `
		INSERT INTO user_settings (
			user_id, public_inventory, accepts_messages, accepts_friends,
			accepts_trades, theme
		) VALUES ($1, $2, $3, $4, $5, $6)
	`, s.UserID.String(), s.PublicInventory, s.AcceptsMessages, s.AcceptsFriends, s.AcceptsTrades, s.Theme)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert default settings").
			Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "commit").
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id ulid.ULID) (*identity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username (case-insensitive).
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*identity.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_USERNAME_FAILED").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

// Update updates an existing user.
func (r *UserRepository) Update(ctx context.Context, user *identity.User) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET
			username = $2,
			description = $3,
			email = $4,
			email_verified = $5,
			currency = $6,
			membership_until = $7,
			banned = $8,
			last_ip = $9,
			updated_at = $10
		WHERE id = $1
	`,
		user.ID.String(),
		user.Username,
		user.Description,
		user.Email,
		user.EmailVerified,
		user.Currency,
		user.MembershipUntil,
		user.Banned,
		user.LastIP,
		user.UpdatedAt,
	)
	if err != nil {
		return oops.Code("USER_UPDATE_FAILED").
			With("id", user.ID.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", user.ID.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// UpdatePassword updates only the password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`, id.String(), passwordHash, time.Now())
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// SetBanned flips the banned flag.
func (r *UserRepository) SetBanned(ctx context.Context, id ulid.ULID, banned bool) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET banned = $2, updated_at = $3
		WHERE id = $1
	`, id.String(), banned, time.Now())
	if err != nil {
		return oops.Code("USER_SET_BANNED_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(identity.ErrNotFound)
	}
	return nil
}

// AdjustCurrency atomically adds delta to the user's balance. The guard in
// the WHERE clause keeps the balance from going negative under concurrent
// adjustments; distinguishing the two zero-row causes takes a second read.
func (r *UserRepository) AdjustCurrency(ctx context.Context, id ulid.ULID, delta int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx, `
		UPDATE users SET currency = currency + $2, updated_at = $3
		WHERE id = $1 AND currency + $2 >= 0
		RETURNING currency
	`, id.String(), delta, time.Now()).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		checkErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id.String()).Scan(&exists)
		if checkErr != nil {
			return 0, oops.Code("USER_ADJUST_CURRENCY_FAILED").
				With("id", id.String()).
				Wrap(checkErr)
		}
		if !exists {
			return 0, oops.Code("USER_NOT_FOUND").
				With("id", id.String()).
				Wrap(identity.ErrNotFound)
		}
		return 0, oops.Code("USER_INSUFFICIENT_CURRENCY").
			With("id", id.String()).
			With("delta", delta).
			Errorf("currency balance cannot go negative")
	}
	if err != nil {
		return 0, oops.Code("USER_ADJUST_CURRENCY_FAILED").
			With("id", id.String()).
			Wrap(err)
	}
	return balance, nil
}

// GetSettings retrieves the settings row for a user.
func (r *UserRepository) GetSettings(ctx context.Context, userID ulid.ULID) (*identity.Settings, error) {
	var (
		idStr string
		s     identity.Settings
	)
	err := r.db.QueryRow(ctx, `
		SELECT user_id, public_inventory, accepts_messages, accepts_friends,
		       accepts_trades, theme
		FROM user_settings
		WHERE user_id = $1
	`, userID.String()).Scan(&idStr, &s.PublicInventory, &s.AcceptsMessages, &s.AcceptsFriends, &s.AcceptsTrades, &s.Theme)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SETTINGS_NOT_FOUND").
			With("user_id", userID.String()).
			Wrap(identity.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SETTINGS_GET_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	s.UserID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SETTINGS_INVALID_USER_ID").
			With("user_id", idStr).
			Wrap(err)
	}
	return &s, nil
}

// Badges lists the user's badges, oldest first.
func (r *UserRepository) Badges(ctx context.Context, userID ulid.ULID) ([]identity.Badge, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, awarded_at
		FROM badges
		WHERE user_id = $1
		ORDER BY awarded_at, id
	`, userID.String())
	if err != nil {
		return nil, oops.Code("BADGES_QUERY_FAILED").
			With("user_id", userID.String()).
			Wrap(err)
	}
	defer rows.Close()

	badges := []identity.Badge{}
	for rows.Next() {
		var (
			b         identity.Badge
			idStr     string
			userIDStr string
		)
		if err := rows.Scan(&idStr, &userIDStr, &b.Name, &b.AwardedAt); err != nil {
			return nil, oops.Code("BADGES_SCAN_FAILED").Wrap(err)
		}
		if b.ID, err = ulid.Parse(idStr); err != nil {
			return nil, oops.Code("BADGES_INVALID_ID").With("id", idStr).Wrap(err)
		}
		if b.UserID, err = ulid.Parse(userIDStr); err != nil {
			return nil, oops.Code("BADGES_INVALID_USER_ID").With("user_id", userIDStr).Wrap(err)
		}
		badges = append(badges, b)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("BADGES_QUERY_FAILED").Wrap(err)
	}
	return badges, nil
}

// scanUser scans a single row into a User.
// Callers handle pgx.ErrNoRows themselves.
func scanUser(row pgx.Row) (*identity.User, error) {
	var (
		u     identity.User
		idStr string
	)
	err := row.Scan(
		&idStr,
		&u.Username,
		&u.Description,
		&u.Email,
		&u.EmailVerified,
		&u.PasswordHash,
		&u.Currency,
		&u.MembershipUntil,
		&u.Banned,
		&u.LastIP,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").Wrap(err)
	}
	u.ID, err = ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_INVALID_ID").
			With("id", idStr).
			Wrap(err)
	}
	return &u, nil
}

// Compile-time interface check.
var _ identity.UserRepository = (*UserRepository)(nil)
