// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionTokenBytes  = 32 // 32 bytes = 64 hex chars
	SessionTokenExpiry = 24 * time.Hour
)

// Session is an authenticated client session. Only the SHA-256 hash of the
// bearer token is stored; the plaintext token exists client-side only.
type Session struct {
	ID         ulid.ULID
	UserID     ulid.ULID
	TokenHash  string
	IPAddress  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// NewSession creates a session for the user expiring after the default TTL.
func NewSession(userID ulid.ULID, tokenHash, ipAddress string) (*Session, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, oops.Code("SESSION_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	now := time.Now()
	return &Session{
		ID:         ulid.Make(),
		UserID:     userID,
		TokenHash:  tokenHash,
		IPAddress:  ipAddress,
		ExpiresAt:  now.Add(SessionTokenExpiry),
		CreatedAt:  now,
		LastSeenAt: now,
	}, nil
}

// IsExpiredAt reports whether the session would be expired at the given time.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.ExpiresAt)
}

// GenerateToken creates a secure random bearer token and its storable hash.
// The plaintext token is sent to the client; only the hash touches the database.
func GenerateToken() (token, hash string, err error) {
	raw := make([]byte, SessionTokenBytes)
	if _, err = rand.Read(raw); err != nil {
		return "", "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}
	token = hex.EncodeToString(raw)
	return token, HashToken(token), nil
}

// HashToken computes the SHA-256 hash of a bearer token.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// GetByTokenHash retrieves a session by its token hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)

	// Touch updates the last-seen timestamp.
	Touch(ctx context.Context, id ulid.ULID, seenAt time.Time) error

	// Delete removes a session.
	Delete(ctx context.Context, id ulid.ULID) error

	// DeleteExpired removes sessions past their expiry, returning the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
