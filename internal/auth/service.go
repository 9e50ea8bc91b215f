// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	"github.com/pixelhaven/pixelhaven/internal/identity"
)

// dummyPasswordHash is verified when a username doesn't resolve, keeping
// login latency uniform so usernames can't be enumerated by timing.
// This is NOT a real credential and will never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service provides login, logout, and request-identity resolution.
type Service struct {
	users    identity.UserRepository
	staff    identity.StaffRepository
	sessions SessionRepository
	hasher   PasswordHasher
}

// NewService creates a new auth Service.
func NewService(users identity.UserRepository, staff identity.StaffRepository, sessions SessionRepository, hasher PasswordHasher) *Service {
	return &Service{
		users:    users,
		staff:    staff,
		sessions: sessions,
		hasher:   hasher,
	}
}

// Login authenticates a user and creates a session.
// Returns the session and its plaintext token. Banned accounts are refused
// after credential verification so the refusal doesn't leak validity.
func (s *Service) Login(ctx context.Context, username, password, ipAddress string) (*Session, string, error) {
	user, lookupErr := s.users.GetByUsername(ctx, username)

	targetHash := dummyPasswordHash
	userExists := false
	switch {
	case lookupErr == nil:
		targetHash = user.PasswordHash
		userExists = true
	case errors.Is(lookupErr, identity.ErrNotFound):
		// keep the dummy hash
	default:
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get user by username").
			Wrap(lookupErr)
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !userExists {
			return nil, "", errInvalidCredentials()
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if !userExists || !valid {
		return nil, "", errInvalidCredentials()
	}

	if user.Banned {
		return nil, "", oops.Code("AUTH_ACCOUNT_BANNED").Errorf("account is banned")
	}

	token, hash, err := GenerateToken()
	if err != nil {
		return nil, "", err
	}
	session, err := NewSession(user.ID, hash, ipAddress)
	if err != nil {
		return nil, "", err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "create session").
			Wrap(err)
	}
	return session, token, nil
}

// Logout removes the session identified by the bearer token.
// Unknown tokens are a no-op, not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	session, err := s.sessions.GetByTokenHash(ctx, HashToken(token))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").Wrap(err)
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return oops.Code("AUTH_LOGOUT_FAILED").Wrap(err)
	}
	return nil
}

// ResolveActor maps a bearer token to the acting identity, loading the
// staff capability record when one exists. Unknown, expired, and banned
// tokens all resolve to the anonymous actor without error; callers decide
// whether anonymity is acceptable for the operation.
func (s *Service) ResolveActor(ctx context.Context, token string) (identity.Actor, error) {
	if token == "" {
		return identity.Anonymous, nil
	}

	session, err := s.sessions.GetByTokenHash(ctx, HashToken(token))
	if errors.Is(err, ErrNotFound) {
		return identity.Anonymous, nil
	}
	if err != nil {
		return identity.Anonymous, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get session").
			Wrap(err)
	}
	if session.IsExpiredAt(time.Now()) {
		return identity.Anonymous, nil
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if errors.Is(err, identity.ErrNotFound) {
		return identity.Anonymous, nil
	}
	if err != nil {
		return identity.Anonymous, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get user").
			Wrap(err)
	}
	if user.Banned {
		return identity.Anonymous, nil
	}

	var staffRec *identity.StaffRecord
	staffRec, err = s.staff.Get(ctx, user.ID)
	if errors.Is(err, identity.ErrNotFound) {
		staffRec = nil
	} else if err != nil {
		return identity.Anonymous, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get staff record").
			Wrap(err)
	}

	// Best effort; a stale last-seen timestamp is not worth failing the request.
	_ = s.sessions.Touch(ctx, session.ID, time.Now()) //nolint:errcheck

	return identity.NewActor(user, staffRec), nil
}

func errInvalidCredentials() error {
	return oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid username or password")
}
