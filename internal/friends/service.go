// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pixelhaven Contributors

package friends

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/pixelhaven/pixelhaven/internal/identity"
	"github.com/pixelhaven/pixelhaven/pkg/pagination"
)

// PageSize is the number of requests per listing page.
const PageSize = 9

// SettingsSource provides the recipient's friend request setting.
// identity.UserRepository satisfies it.
type SettingsSource interface {
	GetSettings(ctx context.Context, userID ulid.ULID) (*identity.Settings, error)
}

// Service implements friend request operations over a Repository.
type Service struct {
	repo     Repository
	settings SettingsSource
}

// NewService creates a new friends Service.
func NewService(repo Repository, settings SettingsSource) *Service {
	return &Service{repo: repo, settings: settings}
}

// Send creates a pending request from senderID to recipientID.
func (s *Service) Send(ctx context.Context, senderID, recipientID ulid.ULID) (*Request, error) {
	if senderID == recipientID {
		return nil, oops.Code("FRIEND_SELF_REQUEST").
			With("user_id", senderID.String()).
			Wrap(ErrSelfRequest)
	}

	settings, err := s.settings.GetSettings(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !settings.AcceptsFriends {
		return nil, oops.Code("FRIEND_NOT_ACCEPTING").
			With("recipient_id", recipientID.String()).
			Wrap(ErrNotAccepting)
	}

	already, err := s.repo.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, oops.Code("FRIEND_ALREADY_FRIENDS").
			With("sender_id", senderID.String()).
			With("recipient_id", recipientID.String()).
			Wrap(ErrAlreadyFriends)
	}

	// A pending request in either direction blocks a new one.
	for _, pair := range [][2]ulid.ULID{{senderID, recipientID}, {recipientID, senderID}} {
		pending, err := s.repo.RequestPending(ctx, pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		if pending {
			return nil, oops.Code("FRIEND_REQUEST_PENDING").
				With("sender_id", senderID.String()).
				With("recipient_id", recipientID.String()).
				Wrap(ErrRequestPending)
		}
	}

	req := &Request{
		ID:          ulid.Make(),
		SenderID:    senderID,
		RecipientID: recipientID,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Requests lists one page of userID's pending requests, newest first.
func (s *Service) Requests(ctx context.Context, userID ulid.ULID, page int) (pagination.Page[RequestRow], error) {
	var empty pagination.Page[RequestRow]

	total, err := s.repo.CountRequests(ctx, userID)
	if err != nil {
		return empty, err
	}

	page = pagination.ClampPage(page)
	rows, err := s.repo.Requests(ctx, userID, pagination.Offset(page, PageSize), PageSize)
	if err != nil {
		return empty, err
	}

	return pagination.NewPage(rows, page, PageSize, total), nil
}

// Respond resolves a pending request on behalf of actorID. Only the
// recipient may respond; anyone else sees the request as missing.
func (s *Service) Respond(ctx context.Context, actorID, requestID ulid.ULID, action Action) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.RecipientID != actorID {
		return oops.Code("FRIEND_REQUEST_NOT_FOUND").
			With("id", requestID.String()).
			Wrap(ErrNotFound)
	}

	switch action {
	case ActionAccept:
		return s.repo.Accept(ctx, requestID)
	case ActionDecline:
		return s.repo.Decline(ctx, requestID)
	}
	return oops.Code("FRIEND_INVALID_ACTION").Wrap(ErrInvalidAction)
}
