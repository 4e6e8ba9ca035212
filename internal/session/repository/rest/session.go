// Package rest implements the session repository over the backend REST API.
package rest

import (
	"context"
	"errors"
	"time"

	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
	pkgLog "relationship-mediator/pkg/log"
)

var errNotFound = errors.New("session API: not found")

func isNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

type implRepository struct {
	client *Client
	l      pkgLog.Logger
}

// New creates a REST-backed session repository.
func New(client *Client, l pkgLog.Logger) repository.SessionRepository {
	return &implRepository{client: client, l: l}
}

func (r *implRepository) OpenSessionsForUser(ctx context.Context, userID string) ([]model.Session, error) {
	dtos, err := r.client.ListSessions(ctx, userID)
	if err != nil {
		r.l.Errorf(ctx, "session repository: failed to list sessions for user %s: %v", userID, err)
		return nil, err
	}

	sessions := make([]model.Session, 0, len(dtos))
	for _, dto := range dtos {
		s := dtoToSession(dto)
		if s.Status.IsTerminal() {
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (r *implRepository) SessionByID(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	dto, err := r.client.GetSession(ctx, userID, sessionID)
	if err != nil {
		r.l.Errorf(ctx, "session repository: failed to get session %s: %v", sessionID, err)
		return nil, err
	}
	if dto == nil {
		return nil, nil
	}
	s := dtoToSession(*dto)
	return &s, nil
}

func (r *implRepository) CreateSession(ctx context.Context, opt repository.CreateSessionOptions) (model.Session, error) {
	req := CreateSessionRequest{
		UserID:           opt.UserID,
		PartnerFirstName: opt.Partner.FirstName,
		PartnerLastName:  opt.Partner.LastName,
		Topic:            opt.Topic,
	}
	if opt.Partner.Contact != nil {
		req.ContactKind = string(opt.Partner.Contact.Kind)
		req.ContactValue = opt.Partner.Contact.Value
	}

	dto, err := r.client.CreateSession(ctx, req)
	if err != nil {
		r.l.Errorf(ctx, "session repository: failed to create session for user %s: %v", opt.UserID, err)
		return model.Session{}, err
	}
	return dtoToSession(*dto), nil
}

func (r *implRepository) PushTokenForUser(ctx context.Context, userID string) (string, error) {
	token, err := r.client.GetPushToken(ctx, userID)
	if err != nil {
		r.l.Errorf(ctx, "session repository: failed to get push token for user %s: %v", userID, err)
		return "", err
	}
	return token, nil
}

// dtoToSession converts a backend session object to the internal model.
func dtoToSession(dto SessionDTO) model.Session {
	lastActivity, err := time.Parse(time.RFC3339, dto.LastActivityAt)
	if err != nil {
		lastActivity = time.Time{}
	}
	return model.Session{
		ID:             dto.ID,
		PartnerID:      dto.PartnerID,
		PartnerName:    dto.PartnerName,
		Status:         model.SessionStatus(dto.Status),
		Stage:          model.SessionStage(dto.Stage),
		Topic:          dto.Topic,
		LastActivityAt: lastActivity,
	}
}
