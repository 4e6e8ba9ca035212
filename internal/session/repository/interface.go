package repository

import (
	"context"

	"relationship-mediator/internal/model"
)

// SessionRepository is the backend store for mediation sessions and the
// user profile bits the router needs.
type SessionRepository interface {
	// OpenSessionsForUser returns the caller's non-terminal sessions,
	// most recently active first.
	OpenSessionsForUser(ctx context.Context, userID string) ([]model.Session, error)

	// SessionByID fetches one session scoped to the caller's memberships.
	// Returns (nil, nil) when the caller has no such session.
	SessionByID(ctx context.Context, userID, sessionID string) (*model.Session, error)

	CreateSession(ctx context.Context, opt CreateSessionOptions) (model.Session, error)

	// PushTokenForUser returns the user's push token, or "" when none is
	// registered.
	PushTokenForUser(ctx context.Context, userID string) (string, error)
}

// VectorRepository indexes session topics for semantic recall.
type VectorRepository interface {
	IndexSession(ctx context.Context, userID string, session model.Session) error
	SearchSessions(ctx context.Context, opt SearchSessionsOptions) ([]SearchResult, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// CreateSessionOptions carries everything needed to open a session.
type CreateSessionOptions struct {
	UserID  string
	Partner model.Person
	Topic   string
}

// SearchSessionsOptions defines semantic search parameters.
type SearchSessionsOptions struct {
	UserID string
	Query  string
	Limit  int
}

// SearchResult is one semantic search hit.
type SearchResult struct {
	SessionID   string
	PartnerName string
	Score       float64
}
