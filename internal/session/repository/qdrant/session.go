// Package qdrant implements the session vector repository: session topics are
// embedded with Voyage and searched in Qdrant for semantic recall.
package qdrant

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
	pkgLog "relationship-mediator/pkg/log"
	pkgQdrant "relationship-mediator/pkg/qdrant"
	"relationship-mediator/pkg/voyage"
)

// VectorSize matches the Voyage embedding dimensionality.
const VectorSize = 1024

const defaultSearchLimit = 3

type implRepository struct {
	client         *pkgQdrant.Client
	embedder       voyage.IVoyage
	collectionName string
	l              pkgLog.Logger
}

// New creates a Qdrant-backed session vector repository.
func New(client *pkgQdrant.Client, embedder voyage.IVoyage, collectionName string, l pkgLog.Logger) repository.VectorRepository {
	return &implRepository{
		client:         client,
		embedder:       embedder,
		collectionName: collectionName,
		l:              l,
	}
}

func (r *implRepository) IndexSession(ctx context.Context, userID string, session model.Session) error {
	vectors, err := r.embedder.Embed(ctx, []string{buildEmbeddingText(session)})
	if err != nil || len(vectors) == 0 {
		r.l.Errorf(ctx, "session vectors: failed to embed session %s: %v", session.ID, err)
		return fmt.Errorf("failed to generate embedding: %w", err)
	}

	point := pkgQdrant.Point{
		// Qdrant point ids must be UUIDs; derive one deterministically
		// from the session id so re-indexing overwrites.
		ID:     sessionIDToUUID(session.ID),
		Vector: vectors[0],
		Payload: map[string]interface{}{
			"session_id":   session.ID,
			"user_id":      userID,
			"partner_name": session.PartnerName,
			"topic":        session.Topic,
		},
	}

	req := pkgQdrant.UpsertPointsRequest{Points: []pkgQdrant.Point{point}}
	if err := r.client.UpsertPoints(ctx, r.collectionName, req); err != nil {
		r.l.Errorf(ctx, "session vectors: failed to upsert session %s: %v", session.ID, err)
		return fmt.Errorf("failed to upsert point: %w", err)
	}
	return nil
}

func (r *implRepository) SearchSessions(ctx context.Context, opt repository.SearchSessionsOptions) ([]repository.SearchResult, error) {
	vectors, err := r.embedder.Embed(ctx, []string{opt.Query})
	if err != nil || len(vectors) == 0 {
		r.l.Errorf(ctx, "session vectors: failed to embed query: %v", err)
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	limit := opt.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	searchReq := pkgQdrant.SearchRequest{
		Vector:      vectors[0],
		Limit:       limit,
		WithPayload: true,
		Filter: &pkgQdrant.Filter{
			Must: []pkgQdrant.FieldMatch{
				{Key: "user_id", Match: pkgQdrant.MatchValue{Value: opt.UserID}},
			},
		},
	}

	resp, err := r.client.SearchPoints(ctx, r.collectionName, searchReq)
	if err != nil {
		r.l.Errorf(ctx, "session vectors: search failed: %v", err)
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]repository.SearchResult, 0, len(resp.Result))
	for _, scored := range resp.Result {
		sessionID, ok := scored.Payload["session_id"].(string)
		if !ok {
			r.l.Errorf(ctx, "session vectors: session_id missing in payload for point %v", scored.ID)
			continue
		}
		partnerName, _ := scored.Payload["partner_name"].(string)
		results = append(results, repository.SearchResult{
			SessionID:   sessionID,
			PartnerName: partnerName,
			Score:       scored.Score,
		})
	}
	return results, nil
}

func (r *implRepository) DeleteSession(ctx context.Context, sessionID string) error {
	if err := r.client.DeletePoints(ctx, r.collectionName, []string{sessionIDToUUID(sessionID)}); err != nil {
		r.l.Errorf(ctx, "session vectors: failed to delete session %s: %v", sessionID, err)
		return fmt.Errorf("failed to delete point: %w", err)
	}
	return nil
}

// sessionIDToUUID derives a deterministic UUID v5 from a backend session id.
func sessionIDToUUID(sessionID string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(sessionID)).String()
}

// buildEmbeddingText combines the parts of a session worth recalling by
// similarity.
func buildEmbeddingText(session model.Session) string {
	parts := []string{session.PartnerName}
	if session.Topic != "" {
		parts = append(parts, session.Topic)
	}
	return strings.Join(parts, "\n")
}
