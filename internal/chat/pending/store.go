// Package pending tracks in-progress multi-turn flows per user, with
// time-based expiry. The store is shared process state: concurrent requests
// from the same user can race on read-modify-write, and the design accepts
// last-write-wins — request arrival order is the only ordering guarantee.
package pending

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

// maxEntries bounds the store; one entry per user with an in-flight flow.
const maxEntries = 10000

// Store is an expiring per-user state map. Expired entries are dropped on
// read by the underlying cache.
type Store struct {
	l       log.Logger
	entries *expirable.LRU[string, chat.PendingState]
}

// NewStore creates a pending-state store. Entries expire ttl after their last
// write.
func NewStore(l log.Logger, ttl time.Duration) *Store {
	return &Store{
		l:       l,
		entries: expirable.NewLRU[string, chat.PendingState](maxEntries, nil, ttl),
	}
}

// Get returns the user's pending state, or nil when absent or expired.
func (s *Store) Get(userID string) *chat.PendingState {
	state, ok := s.entries.Get(userID)
	if !ok {
		return nil
	}
	return &state
}

// Set replaces the user's pending state and restarts its expiry window.
func (s *Store) Set(userID string, state chat.PendingState) {
	state.UpdatedAt = time.Now()
	if prev, ok := s.entries.Get(userID); ok && prev.Kind != state.Kind {
		s.l.Infof(context.Background(), "pending: replacing %s flow with %s flow for user %s",
			prev.Kind, state.Kind, userID)
	}
	s.entries.Add(userID, state)
}

// Clear drops the user's pending state. No-op when absent.
func (s *Store) Clear(userID string) {
	s.entries.Remove(userID)
}
