package witness

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

const (
	// DefaultRetention is how long pre-session messages are kept.
	DefaultRetention = 24 * time.Hour

	maxUsers          = 10000
	maxEntriesPerUser = 50
)

// Log is an in-memory pre-session message log. Each user's log expires as a
// whole once the user has been quiet for the retention window; expiry is
// applied lazily on read by the underlying cache.
type Log struct {
	l       log.Logger
	entries *expirable.LRU[string, []chat.WitnessEntry]
}

// NewLog creates a pre-session log with the given retention. Zero means the
// default.
func NewLog(l log.Logger, retention time.Duration) *Log {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Log{
		l:       l,
		entries: expirable.NewLRU[string, []chat.WitnessEntry](maxUsers, nil, retention),
	}
}

// Append records one pre-session message for the user, assigning it an id.
func (w *Log) Append(ctx context.Context, userID string, entry chat.WitnessEntry) {
	entry.ID = uuid.NewString()

	existing, _ := w.entries.Get(userID)
	existing = append(existing, entry)
	if len(existing) > maxEntriesPerUser {
		existing = existing[len(existing)-maxEntriesPerUser:]
	}
	w.entries.Add(userID, existing)
}

// Entries returns the user's pre-session messages in append order.
func (w *Log) Entries(userID string) []chat.WitnessEntry {
	entries, _ := w.entries.Get(userID)
	return entries
}
