// Package notify delivers push notifications for session events.
package notify

import (
	"context"
	"fmt"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/session/repository"
	"relationship-mediator/pkg/expopush"
	"relationship-mediator/pkg/log"
)

// pushSender is the slice of pkg/expopush the notifier needs.
type pushSender interface {
	Send(ctx context.Context, msg expopush.PushMessage) error
}

// PushNotifier sends Expo push notifications when sessions are created or
// switched. Users without a registered push token are skipped silently.
type PushNotifier struct {
	l      log.Logger
	sender pushSender
	repo   repository.SessionRepository
}

// NewPushNotifier creates an Expo-backed notifier.
func NewPushNotifier(l log.Logger, sender pushSender, repo repository.SessionRepository) *PushNotifier {
	return &PushNotifier{
		l:      l,
		sender: sender,
		repo:   repo,
	}
}

var _ chat.Notifier = (*PushNotifier)(nil)

// NotifySessionChange pushes a notification describing the change to the
// user's registered device.
func (n *PushNotifier) NotifySessionChange(ctx context.Context, userID string, change chat.SessionChange) error {
	token, err := n.repo.PushTokenForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up push token for user %s: %w", userID, err)
	}
	if token == "" {
		n.l.Debugf(ctx, "notify: user %s has no push token, skipping", userID)
		return nil
	}

	title, body := describeChange(change)
	msg := expopush.PushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data: map[string]interface{}{
			"type":       change.Type,
			"session_id": change.SessionID,
		},
	}

	if err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to push %s notification to user %s: %w", change.Type, userID, err)
	}
	return nil
}

func describeChange(change chat.SessionChange) (title, body string) {
	partner := change.Session.PartnerName
	switch change.Type {
	case "created":
		if partner != "" {
			return "Session started", fmt.Sprintf("Your session with %s is ready. We sent them an invitation.", partner)
		}
		return "Session started", "Your new session is ready."
	case "switched":
		if partner != "" {
			return "Switched sessions", fmt.Sprintf("You're now talking about things with %s.", partner)
		}
		return "Switched sessions", "You've switched to another conversation."
	default:
		return "Session update", "One of your sessions was updated."
	}
}
