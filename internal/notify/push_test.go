package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
	"relationship-mediator/pkg/expopush"
	"relationship-mediator/pkg/log"
)

type fakePushSender struct {
	last  *expopush.PushMessage
	err   error
	calls int
}

func (f *fakePushSender) Send(ctx context.Context, msg expopush.PushMessage) error {
	f.calls++
	f.last = &msg
	return f.err
}

type fakeTokenRepo struct {
	token    string
	tokenErr error
}

func (f *fakeTokenRepo) OpenSessionsForUser(ctx context.Context, userID string) ([]model.Session, error) {
	return nil, nil
}

func (f *fakeTokenRepo) SessionByID(ctx context.Context, userID, sessionID string) (*model.Session, error) {
	return nil, nil
}

func (f *fakeTokenRepo) CreateSession(ctx context.Context, opt repository.CreateSessionOptions) (model.Session, error) {
	return model.Session{}, nil
}

func (f *fakeTokenRepo) PushTokenForUser(ctx context.Context, userID string) (string, error) {
	return f.token, f.tokenErr
}

func createdChange() chat.SessionChange {
	return chat.SessionChange{
		Type:      "created",
		SessionID: "s1",
		Session:   chat.SessionSummary{ID: "s1", PartnerName: "Sarah"},
	}
}

func TestPushNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("Pushes Created Notification", func(t *testing.T) {
		sender := &fakePushSender{}
		n := NewPushNotifier(log.NewNop(), sender, &fakeTokenRepo{token: "ExponentPushToken[abc]"})

		if err := n.NotifySessionChange(ctx, "u1", createdChange()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sender.last == nil {
			t.Fatal("expected a push to be sent")
		}
		if sender.last.To != "ExponentPushToken[abc]" {
			t.Errorf("unexpected recipient %q", sender.last.To)
		}
		if !strings.Contains(sender.last.Body, "Sarah") {
			t.Errorf("body should name the partner, got %q", sender.last.Body)
		}
		if sender.last.Data["session_id"] != "s1" {
			t.Errorf("data should carry the session id, got %+v", sender.last.Data)
		}
	})

	t.Run("Skips User Without Token", func(t *testing.T) {
		sender := &fakePushSender{}
		n := NewPushNotifier(log.NewNop(), sender, &fakeTokenRepo{})

		if err := n.NotifySessionChange(ctx, "u1", createdChange()); err != nil {
			t.Fatalf("missing token must be skipped without error: %v", err)
		}
		if sender.calls != 0 {
			t.Error("no push must be sent without a token")
		}
	})

	t.Run("Token Lookup Failure Is Wrapped", func(t *testing.T) {
		n := NewPushNotifier(log.NewNop(), &fakePushSender{}, &fakeTokenRepo{tokenErr: errors.New("backend down")})

		if err := n.NotifySessionChange(ctx, "u1", createdChange()); err == nil {
			t.Error("expected an error when the token lookup fails")
		}
	})

	t.Run("Sender Failure Is Wrapped", func(t *testing.T) {
		sender := &fakePushSender{err: errors.New("expo down")}
		n := NewPushNotifier(log.NewNop(), sender, &fakeTokenRepo{token: "ExponentPushToken[abc]"})

		if err := n.NotifySessionChange(ctx, "u1", createdChange()); err == nil {
			t.Error("expected an error when the push fails")
		}
	})

	t.Run("Switched Notification Names Partner", func(t *testing.T) {
		sender := &fakePushSender{}
		n := NewPushNotifier(log.NewNop(), sender, &fakeTokenRepo{token: "ExponentPushToken[abc]"})

		change := chat.SessionChange{
			Type:      "switched",
			SessionID: "s2",
			Session:   chat.SessionSummary{ID: "s2", PartnerName: "Sam"},
		}
		if err := n.NotifySessionChange(ctx, "u1", change); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(sender.last.Body, "Sam") {
			t.Errorf("body should name the partner, got %q", sender.last.Body)
		}
	})
}
