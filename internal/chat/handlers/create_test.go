package handlers

import (
	"context"
	"testing"
	"time"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
	"relationship-mediator/pkg/log"
)

func TestSessionCreation(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies To Create Intent", func(t *testing.T) {
		h := NewSessionCreation(log.NewNop(), &fakeSessionRepo{}, nil, newFakePendingStore(), nil, nil)
		ok, err := h.AppliesTo(ctx, &chat.HandlerRequest{
			Detection: chat.DetectionResult{Intent: chat.IntentCreateSession},
		})
		if err != nil || !ok {
			t.Errorf("expected applicable, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("Applies To In Flight Flow Regardless Of Intent", func(t *testing.T) {
		h := NewSessionCreation(log.NewNop(), &fakeSessionRepo{}, nil, newFakePendingStore(), nil, nil)
		ok, _ := h.AppliesTo(ctx, &chat.HandlerRequest{
			Detection: chat.DetectionResult{Intent: chat.IntentUnknown},
			Pending:   &chat.PendingState{Kind: chat.PendingSessionCreation},
		})
		if !ok {
			t.Error("expected applicable while a creation flow is in flight")
		}
	})

	t.Run("Not Applicable Without Intent Or Flow", func(t *testing.T) {
		h := NewSessionCreation(log.NewNop(), &fakeSessionRepo{}, nil, newFakePendingStore(), nil, nil)
		ok, _ := h.AppliesTo(ctx, &chat.HandlerRequest{
			Detection: chat.DetectionResult{Intent: chat.IntentUnknown},
		})
		if ok {
			t.Error("expected not applicable")
		}
	})

	t.Run("Asks For Name First", func(t *testing.T) {
		pending := newFakePendingStore()
		h := NewSessionCreation(log.NewNop(), &fakeSessionRepo{}, nil, pending, nil, nil)

		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Message:   "I want to fix things with my partner",
			Detection: chat.DetectionResult{Intent: chat.IntentCreateSession},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Message == "" {
			t.Error("reply must not be empty")
		}
		state := pending.Get("u1")
		if state == nil || state.Step != chat.StepGatheringName {
			t.Errorf("expected GATHERING_NAME pending state, got %+v", state)
		}
	})

	t.Run("Asks For Contact When Name Known", func(t *testing.T) {
		pending := newFakePendingStore()
		h := NewSessionCreation(log.NewNop(), &fakeSessionRepo{}, nil, pending, nil, nil)

		_, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:   testScope(),
			Message: "I want to work things out with Sarah",
			Detection: chat.DetectionResult{
				Intent: chat.IntentCreateSession,
				Person: &model.Person{FirstName: "Sarah"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		state := pending.Get("u1")
		if state == nil || state.Step != chat.StepGatheringContact || state.Person.FirstName != "Sarah" {
			t.Errorf("expected GATHERING_CONTACT for Sarah, got %+v", state)
		}
	})

	t.Run("Extracts Contact From Mid Flow Answer", func(t *testing.T) {
		pending := newFakePendingStore()
		pending.Set("u1", chat.PendingState{
			Kind:   chat.PendingSessionCreation,
			Person: model.Person{FirstName: "Sarah"},
			Step:   chat.StepGatheringContact,
		})
		h := NewSessionCreation(log.NewNop(), &fakeSessionRepo{}, nil, pending, nil, nil)

		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Message:   "her email is sarah@example.com",
			Detection: chat.DetectionResult{Intent: chat.IntentUnknown},
			Pending:   pending.Get("u1"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		state := pending.Get("u1")
		if state == nil || state.Step != chat.StepConfirming {
			t.Fatalf("expected CONFIRMING, got %+v", state)
		}
		if !state.Person.HasContact() || state.Person.Contact.Value != "sarah@example.com" {
			t.Errorf("expected extracted email, got %+v", state.Person.Contact)
		}
		if len(result.Actions) != 2 {
			t.Errorf("expected confirm/cancel actions, got %+v", result.Actions)
		}
	})

	t.Run("Confirmation Creates Session And Sends Invite", func(t *testing.T) {
		pending := newFakePendingStore()
		pending.Set("u1", chat.PendingState{
			Kind: chat.PendingSessionCreation,
			Person: model.Person{
				FirstName: "Sarah",
				Contact:   &model.ContactMethod{Kind: model.ContactEmail, Value: "sarah@example.com"},
			},
			Step: chat.StepConfirming,
		})
		repo := &fakeSessionRepo{
			createSessionFn: func(ctx context.Context, opt repository.CreateSessionOptions) (model.Session, error) {
				if opt.Partner.FirstName != "Sarah" {
					t.Errorf("unexpected partner %+v", opt.Partner)
				}
				return model.Session{ID: "s-new", PartnerName: "Sarah", Status: model.StatusInvited}, nil
			},
		}
		inviter := newRecordingInviter()
		h := NewSessionCreation(log.NewNop(), repo, nil, pending, inviter, nil)

		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Message:   "yes please",
			Detection: chat.DetectionResult{Intent: chat.IntentUnknown},
			Pending:   pending.Get("u1"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ActionType != chat.ActionCreated {
			t.Errorf("expected SESSION_CREATED, got %s", result.ActionType)
		}
		if result.SessionChange == nil || result.SessionChange.Type != "created" || result.SessionChange.SessionID != "s-new" {
			t.Errorf("unexpected session change: %+v", result.SessionChange)
		}
		if pending.Get("u1") != nil {
			t.Error("expected pending state cleared after creation")
		}

		select {
		case <-inviter.done:
		case <-time.After(time.Second):
			t.Fatal("expected invitation send")
		}
		if sent := inviter.sentTo(); len(sent) != 1 || sent[0].FirstName != "Sarah" {
			t.Errorf("unexpected invitations: %+v", sent)
		}
	})

	t.Run("Declining Cancels Flow", func(t *testing.T) {
		pending := newFakePendingStore()
		pending.Set("u1", chat.PendingState{
			Kind: chat.PendingSessionCreation,
			Person: model.Person{
				FirstName: "Sarah",
				Contact:   &model.ContactMethod{Kind: model.ContactEmail, Value: "sarah@example.com"},
			},
			Step: chat.StepConfirming,
		})
		h := NewSessionCreation(log.NewNop(), &fakeSessionRepo{}, nil, pending, nil, nil)

		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Message:   "no, not yet",
			Detection: chat.DetectionResult{Intent: chat.IntentUnknown},
			Pending:   pending.Get("u1"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SessionChange != nil {
			t.Error("declining must not create a session")
		}
		if pending.Get("u1") != nil {
			t.Error("expected pending state cleared after decline")
		}
	})

	t.Run("Create Failure Keeps Flow And Degrades", func(t *testing.T) {
		pending := newFakePendingStore()
		pending.Set("u1", chat.PendingState{
			Kind: chat.PendingSessionCreation,
			Person: model.Person{
				FirstName: "Sarah",
				Contact:   &model.ContactMethod{Kind: model.ContactEmail, Value: "sarah@example.com"},
			},
			Step: chat.StepConfirming,
		})
		repo := &fakeSessionRepo{
			createSessionFn: func(ctx context.Context, opt repository.CreateSessionOptions) (model.Session, error) {
				return model.Session{}, context.DeadlineExceeded
			},
		}
		h := NewSessionCreation(log.NewNop(), repo, nil, pending, nil, nil)

		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Message:   "yes",
			Detection: chat.DetectionResult{Intent: chat.IntentUnknown},
			Pending:   pending.Get("u1"),
		})
		if err != nil {
			t.Fatalf("expected degraded reply, got error %v", err)
		}
		if result.Message == "" {
			t.Error("degraded reply must not be empty")
		}
		if pending.Get("u1") == nil {
			t.Error("expected pending state kept so the user can retry")
		}
	})
}

func TestExtractContact(t *testing.T) {
	cases := []struct {
		name    string
		message string
		kind    model.ContactKind
		value   string
	}{
		{"Email", "you can reach her at sarah@example.com thanks", model.ContactEmail, "sarah@example.com"},
		{"Email With Punctuation", "it's sarah@example.com.", model.ContactEmail, "sarah@example.com"},
		{"Phone", "her number is +1 555 123 4567", model.ContactPhone, "+15551234567"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			contact := extractContact(tc.message)
			if contact == nil {
				t.Fatal("expected a contact")
			}
			if contact.Kind != tc.kind || contact.Value != tc.value {
				t.Errorf("expected %s %q, got %+v", tc.kind, tc.value, contact)
			}
		})
	}

	t.Run("None", func(t *testing.T) {
		if contact := extractContact("I don't have it on me"); contact != nil {
			t.Errorf("expected nil, got %+v", contact)
		}
	})
}
