package handlers

import (
	"context"
	"testing"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/pkg/log"
)

func TestSessionSwitch(t *testing.T) {
	ctx := context.Background()

	openSessions := []model.Session{
		{ID: "s1", PartnerName: "Sarah", Status: model.StatusActive, Stage: model.StageWitness},
		{ID: "s2", PartnerName: "Sam", Status: model.StatusPaused, Stage: model.StagePerspective},
	}

	t.Run("Not Applicable Without Reference", func(t *testing.T) {
		h := NewSessionSwitch(log.NewNop(), &fakeSessionRepo{}, newFakePendingStore())
		ok, _ := h.AppliesTo(ctx, &chat.HandlerRequest{
			Detection: chat.DetectionResult{Intent: chat.IntentSwitchSession},
		})
		if ok {
			t.Error("expected not applicable without a session id or person")
		}
	})

	t.Run("Resolves By Session ID", func(t *testing.T) {
		repo := &fakeSessionRepo{
			sessionByIDFn: func(ctx context.Context, userID, sessionID string) (*model.Session, error) {
				if sessionID != "s2" {
					t.Errorf("unexpected lookup %q", sessionID)
				}
				return &openSessions[1], nil
			},
		}
		h := NewSessionSwitch(log.NewNop(), repo, newFakePendingStore())

		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Detection: chat.DetectionResult{Intent: chat.IntentSwitchSession, SessionID: "s2"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ActionType != chat.ActionSwitched {
			t.Errorf("expected SESSION_SWITCHED, got %s", result.ActionType)
		}
		if result.SessionChange == nil || result.SessionChange.SessionID != "s2" || result.SessionChange.Type != "switched" {
			t.Errorf("unexpected session change: %+v", result.SessionChange)
		}
	})

	t.Run("Resolves By First Name Substring", func(t *testing.T) {
		h := NewSessionSwitch(log.NewNop(), &fakeSessionRepo{}, newFakePendingStore())

		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:        testScope(),
			OpenSessions: openSessions,
			Detection: chat.DetectionResult{
				Intent: chat.IntentSwitchSession,
				Person: &model.Person{FirstName: "sam"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SessionChange == nil || result.SessionChange.SessionID != "s2" {
			t.Errorf("expected switch to s2, got %+v", result.SessionChange)
		}
	})

	t.Run("Name Prefix Takes First In List Order", func(t *testing.T) {
		// "Sa" matches both Sarah and Sam; list order decides.
		h := NewSessionSwitch(log.NewNop(), &fakeSessionRepo{}, newFakePendingStore())

		result, _ := h.Execute(ctx, &chat.HandlerRequest{
			Scope:        testScope(),
			OpenSessions: openSessions,
			Detection: chat.DetectionResult{
				Intent: chat.IntentSwitchSession,
				Person: &model.Person{FirstName: "Sa"},
			},
		})
		if result.SessionChange == nil || result.SessionChange.SessionID != "s1" {
			t.Errorf("expected first match s1, got %+v", result.SessionChange)
		}
	})

	t.Run("Not Found Seeds Creation Flow", func(t *testing.T) {
		pending := newFakePendingStore()
		h := NewSessionSwitch(log.NewNop(), &fakeSessionRepo{}, pending)

		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:        testScope(),
			OpenSessions: openSessions,
			Detection: chat.DetectionResult{
				Intent: chat.IntentSwitchSession,
				Person: &model.Person{FirstName: "Maya"},
			},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ActionType != chat.ActionNotFound {
			t.Errorf("expected NOT_FOUND, got %s", result.ActionType)
		}
		if len(result.Actions) != 2 {
			t.Errorf("expected two suggested actions, got %+v", result.Actions)
		}
		state := pending.Get("u1")
		if state == nil || state.Kind != chat.PendingSessionCreation || state.Person.FirstName != "Maya" {
			t.Errorf("expected seeded creation flow for Maya, got %+v", state)
		}
	})

	t.Run("Terminal Session By ID Is Not Found", func(t *testing.T) {
		repo := &fakeSessionRepo{
			sessionByIDFn: func(ctx context.Context, userID, sessionID string) (*model.Session, error) {
				return &model.Session{ID: "s9", PartnerName: "Alex", Status: model.StatusCompleted}, nil
			},
		}
		h := NewSessionSwitch(log.NewNop(), repo, newFakePendingStore())

		result, _ := h.Execute(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Detection: chat.DetectionResult{Intent: chat.IntentSwitchSession, SessionID: "s9"},
		})
		if result.ActionType != chat.ActionNotFound {
			t.Errorf("expected NOT_FOUND for terminal session, got %s", result.ActionType)
		}
	})
}
