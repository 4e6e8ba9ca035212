package handlers

import (
	"context"
	"testing"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/chat/registry"
	"relationship-mediator/pkg/log"
)

func TestContinuation(t *testing.T) {
	ctx := context.Background()
	h := NewContinuation(log.NewNop())

	t.Run("Applies Only With Active Session", func(t *testing.T) {
		ok, err := h.AppliesTo(ctx, &chat.HandlerRequest{
			Scope:         testScope(),
			ActiveSession: activeSession(),
			Detection:     chat.DetectionResult{Intent: chat.IntentContinueConversation},
		})
		if err != nil || !ok {
			t.Errorf("expected applicable with an active session, got %v err %v", ok, err)
		}

		ok, err = h.AppliesTo(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Detection: chat.DetectionResult{Intent: chat.IntentContinueConversation},
		})
		if err != nil || ok {
			t.Errorf("expected not applicable without an active session, got %v err %v", ok, err)
		}
	})

	t.Run("Active Session Passes Through", func(t *testing.T) {
		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:         testScope(),
			ActiveSession: activeSession(),
			Detection:     chat.DetectionResult{Intent: chat.IntentContinueConversation},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ActionType != chat.ActionPassThrough {
			t.Errorf("expected PASS_THROUGH, got %s", result.ActionType)
		}
		if result.PassThrough == nil || result.PassThrough.SessionID != "s1" {
			t.Errorf("expected pass-through to s1, got %+v", result.PassThrough)
		}
		if result.Message != "" {
			t.Errorf("pass-through reply must be empty, got %q", result.Message)
		}
	})

	t.Run("No Active Session Falls Back", func(t *testing.T) {
		result, err := h.Execute(ctx, &chat.HandlerRequest{
			Scope:     testScope(),
			Detection: chat.DetectionResult{Intent: chat.IntentContinueConversation},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.ActionType != chat.ActionFallback {
			t.Errorf("expected FALLBACK, got %s", result.ActionType)
		}
		if result.PassThrough != nil {
			t.Error("must never pass through without an active session")
		}
		if result.Message == "" || len(result.Actions) != 2 {
			t.Errorf("expected fallback message with start/list actions, got %+v", result)
		}
	})
}

// A session-less continue-conversation message must fall through continuation
// to witnessing, so the user gets a listening reply instead of a dead end.
func TestContinuationYieldsToWitnessing(t *testing.T) {
	ctx := context.Background()

	reg := registry.New(log.NewNop())
	reg.Register(NewContinuation(log.NewNop()))
	reg.Register(NewWitnessing(log.NewNop(), &fakeResponder{}, &recordingWitnessLog{}))

	req := &chat.HandlerRequest{
		Scope:     testScope(),
		Message:   "she cancelled on me again today",
		Detection: chat.DetectionResult{Intent: chat.IntentContinueConversation},
	}

	var accepted chat.IntentHandler
	for _, h := range reg.GetHandlers(chat.IntentContinueConversation) {
		ok, err := h.AppliesTo(ctx, req)
		if err != nil {
			t.Fatalf("predicate error from %s: %v", h.ID(), err)
		}
		if ok {
			accepted = h
			break
		}
	}

	if accepted == nil {
		t.Fatal("expected a handler to accept the message")
	}
	if accepted.ID() != "witnessing" {
		t.Fatalf("expected witnessing to field the message, got %s", accepted.ID())
	}

	result, err := accepted.Execute(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ActionType == chat.ActionFallback || result.Message == "" {
		t.Errorf("expected a substantive witnessing reply, got %+v", result)
	}
}
