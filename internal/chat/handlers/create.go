package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
	"relationship-mediator/pkg/log"
)

const sideEffectTimeout = 10 * time.Second

// SessionCreation drives the slot-filling flow that opens a new session:
// gather the partner's name, then a contact method, confirm, then create the
// session and send the invitation.
type SessionCreation struct {
	l        log.Logger
	repo     repository.SessionRepository
	vectors  repository.VectorRepository
	pending  chat.PendingStore
	inviter  chat.InviteSender
	notifier chat.Notifier
}

// NewSessionCreation builds the session-creation handler. vectors, inviter
// and notifier may be nil; the corresponding side effects are skipped.
func NewSessionCreation(
	l log.Logger,
	repo repository.SessionRepository,
	vectors repository.VectorRepository,
	pending chat.PendingStore,
	inviter chat.InviteSender,
	notifier chat.Notifier,
) *SessionCreation {
	return &SessionCreation{
		l:        l,
		repo:     repo,
		vectors:  vectors,
		pending:  pending,
		inviter:  inviter,
		notifier: notifier,
	}
}

var _ chat.CleanupHandler = (*SessionCreation)(nil)

func (h *SessionCreation) ID() string   { return "session_creation" }
func (h *SessionCreation) Name() string { return "Session creation" }

func (h *SessionCreation) Priority() int { return PrioritySessionCreation }

// Intents includes the continuation intents so an in-flight creation flow can
// consume answers the detector classified as ordinary chat.
func (h *SessionCreation) Intents() []chat.Intent {
	return []chat.Intent{chat.IntentCreateSession, chat.IntentContinueConversation, chat.IntentUnknown}
}

func (h *SessionCreation) AppliesTo(ctx context.Context, req *chat.HandlerRequest) (bool, error) {
	if req.Detection.Intent == chat.IntentCreateSession {
		return true, nil
	}
	return req.Pending != nil && req.Pending.Kind == chat.PendingSessionCreation, nil
}

func (h *SessionCreation) Execute(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error) {
	state := h.currentState(req)

	if state.Step == chat.StepConfirming {
		return h.resolveConfirmation(ctx, req, state)
	}

	if state.Person.FirstName == "" {
		state.Step = chat.StepGatheringName
		h.pending.Set(req.Scope.UserID, state)
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message:    "I'd love to help you work through this together. Who is this with? Their first name is enough to start.",
		}, nil
	}

	if !state.Person.HasContact() {
		state.Step = chat.StepGatheringContact
		h.pending.Set(req.Scope.UserID, state)
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message: fmt.Sprintf("Got it. How can I reach %s to invite them — an email address or a phone number?",
				state.Person.FirstName),
		}, nil
	}

	state.Step = chat.StepConfirming
	h.pending.Set(req.Scope.UserID, state)
	return &chat.HandlerResult{
		ActionType: chat.ActionReply,
		Message: fmt.Sprintf("To confirm: I'll start a session with %s and send an invitation to %s. Shall I go ahead?",
			state.Person.FullName(), state.Person.Contact.Value),
		Actions: []chat.SuggestedAction{
			{ID: "confirm_create", Label: "Yes, send the invitation", Kind: "confirm"},
			{ID: "cancel_create", Label: "No, not yet", Kind: "cancel"},
		},
	}, nil
}

// currentState merges the in-flight pending state (if any) with whatever the
// detector extracted from this message, the detector winning field by field.
func (h *SessionCreation) currentState(req *chat.HandlerRequest) chat.PendingState {
	state := chat.PendingState{Kind: chat.PendingSessionCreation}
	if req.Pending != nil && req.Pending.Kind == chat.PendingSessionCreation {
		state = *req.Pending
	}

	if p := req.Detection.Person; p != nil {
		if p.FirstName != "" {
			state.Person.FirstName = p.FirstName
		}
		if p.LastName != "" {
			state.Person.LastName = p.LastName
		}
		if p.Contact != nil && p.Contact.Value != "" {
			state.Person.Contact = p.Contact
		}
	}

	// Deterministic extraction for mid-flow answers the detector missed.
	switch state.Step {
	case chat.StepGatheringName:
		if state.Person.FirstName == "" {
			if fields := strings.Fields(req.Message); len(fields) > 0 {
				state.Person.FirstName = strings.Trim(fields[0], ".,!?")
			}
		}
	case chat.StepGatheringContact:
		if !state.Person.HasContact() {
			state.Person.Contact = extractContact(req.Message)
		}
	}
	return state
}

func (h *SessionCreation) resolveConfirmation(ctx context.Context, req *chat.HandlerRequest, state chat.PendingState) (*chat.HandlerResult, error) {
	switch {
	case isNegative(req.Message):
		if err := h.Cleanup(ctx, req.Scope.UserID); err != nil {
			h.l.Warnf(ctx, "session creation: cleanup failed for user %s: %v", req.Scope.UserID, err)
		}
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message:    "Okay, I won't send anything. I'm here whenever you'd like to pick this back up.",
			Actions:    []chat.SuggestedAction{listSessionsAction(), getHelpAction()},
		}, nil

	case isAffirmative(req.Message):
		return h.createSession(ctx, req, state)

	default:
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message: fmt.Sprintf("Just to be sure — should I start the session with %s and send the invitation? A simple yes or no works.",
				state.Person.FirstName),
		}, nil
	}
}

func (h *SessionCreation) createSession(ctx context.Context, req *chat.HandlerRequest, state chat.PendingState) (*chat.HandlerResult, error) {
	topic := ""
	if req.Detection.Context != nil {
		topic = req.Detection.Context.Topic
	}

	session, err := h.repo.CreateSession(ctx, repository.CreateSessionOptions{
		UserID:  req.Scope.UserID,
		Partner: state.Person,
		Topic:   topic,
	})
	if err != nil {
		h.l.Errorf(ctx, "session creation: create failed for user %s: %v", req.Scope.UserID, err)
		// Keep the pending state so a retry doesn't restart the flow.
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message:    "I couldn't set that up just now. Want me to try again?",
		}, nil
	}

	h.pending.Clear(req.Scope.UserID)
	h.runSideEffects(ctx, req.Scope, session, state.Person)

	return &chat.HandlerResult{
		ActionType: chat.ActionCreated,
		Message: fmt.Sprintf("Done — I've started your session with %s and sent the invitation. While we wait for them to join, would you like to tell me what's been going on from your side?",
			state.Person.FirstName),
		SessionChange: &chat.SessionChange{
			Type:      "created",
			SessionID: session.ID,
			Session:   sessionToSummary(session),
		},
	}, nil
}

// Cleanup drops the user's in-flight creation flow. Invoked on explicit
// cancellation and available to wiring code that tears handlers down.
func (h *SessionCreation) Cleanup(ctx context.Context, userID string) error {
	h.pending.Clear(userID)
	return nil
}

// runSideEffects dispatches invitation, indexing and notification without
// blocking the reply. Failures are logged and never affect the chat turn.
func (h *SessionCreation) runSideEffects(ctx context.Context, sc model.Scope, session model.Session, person model.Person) {
	bg := context.WithoutCancel(ctx)

	if h.inviter != nil {
		go func() {
			sendCtx, cancel := context.WithTimeout(bg, sideEffectTimeout)
			defer cancel()
			if err := h.inviter.SendInvitation(sendCtx, person, sc.DisplayName); err != nil {
				h.l.Errorf(sendCtx, "session creation: invitation send failed for session %s: %v", session.ID, err)
			}
		}()
	}

	if h.vectors != nil {
		go func() {
			indexCtx, cancel := context.WithTimeout(bg, sideEffectTimeout)
			defer cancel()
			if err := h.vectors.IndexSession(indexCtx, sc.UserID, session); err != nil {
				h.l.Errorf(indexCtx, "session creation: vector index failed for session %s: %v", session.ID, err)
			}
		}()
	}

	if h.notifier != nil {
		go func() {
			notifyCtx, cancel := context.WithTimeout(bg, sideEffectTimeout)
			defer cancel()
			change := chat.SessionChange{Type: "created", SessionID: session.ID, Session: sessionToSummary(session)}
			if err := h.notifier.NotifySessionChange(notifyCtx, sc.UserID, change); err != nil {
				h.l.Errorf(notifyCtx, "session creation: notify failed for session %s: %v", session.ID, err)
			}
		}()
	}
}
