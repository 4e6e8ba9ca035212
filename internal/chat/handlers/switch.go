package handlers

import (
	"context"
	"fmt"
	"strings"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
	"relationship-mediator/internal/session/repository"
	"relationship-mediator/pkg/log"
)

// SessionSwitch moves the user to another session, resolved by session id or
// by the mentioned partner's first name.
type SessionSwitch struct {
	l       log.Logger
	repo    repository.SessionRepository
	pending chat.PendingStore
}

// NewSessionSwitch builds the session-switch handler.
func NewSessionSwitch(l log.Logger, repo repository.SessionRepository, pending chat.PendingStore) *SessionSwitch {
	return &SessionSwitch{l: l, repo: repo, pending: pending}
}

func (h *SessionSwitch) ID() string   { return "session_switch" }
func (h *SessionSwitch) Name() string { return "Session switch" }

func (h *SessionSwitch) Priority() int { return PrioritySessionSwitch }

func (h *SessionSwitch) Intents() []chat.Intent {
	return []chat.Intent{chat.IntentSwitchSession}
}

func (h *SessionSwitch) AppliesTo(ctx context.Context, req *chat.HandlerRequest) (bool, error) {
	if req.Detection.SessionID != "" {
		return true, nil
	}
	return req.Detection.Person != nil && req.Detection.Person.FirstName != "", nil
}

func (h *SessionSwitch) Execute(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error) {
	session := h.resolve(ctx, req)
	if session == nil {
		return h.notFound(req), nil
	}

	return &chat.HandlerResult{
		ActionType: chat.ActionSwitched,
		Message: fmt.Sprintf("Switching to your session with %s. You were in the %s stage — pick up wherever feels right.",
			session.PartnerName, session.Stage),
		SessionChange: &chat.SessionChange{
			Type:      "switched",
			SessionID: session.ID,
			Session:   sessionToSummary(*session),
		},
	}, nil
}

// resolve looks up the target session: exact id first, then a
// case-insensitive substring match of the first name against partner names
// across the caller's open sessions. The first match in list order wins; when
// two partners share a name prefix, list order decides.
func (h *SessionSwitch) resolve(ctx context.Context, req *chat.HandlerRequest) *model.Session {
	if id := req.Detection.SessionID; id != "" {
		session, err := h.repo.SessionByID(ctx, req.Scope.UserID, id)
		if err != nil {
			h.l.Errorf(ctx, "session switch: lookup of %s failed: %v", id, err)
		} else if session != nil && !session.Status.IsTerminal() {
			return session
		}
	}

	if req.Detection.Person == nil || req.Detection.Person.FirstName == "" {
		return nil
	}
	needle := strings.ToLower(req.Detection.Person.FirstName)
	for i := range req.OpenSessions {
		if strings.Contains(strings.ToLower(req.OpenSessions[i].PartnerName), needle) {
			return &req.OpenSessions[i]
		}
	}
	return nil
}

// notFound seeds a session-creation flow for the mentioned person, replacing
// any unrelated in-flight creation, and offers a choice instead of guessing.
func (h *SessionSwitch) notFound(req *chat.HandlerRequest) *chat.HandlerResult {
	firstName := ""
	if req.Detection.Person != nil {
		firstName = req.Detection.Person.FirstName
	}

	if firstName != "" {
		h.pending.Set(req.Scope.UserID, chat.PendingState{
			Kind:   chat.PendingSessionCreation,
			Person: model.Person{FirstName: firstName},
			Step:   chat.StepGatheringContact,
		})
		return &chat.HandlerResult{
			ActionType: chat.ActionNotFound,
			Message: fmt.Sprintf("You don't have a session with %s yet. Would you like to start one, or see your existing sessions?",
				firstName),
			Actions: []chat.SuggestedAction{startSessionAction(firstName), listSessionsAction()},
		}
	}

	return &chat.HandlerResult{
		ActionType: chat.ActionNotFound,
		Message:    "I couldn't find that session. Would you like to start a new one, or see your existing sessions?",
		Actions:    []chat.SuggestedAction{startSessionAction(""), listSessionsAction()},
	}
}
