package handlers

import (
	"context"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

// Continuation hands an in-session message to the stage pipeline. The stage
// pipeline, not this router, generates the substantive reply.
type Continuation struct {
	l log.Logger
}

// NewContinuation builds the conversation-continuation handler.
func NewContinuation(l log.Logger) *Continuation {
	return &Continuation{l: l}
}

func (h *Continuation) ID() string   { return "conversation_continuation" }
func (h *Continuation) Name() string { return "Conversation continuation" }

func (h *Continuation) Priority() int { return PriorityContinuation }

func (h *Continuation) Intents() []chat.Intent {
	return []chat.Intent{chat.IntentContinueConversation}
}

// AppliesTo accepts only in-session messages, leaving session-less
// CONTINUE_CONVERSATION traffic to the witnessing handler below it.
func (h *Continuation) AppliesTo(ctx context.Context, req *chat.HandlerRequest) (bool, error) {
	return req.ActiveSession != nil, nil
}

func (h *Continuation) Execute(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error) {
	if req.ActiveSession == nil {
		// Never pass through without a session to pass through to.
		return &chat.HandlerResult{
			ActionType: chat.ActionFallback,
			Message:    "There's no conversation open right now. Would you like to start a session, or see your existing ones?",
			Actions:    []chat.SuggestedAction{startSessionAction(""), listSessionsAction()},
		}, nil
	}

	return &chat.HandlerResult{
		ActionType:  chat.ActionPassThrough,
		PassThrough: &chat.PassThrough{SessionID: req.ActiveSession.ID},
	}, nil
}
