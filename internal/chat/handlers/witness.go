package handlers

import (
	"context"
	"fmt"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

// Witnessing listens empathetically before any session exists. It delegates
// to the pre-session responder, records the exchange in the short-lived
// witness log, and softly suggests a session when a person was mentioned.
type Witnessing struct {
	l         log.Logger
	responder chat.WitnessResponder
	witLog    chat.WitnessLog
}

// NewWitnessing builds the witnessing handler. witLog may be nil.
func NewWitnessing(l log.Logger, responder chat.WitnessResponder, witLog chat.WitnessLog) *Witnessing {
	return &Witnessing{l: l, responder: responder, witLog: witLog}
}

func (h *Witnessing) ID() string   { return "witnessing" }
func (h *Witnessing) Name() string { return "Witnessing" }

func (h *Witnessing) Priority() int { return PriorityWitnessing }

func (h *Witnessing) Intents() []chat.Intent {
	return []chat.Intent{chat.IntentUnknown, chat.IntentContinueConversation}
}

func (h *Witnessing) AppliesTo(ctx context.Context, req *chat.HandlerRequest) (bool, error) {
	return req.ActiveSession == nil, nil
}

func (h *Witnessing) Execute(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error) {
	reply, err := h.responder.Respond(ctx, req.Scope.UserID, req.Scope.DisplayName, req.Message)
	if err != nil || reply == nil || reply.Response == "" {
		h.l.Errorf(ctx, "witnessing: responder failed for user %s: %v", req.Scope.UserID, err)
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message:    "I hear you. Tell me more about what's going on.",
		}, nil
	}

	h.record(ctx, req, reply)

	result := &chat.HandlerResult{
		ActionType: chat.ActionReply,
		Message:    reply.Response,
	}
	if reply.SuggestSession && reply.PersonMention != "" {
		result.Message = fmt.Sprintf("%s\n\nIf you'd like, we could work through this with %s together — no pressure either way.",
			reply.Response, reply.PersonMention)
		result.Actions = []chat.SuggestedAction{
			startSessionAction(reply.PersonMention),
			{ID: "keep_talking", Label: "Keep talking", Kind: "keep_talking"},
		}
	}
	return result, nil
}

func (h *Witnessing) record(ctx context.Context, req *chat.HandlerRequest, reply *chat.WitnessReply) {
	if h.witLog == nil {
		return
	}
	h.witLog.Append(ctx, req.Scope.UserID, chat.WitnessEntry{
		Role:   "user",
		Text:   req.Message,
		Tone:   reply.EmotionalTone,
		Person: reply.PersonMention,
		Topic:  reply.Topic,
	})
	h.witLog.Append(ctx, req.Scope.UserID, chat.WitnessEntry{
		Role: "assistant",
		Text: reply.Response,
	})
}
