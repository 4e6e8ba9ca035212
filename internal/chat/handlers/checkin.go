package handlers

import (
	"context"
	"fmt"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/chat/plugins"
	"relationship-mediator/pkg/log"
)

// CheckIn answers relationship progress check-ins with a summary of the
// caller's open sessions.
type CheckIn struct {
	l log.Logger
}

// NewCheckIn builds the check-in handler.
func NewCheckIn(l log.Logger) *CheckIn {
	return &CheckIn{l: l}
}

func (h *CheckIn) ID() string   { return "check_in" }
func (h *CheckIn) Name() string { return "Check-in" }

func (h *CheckIn) Priority() int { return PriorityCheckIn }

func (h *CheckIn) Intents() []chat.Intent {
	return []chat.Intent{plugins.IntentCheckIn}
}

func (h *CheckIn) AppliesTo(ctx context.Context, req *chat.HandlerRequest) (bool, error) {
	return true, nil
}

func (h *CheckIn) Execute(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error) {
	if len(req.OpenSessions) == 0 {
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message:    "Thanks for checking in. You don't have any sessions going right now — is there something on your mind you'd like to work through with someone?",
			Actions:    []chat.SuggestedAction{startSessionAction("")},
		}, nil
	}

	message := fmt.Sprintf("Thanks for checking in. You have %d open session", len(req.OpenSessions))
	if len(req.OpenSessions) > 1 {
		message += "s"
	}
	message += ":\n"
	actions := make([]chat.SuggestedAction, 0, len(req.OpenSessions))
	for _, s := range req.OpenSessions {
		message += fmt.Sprintf("- %s, currently in the %s stage\n", s.PartnerName, s.Stage)
		actions = append(actions, switchSessionAction(s))
	}
	message += "Showing up at all is real progress. Want to pick one up?"

	return &chat.HandlerResult{
		ActionType: chat.ActionReply,
		Message:    message,
		Actions:    actions,
	}, nil
}
