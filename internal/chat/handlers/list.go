package handlers

import (
	"context"
	"fmt"
	"strings"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

// SessionsList renders the caller's open sessions as a message plus
// selectable switch actions.
type SessionsList struct {
	l log.Logger
}

// NewSessionsList builds the sessions-list handler.
func NewSessionsList(l log.Logger) *SessionsList {
	return &SessionsList{l: l}
}

func (h *SessionsList) ID() string   { return "sessions_list" }
func (h *SessionsList) Name() string { return "Sessions list" }

func (h *SessionsList) Priority() int { return PrioritySessionsList }

func (h *SessionsList) Intents() []chat.Intent {
	return []chat.Intent{chat.IntentListSessions}
}

func (h *SessionsList) AppliesTo(ctx context.Context, req *chat.HandlerRequest) (bool, error) {
	return true, nil
}

func (h *SessionsList) Execute(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error) {
	if len(req.OpenSessions) == 0 {
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message:    "You don't have any open sessions yet. Would you like to start one?",
			Actions:    []chat.SuggestedAction{startSessionAction("")},
		}, nil
	}

	var b strings.Builder
	b.WriteString("Here are your open sessions:\n")
	actions := make([]chat.SuggestedAction, 0, len(req.OpenSessions))
	summaries := make([]chat.SessionSummary, 0, len(req.OpenSessions))
	for i, s := range req.OpenSessions {
		fmt.Fprintf(&b, "%d. %s — %s", i+1, s.PartnerName, s.Status)
		if s.Topic != "" {
			fmt.Fprintf(&b, " (%s)", s.Topic)
		}
		b.WriteString("\n")
		actions = append(actions, switchSessionAction(s))
		summaries = append(summaries, sessionToSummary(s))
	}
	b.WriteString("Which one would you like to continue?")

	return &chat.HandlerResult{
		ActionType: chat.ActionReply,
		Message:    b.String(),
		Actions:    actions,
		Data:       map[string]interface{}{"sessions": summaries},
	}, nil
}
