package handlers

import (
	"context"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

const helpGettingStarted = `I'm here to help you and someone you care about work through a conflict, one step at a time. Here's how it works:

1. Tell me who it's with — I'll send them an invitation.
2. You each share your side privately with me first.
3. I help both of you hear each other's perspective.
4. Together we map out what each of you needs.
5. We turn that into concrete ways to repair things.

Nothing you say is shared with the other person unless you approve it. Want to start?`

const helpInSession = `You're in an active session right now. You can keep talking to me as usual, and here's what else you can do:

- Say "switch to <name>" to move to another session.
- Say "my sessions" to see everything you have open.
- Say "start a session with <name>" to open a new one.

Whatever you share here stays private until you choose to bridge it across.`

const unknownFallback = "I'm not quite sure what you'd like to do. You can start a session with someone, continue one, or ask me what I can do."

// Help is the catch-all at the bottom of the dispatch order: it answers HELP
// with canned guidance and turns anything else into a gentle nudge. Its
// applicability predicate always returns true, which is what guarantees
// dispatch terminates with a reply.
type Help struct {
	l log.Logger
}

// NewHelp builds the help handler.
func NewHelp(l log.Logger) *Help {
	return &Help{l: l}
}

func (h *Help) ID() string   { return "help" }
func (h *Help) Name() string { return "Help" }

func (h *Help) Priority() int { return PriorityHelp }

// Intents is empty: the catch-all serves every intent, including
// plugin-contributed ones.
func (h *Help) Intents() []chat.Intent { return nil }

func (h *Help) AppliesTo(ctx context.Context, req *chat.HandlerRequest) (bool, error) {
	return true, nil
}

func (h *Help) Execute(ctx context.Context, req *chat.HandlerRequest) (*chat.HandlerResult, error) {
	if req.Detection.Intent == chat.IntentHelp {
		message := helpGettingStarted
		if req.ActiveSession != nil {
			message = helpInSession
		}
		return &chat.HandlerResult{
			ActionType: chat.ActionReply,
			Message:    message,
			Actions:    []chat.SuggestedAction{startSessionAction(""), listSessionsAction()},
		}, nil
	}

	// Mid-session chatter that no other handler claimed belongs to the
	// stage pipeline, not to us.
	if req.Detection.Intent == chat.IntentUnknown && req.ActiveSession != nil {
		return &chat.HandlerResult{
			ActionType:  chat.ActionPassThrough,
			PassThrough: &chat.PassThrough{SessionID: req.ActiveSession.ID},
		}, nil
	}

	message := req.Detection.FollowUpQuestion
	if message == "" {
		message = unknownFallback
	}
	return &chat.HandlerResult{
		ActionType: chat.ActionFallback,
		Message:    message,
		Actions:    []chat.SuggestedAction{startSessionAction(""), getHelpAction()},
	}, nil
}
