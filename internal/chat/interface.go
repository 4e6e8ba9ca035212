package chat

import (
	"context"
	"encoding/json"

	"relationship-mediator/internal/model"
)

// UseCase is the chat router entry point: one call per inbound message.
type UseCase interface {
	// ProcessMessage classifies the message, dispatches it to the first
	// applicable handler, and always returns a non-empty reply.
	ProcessMessage(ctx context.Context, sc model.Scope, input ProcessInput) (ProcessOutput, error)
}

// IntentHandler is a named, prioritized capability. Higher priority means a
// more specific match; the lowest-priority handler must always apply.
type IntentHandler interface {
	ID() string
	Name() string
	Intents() []Intent
	Priority() int

	// AppliesTo must be free of side effects.
	AppliesTo(ctx context.Context, req *HandlerRequest) (bool, error)

	Execute(ctx context.Context, req *HandlerRequest) (*HandlerResult, error)
}

// CleanupHandler is implemented by handlers that hold per-user state to drop
// on cancellation.
type CleanupHandler interface {
	Cleanup(ctx context.Context, userID string) error
}

// DetectionPlugin contributes intents and prompt hints to the detector.
type DetectionPlugin interface {
	ID() string
	Intents() []Intent
	Hints() []DetectionHint
}

// PostProcessor is implemented by plugins that rewrite the detection result
// after the base model call. Implementations return a new result; fields they
// do not modify must be preserved.
type PostProcessor interface {
	PostProcess(ctx context.Context, input DetectionInput, result DetectionResult) DetectionResult
}

// CompletionClient is the fast completion model used for classification and
// short generations. CompleteStructured returning (nil, nil) signals model
// unavailability and triggers the deterministic fallback paths.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt string, messages []Message, maxTokens int) (string, error)
	CompleteStructured(ctx context.Context, systemPrompt string, messages []Message, maxTokens int) (json.RawMessage, error)
}

// WitnessReply is what the pre-session reflection responder produced.
type WitnessReply struct {
	Response       string
	PersonMention  string
	Topic          string
	EmotionalTone  EmotionalTone
	SuggestSession bool
}

// WitnessResponder produces empathetic replies before any session exists.
type WitnessResponder interface {
	Respond(ctx context.Context, userID, userName, message string) (*WitnessReply, error)
}

// WitnessEntry is one message in the short-lived pre-session log.
type WitnessEntry struct {
	ID     string
	Role   string // "user" or "assistant"
	Text   string
	Tone   EmotionalTone
	Person string
	Topic  string
}

// WitnessLog stores pre-session messages with bounded retention.
type WitnessLog interface {
	Append(ctx context.Context, userID string, entry WitnessEntry)
}

// PendingStore owns per-user multi-turn flow state. Reads apply lazy expiry;
// writes are last-write-wins (two rapid-fire messages from one user may race,
// and the later write simply replaces the earlier one).
type PendingStore interface {
	Get(userID string) *PendingState
	Set(userID string, state PendingState)
	Clear(userID string)
}

// InviteSender delivers the partner invitation. Fire-and-forget from the
// router's perspective.
type InviteSender interface {
	SendInvitation(ctx context.Context, person model.Person, inviterName string) error
}

// Notifier delivers push notifications for session events. Fire-and-forget.
type Notifier interface {
	NotifySessionChange(ctx context.Context, userID string, change SessionChange) error
}
