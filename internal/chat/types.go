package chat

import (
	"time"

	"relationship-mediator/internal/model"
)

// Intent is a detected user intent. Plugins may contribute values outside the
// built-in set.
type Intent string

const (
	IntentCreateSession        Intent = "CREATE_SESSION"
	IntentContinueConversation Intent = "CONTINUE_CONVERSATION"
	IntentListSessions         Intent = "LIST_SESSIONS"
	IntentSwitchSession        Intent = "SWITCH_SESSION"
	IntentHelp                 Intent = "HELP"
	IntentUnknown              Intent = "UNKNOWN"
)

// ParseIntent maps a raw model string to the built-in intent set.
// Unrecognized values map to IntentUnknown; plugin intents are applied later
// by post-processing, never by this function.
func ParseIntent(raw string) Intent {
	switch Intent(raw) {
	case IntentCreateSession, IntentContinueConversation, IntentListSessions,
		IntentSwitchSession, IntentHelp:
		return Intent(raw)
	default:
		return IntentUnknown
	}
}

// Confidence is how sure the detector is about the intent.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// ParseConfidence maps a raw model string to a confidence level, defaulting
// to LOW.
func ParseConfidence(raw string) Confidence {
	switch Confidence(raw) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return Confidence(raw)
	default:
		return ConfidenceLow
	}
}

// EmotionalTone is the detected emotional tone of a message.
type EmotionalTone string

const (
	ToneNeutral    EmotionalTone = "NEUTRAL"
	ToneCalm       EmotionalTone = "CALM"
	ToneHurt       EmotionalTone = "HURT"
	ToneFrustrated EmotionalTone = "FRUSTRATED"
	ToneAngry      EmotionalTone = "ANGRY"
	ToneSad        EmotionalTone = "SAD"
	ToneHopeful    EmotionalTone = "HOPEFUL"
)

// ParseEmotionalTone maps a raw model string to a tone, defaulting to NEUTRAL.
func ParseEmotionalTone(raw string) EmotionalTone {
	switch EmotionalTone(raw) {
	case ToneNeutral, ToneCalm, ToneHurt, ToneFrustrated, ToneAngry, ToneSad, ToneHopeful:
		return EmotionalTone(raw)
	default:
		return ToneNeutral
	}
}

// SessionSummary is the slice of session state the router exposes to the
// detector and to clients.
type SessionSummary struct {
	ID             string    `json:"id"`
	PartnerName    string    `json:"partner_name"`
	Status         string    `json:"status"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// SemanticMatch is a prior session surfaced by similarity search.
type SemanticMatch struct {
	SessionID   string  `json:"session_id"`
	PartnerName string  `json:"partner_name"`
	Similarity  float64 `json:"similarity"` // in [0,1]
}

// DetectionInput is everything the detector knows about one inbound message.
// Transient; constructed per request.
type DetectionInput struct {
	Message           string
	HasActiveSession  bool
	ActivePartnerName string
	OpenSessions      []SessionSummary
	SemanticMatches   []SemanticMatch
	Pending           *PendingState
}

// SessionContext is topic and tone extracted from the message.
type SessionContext struct {
	Topic         string
	EmotionalTone EmotionalTone
}

// MissingInfo is a field the detector could not extract, with a prompt to ask
// the user for it.
type MissingInfo struct {
	Field    string
	Required bool
	Prompt   string
}

// DetectionResult is the outcome of intent detection for one message.
// Produced fresh per message; never persisted.
type DetectionResult struct {
	Intent           Intent
	Confidence       Confidence
	SessionID        string
	Person           *model.Person
	Context          *SessionContext
	MissingInfo      []MissingInfo
	FollowUpQuestion string
}

// PendingKind tags the variant of an in-progress multi-turn flow.
type PendingKind string

// PendingSessionCreation gathers a new contact's details across turns.
const PendingSessionCreation PendingKind = "session_creation"

// CreationStep is the slot-filling step of a session-creation flow.
type CreationStep string

const (
	StepGatheringName    CreationStep = "GATHERING_NAME"
	StepGatheringContact CreationStep = "GATHERING_CONTACT"
	StepConfirming       CreationStep = "CONFIRMING"
)

// PendingState is per-user multi-turn flow state. One entry per user,
// last-write-wins.
type PendingState struct {
	Kind      PendingKind
	Person    model.Person
	Step      CreationStep
	UpdatedAt time.Time
}

// ActionType tags what a handler decided to do.
type ActionType string

const (
	ActionReply       ActionType = "REPLY"
	ActionCreated     ActionType = "SESSION_CREATED"
	ActionSwitched    ActionType = "SESSION_SWITCHED"
	ActionPassThrough ActionType = "PASS_THROUGH"
	ActionNotFound    ActionType = "NOT_FOUND"
	ActionFallback    ActionType = "FALLBACK"
)

// SuggestedAction is a UI affordance offered alongside a reply.
type SuggestedAction struct {
	ID      string                 `json:"id"`
	Label   string                 `json:"label"`
	Kind    string                 `json:"kind"` // e.g. "start_session", "switch_session", "list_sessions", "get_help"
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// SessionChange describes a session created or switched by a handler.
type SessionChange struct {
	Type      string         `json:"type"` // "created" or "switched"
	SessionID string         `json:"session_id"`
	Session   SessionSummary `json:"session"`
}

// PassThrough hands the live message flow to the stage pipeline.
type PassThrough struct {
	SessionID string `json:"session_id"`
}

// HandlerResult is what a handler produced for one message. An empty Message
// with a PassThrough means "defer to the stage pipeline".
type HandlerResult struct {
	ActionType    ActionType
	Message       string
	Actions       []SuggestedAction
	SessionChange *SessionChange
	PassThrough   *PassThrough
	Data          map[string]interface{}
}

// HandlerRequest is the full context a handler sees.
type HandlerRequest struct {
	Scope         model.Scope
	Message       string
	Detection     DetectionResult
	ActiveSession *model.Session
	OpenSessions  []model.Session
	Pending       *PendingState
}

// DetectionHint enriches the classification prompt on behalf of a plugin.
type DetectionHint struct {
	Intent      Intent
	Keywords    []string
	Examples    []string
	Description string
}

// Message is one conversation turn handed to the completion client.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ProcessInput is one inbound chat message.
type ProcessInput struct {
	Message         string
	ActiveSessionID string // empty when no conversation is open client-side
}

// ProcessOutput is the router's reply for one inbound message.
type ProcessOutput struct {
	Reply         string
	Intent        Intent
	Confidence    Confidence
	Actions       []SuggestedAction
	SessionChange *SessionChange
	PassThrough   *PassThrough
	Data          map[string]interface{}
}
