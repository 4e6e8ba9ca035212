// Package handlers contains the router's intent handlers. Each handler is a
// self-contained capability: it declares the intents it serves and a priority,
// decides per request whether it applies, and produces a reply plus optional
// side effects. Higher priority means a more specific match.
package handlers

import (
	"strings"
	"unicode"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
)

// Handler priorities. Dispatch tries handlers in descending order and stops at
// the first that applies; the help handler must stay the lowest.
const (
	PrioritySessionCreation = 100
	PrioritySessionSwitch   = 90
	PriorityCheckIn         = 70
	PrioritySessionsList    = 60
	PriorityContinuation    = 50
	PriorityWitnessing      = 40
	PriorityHelp            = 10
)

func startSessionAction(firstName string) chat.SuggestedAction {
	action := chat.SuggestedAction{
		ID:    "start_session",
		Label: "Start a session",
		Kind:  "start_session",
	}
	if firstName != "" {
		action.Label = "Start a session with " + firstName
		action.Payload = map[string]interface{}{"first_name": firstName}
	}
	return action
}

func listSessionsAction() chat.SuggestedAction {
	return chat.SuggestedAction{
		ID:    "list_sessions",
		Label: "See my sessions",
		Kind:  "list_sessions",
	}
}

func switchSessionAction(s model.Session) chat.SuggestedAction {
	return chat.SuggestedAction{
		ID:      "switch_" + s.ID,
		Label:   "Continue with " + s.PartnerName,
		Kind:    "switch_session",
		Payload: map[string]interface{}{"session_id": s.ID},
	}
}

func getHelpAction() chat.SuggestedAction {
	return chat.SuggestedAction{
		ID:    "get_help",
		Label: "What can you do?",
		Kind:  "get_help",
	}
}

var (
	affirmations = []string{"yes", "yep", "yeah", "sure", "ok", "okay", "confirm", "go ahead", "do it", "please"}
	negations    = []string{"no", "nope", "cancel", "stop", "nevermind", "never mind", "don't"}
)

func isAffirmative(message string) bool {
	return matchesAny(message, affirmations)
}

func isNegative(message string) bool {
	return matchesAny(message, negations)
}

func matchesAny(message string, candidates []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, c := range candidates {
		if normalized == c || strings.HasPrefix(normalized, c+" ") || strings.HasPrefix(normalized, c+",") {
			return true
		}
	}
	return false
}

// extractContact pulls an email address or phone number out of free text.
// Returns nil when neither is present.
func extractContact(message string) *model.ContactMethod {
	for _, field := range strings.Fields(message) {
		trimmed := strings.Trim(field, ".,;:!?()")
		if strings.Count(trimmed, "@") == 1 && strings.Contains(trimmed, ".") {
			return &model.ContactMethod{Kind: model.ContactEmail, Value: trimmed}
		}
	}

	digits := 0
	for _, r := range message {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	if digits >= 7 {
		var b strings.Builder
		for _, r := range message {
			if unicode.IsDigit(r) || r == '+' {
				b.WriteRune(r)
			}
		}
		return &model.ContactMethod{Kind: model.ContactPhone, Value: b.String()}
	}
	return nil
}

// sessionToSummary projects a session for client-facing results.
func sessionToSummary(s model.Session) chat.SessionSummary {
	return chat.SessionSummary{
		ID:             s.ID,
		PartnerName:    s.PartnerName,
		Status:         string(s.Status),
		LastActivityAt: s.LastActivityAt,
	}
}
