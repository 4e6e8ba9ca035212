package intent

import (
	"strings"

	"relationship-mediator/internal/chat"
)

// fallbackFollowUp is the clarifying question asked when nothing matched and
// no session is active.
const fallbackFollowUp = "I'm not sure what you'd like to do. Would you like to start a session with someone, or see your open sessions?"

var (
	helpKeywords = []string{"help", "what can you do", "how does this work", "how do i", "confused"}
	listKeywords = []string{"my sessions", "list sessions", "show sessions", "which sessions", "open sessions"}
)

// detectByKeywords classifies without the model. It runs whenever the model
// is unavailable or returns unusable output, and always reports LOW
// confidence.
func detectByKeywords(input chat.DetectionInput) chat.DetectionResult {
	message := strings.ToLower(input.Message)

	if containsAny(message, helpKeywords) {
		return chat.DetectionResult{Intent: chat.IntentHelp, Confidence: chat.ConfidenceLow}
	}
	if containsAny(message, listKeywords) {
		return chat.DetectionResult{Intent: chat.IntentListSessions, Confidence: chat.ConfidenceLow}
	}
	if input.HasActiveSession {
		return chat.DetectionResult{Intent: chat.IntentContinueConversation, Confidence: chat.ConfidenceLow}
	}
	return chat.DetectionResult{
		Intent:           chat.IntentUnknown,
		Confidence:       chat.ConfidenceLow,
		FollowUpQuestion: fallbackFollowUp,
	}
}

func containsAny(message string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(message, kw) {
			return true
		}
	}
	return false
}
