package intent

import (
	"fmt"
	"strings"

	"relationship-mediator/internal/chat"
)

const promptHeader = `You are the message router for a relationship mediation assistant. Classify the user's message into exactly one intent.

Intents:
- CREATE_SESSION: the user wants to start working through a conflict with a specific person
- CONTINUE_CONVERSATION: the user is continuing an ongoing mediation conversation
- LIST_SESSIONS: the user wants to see their open sessions
- SWITCH_SESSION: the user wants to move to a different session or person
- HELP: the user asks what this assistant can do or how to use it
- UNKNOWN: none of the above fits`

const promptFormat = `Respond with a valid JSON object in this exact format and nothing else:
{
  "intent": "ONE_OF_THE_INTENTS",
  "confidence": "HIGH | MEDIUM | LOW",
  "sessionId": "id of the referenced session, or omit",
  "person": {"firstName": "", "lastName": "", "contact": {"type": "email|phone", "value": ""}},
  "context": {"topic": "", "emotionalTone": "NEUTRAL|CALM|HURT|FRUSTRATED|ANGRY|SAD|HOPEFUL"},
  "missingInfo": [{"field": "", "required": true, "prompt": ""}],
  "followUpQuestion": "a clarifying question when the intent is unclear, or omit"
}
Omit person, context, missingInfo and followUpQuestion when they do not apply.`

// buildSystemPrompt assembles the classification prompt from the fixed
// taxonomy, the caller's situation, and plugin hints.
func buildSystemPrompt(input chat.DetectionInput, hints []chat.DetectionHint) string {
	var b strings.Builder

	b.WriteString(promptHeader)
	writeHints(&b, hints)

	b.WriteString("\n\nSituation:\n")
	if input.HasActiveSession {
		fmt.Fprintf(&b, "- The user has an active session with %s.\n", input.ActivePartnerName)
	} else {
		b.WriteString("- The user has no active session.\n")
	}
	if input.Pending != nil {
		fmt.Fprintf(&b, "- An in-progress %s flow exists (step %s, person %q).\n",
			input.Pending.Kind, input.Pending.Step, input.Pending.Person.FirstName)
	}

	if len(input.OpenSessions) > 0 {
		b.WriteString("\nOpen sessions:\n")
		for _, s := range input.OpenSessions {
			fmt.Fprintf(&b, "- id=%s partner=%s status=%s\n", s.ID, s.PartnerName, s.Status)
		}
	}

	if len(input.SemanticMatches) > 0 {
		b.WriteString("\nPast sessions similar to this message:\n")
		for _, m := range input.SemanticMatches {
			fmt.Fprintf(&b, "- id=%s partner=%s similarity=%.2f\n", m.SessionID, m.PartnerName, m.Similarity)
		}
	}

	b.WriteString("\n")
	b.WriteString(promptFormat)
	return b.String()
}

// writeHints appends plugin-contributed intents so the model can emit values
// outside the built-in taxonomy.
func writeHints(b *strings.Builder, hints []chat.DetectionHint) {
	for _, h := range hints {
		fmt.Fprintf(b, "\n- %s: %s", h.Intent, h.Description)
		if len(h.Keywords) > 0 {
			fmt.Fprintf(b, " (keywords: %s)", strings.Join(h.Keywords, ", "))
		}
		for _, ex := range h.Examples {
			fmt.Fprintf(b, "\n  e.g. %q", ex)
		}
	}
}
