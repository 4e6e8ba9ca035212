// Package witness produces empathetic replies for users who are talking about
// a conflict before any mediation session exists, and keeps a short-lived log
// of those pre-session exchanges.
package witness

import (
	"context"
	"encoding/json"
	"fmt"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
	"relationship-mediator/pkg/tokenbudget"
)

const (
	responderMaxTokens = 600

	// responderContextTokens bounds the prompt plus prior exchanges fed back
	// into the model.
	responderContextTokens = 4000
)

const responderPrompt = `You are a warm, attentive listener in a relationship support app. The user is telling you about something on their mind. There is no active mediation session.

Reflect what you heard with empathy. Do not give advice, do not take sides, do not diagnose. If the user clearly names a person they are in conflict with, note it.

Respond with a valid JSON object in this exact format and nothing else:
{
  "response": "your empathetic reply, 2-4 sentences",
  "personMention": "first name of the person in conflict, or omit",
  "topic": "a short phrase naming what this is about, or omit",
  "emotionalTone": "NEUTRAL|CALM|HURT|FRUSTRATED|ANGRY|SAD|HOPEFUL",
  "suggestSession": true when a guided session with the mentioned person seems helpful
}`

// genericAck is returned when the model is unavailable so the user still gets
// acknowledged.
const genericAck = "I hear you. Tell me more about what's going on."

// HistorySource yields the user's earlier pre-session exchanges.
type HistorySource interface {
	Entries(userID string) []chat.WitnessEntry
}

type responder struct {
	l       log.Logger
	client  chat.CompletionClient
	history HistorySource
}

// NewResponder builds the pre-session reflection responder. history may be
// nil; replies are then based on the current message alone.
func NewResponder(l log.Logger, client chat.CompletionClient, history HistorySource) chat.WitnessResponder {
	return &responder{l: l, client: client, history: history}
}

func (r *responder) Respond(ctx context.Context, userID, userName, message string) (*chat.WitnessReply, error) {
	prompt := responderPrompt
	if userName != "" {
		prompt = fmt.Sprintf("%s\n\nThe user's name is %s.", responderPrompt, userName)
	}
	messages := append(r.budgetedHistory(prompt, userID), chat.Message{Role: "user", Content: message})

	raw, err := r.client.CompleteStructured(ctx, prompt, messages, responderMaxTokens)
	if err != nil || raw == nil {
		r.l.Warnf(ctx, "witness: responder model unavailable for user %s: %v", userID, err)
		return &chat.WitnessReply{Response: genericAck, EmotionalTone: chat.ToneNeutral}, nil
	}

	var parsed struct {
		Response       string `json:"response"`
		PersonMention  string `json:"personMention"`
		Topic          string `json:"topic"`
		EmotionalTone  string `json:"emotionalTone"`
		SuggestSession bool   `json:"suggestSession"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Response == "" {
		r.l.Warnf(ctx, "witness: unparseable responder output for user %s: %v", userID, err)
		return &chat.WitnessReply{Response: genericAck, EmotionalTone: chat.ToneNeutral}, nil
	}

	return &chat.WitnessReply{
		Response:       parsed.Response,
		PersonMention:  parsed.PersonMention,
		Topic:          parsed.Topic,
		EmotionalTone:  chat.ParseEmotionalTone(parsed.EmotionalTone),
		SuggestSession: parsed.SuggestSession && parsed.PersonMention != "",
	}, nil
}

// budgetedHistory folds the user's earlier pre-session exchanges into the
// conversation, newest-first within the token budget so long logs keep their
// most recent turns.
func (r *responder) budgetedHistory(prompt, userID string) []chat.Message {
	if r.history == nil {
		return nil
	}
	entries := r.history.Entries(userID)
	if len(entries) == 0 {
		return nil
	}

	history := make([]tokenbudget.Message, 0, len(entries))
	for _, e := range entries {
		history = append(history, tokenbudget.Message{Role: e.Role, Content: e.Text})
	}

	budgeted := tokenbudget.BuildBudgetedContext(prompt, history, "", responderContextTokens)

	out := make([]chat.Message, 0, len(budgeted.History.Included))
	for _, m := range budgeted.History.Included {
		out = append(out, chat.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
