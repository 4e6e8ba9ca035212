package witness

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

type fakeCompletionClient struct {
	structuredFn func(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (json.RawMessage, error)
}

func (f *fakeCompletionClient) Complete(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeCompletionClient) CompleteStructured(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (json.RawMessage, error) {
	if f.structuredFn != nil {
		return f.structuredFn(ctx, systemPrompt, messages, maxTokens)
	}
	return nil, nil
}

func TestResponder(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps Model Reply", func(t *testing.T) {
		client := &fakeCompletionClient{
			structuredFn: func(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (json.RawMessage, error) {
				return json.RawMessage(`{
					"response": "That sounds really hard.",
					"personMention": "Sarah",
					"topic": "feeling unheard",
					"emotionalTone": "HURT",
					"suggestSession": true
				}`), nil
			},
		}
		r := NewResponder(log.NewNop(), client, nil)

		reply, err := r.Respond(ctx, "u1", "Jo", "Sarah never listens to me")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply.Response != "That sounds really hard." {
			t.Errorf("unexpected response %q", reply.Response)
		}
		if reply.PersonMention != "Sarah" || !reply.SuggestSession {
			t.Errorf("expected session suggestion for Sarah, got %+v", reply)
		}
		if reply.EmotionalTone != chat.ToneHurt {
			t.Errorf("expected HURT, got %s", reply.EmotionalTone)
		}
	})

	t.Run("No Suggestion Without Person", func(t *testing.T) {
		client := &fakeCompletionClient{
			structuredFn: func(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (json.RawMessage, error) {
				return json.RawMessage(`{"response": "I hear you.", "suggestSession": true}`), nil
			},
		}
		r := NewResponder(log.NewNop(), client, nil)

		reply, err := r.Respond(ctx, "u1", "", "everything is a lot right now")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reply.SuggestSession {
			t.Error("suggestion requires a person mention")
		}
	})

	t.Run("Model Unavailable Returns Generic Ack", func(t *testing.T) {
		r := NewResponder(log.NewNop(), &fakeCompletionClient{}, nil)

		reply, err := r.Respond(ctx, "u1", "", "hello")
		if err != nil {
			t.Fatalf("expected degraded reply, got error %v", err)
		}
		if reply.Response == "" {
			t.Error("reply must never be empty")
		}
		if reply.SuggestSession {
			t.Error("no suggestion on the degraded path")
		}
	})

	t.Run("Malformed Output Returns Generic Ack", func(t *testing.T) {
		client := &fakeCompletionClient{
			structuredFn: func(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (json.RawMessage, error) {
				return json.RawMessage(`not json`), nil
			},
		}
		r := NewResponder(log.NewNop(), client, nil)

		reply, err := r.Respond(ctx, "u1", "", "hello")
		if err != nil || reply.Response == "" {
			t.Fatalf("expected degraded reply, got %+v err %v", reply, err)
		}
	})

	t.Run("Includes Prior Exchanges In Order", func(t *testing.T) {
		var gotMessages []chat.Message
		client := &fakeCompletionClient{
			structuredFn: func(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (json.RawMessage, error) {
				gotMessages = messages
				return json.RawMessage(`{"response": "I remember."}`), nil
			},
		}
		history := NewLog(log.NewNop(), time.Hour)
		history.Append(ctx, "u1", chat.WitnessEntry{Role: "user", Text: "Sarah and I argued"})
		history.Append(ctx, "u1", chat.WitnessEntry{Role: "assistant", Text: "That sounds hard."})
		r := NewResponder(log.NewNop(), client, history)

		if _, err := r.Respond(ctx, "u1", "Jo", "it happened again"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(gotMessages) != 3 {
			t.Fatalf("expected history plus current message, got %d messages", len(gotMessages))
		}
		if gotMessages[0].Content != "Sarah and I argued" || gotMessages[1].Role != "assistant" {
			t.Errorf("history out of order: %+v", gotMessages)
		}
		if gotMessages[2].Content != "it happened again" {
			t.Errorf("current message must come last, got %+v", gotMessages[2])
		}
	})

	t.Run("Other Users History Is Not Included", func(t *testing.T) {
		var gotMessages []chat.Message
		client := &fakeCompletionClient{
			structuredFn: func(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (json.RawMessage, error) {
				gotMessages = messages
				return json.RawMessage(`{"response": "ok"}`), nil
			},
		}
		history := NewLog(log.NewNop(), time.Hour)
		history.Append(ctx, "u2", chat.WitnessEntry{Role: "user", Text: "something else"})
		r := NewResponder(log.NewNop(), client, history)

		if _, err := r.Respond(ctx, "u1", "", "hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(gotMessages) != 1 {
			t.Errorf("expected only the current message, got %+v", gotMessages)
		}
	})
}

func TestLog(t *testing.T) {
	ctx := context.Background()

	t.Run("Append Assigns IDs And Keeps Order", func(t *testing.T) {
		w := NewLog(log.NewNop(), time.Hour)
		w.Append(ctx, "u1", chat.WitnessEntry{Role: "user", Text: "first"})
		w.Append(ctx, "u1", chat.WitnessEntry{Role: "assistant", Text: "second"})

		entries := w.Entries("u1")
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].Text != "first" || entries[1].Text != "second" {
			t.Errorf("entries out of order: %+v", entries)
		}
		if entries[0].ID == "" || entries[0].ID == entries[1].ID {
			t.Errorf("expected distinct ids, got %q and %q", entries[0].ID, entries[1].ID)
		}
	})

	t.Run("Expires After Retention", func(t *testing.T) {
		w := NewLog(log.NewNop(), 20*time.Millisecond)
		w.Append(ctx, "u1", chat.WitnessEntry{Role: "user", Text: "first"})
		time.Sleep(50 * time.Millisecond)
		if entries := w.Entries("u1"); len(entries) != 0 {
			t.Errorf("expected expiry, got %+v", entries)
		}
	})

	t.Run("Caps Entries Per User", func(t *testing.T) {
		w := NewLog(log.NewNop(), time.Hour)
		for i := 0; i < maxEntriesPerUser+10; i++ {
			w.Append(ctx, "u1", chat.WitnessEntry{Role: "user", Text: "msg"})
		}
		if got := len(w.Entries("u1")); got != maxEntriesPerUser {
			t.Errorf("expected cap of %d, got %d", maxEntriesPerUser, got)
		}
	})
}
