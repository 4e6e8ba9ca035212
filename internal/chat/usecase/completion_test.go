package usecase

import (
	"context"
	"errors"
	"testing"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/llmprovider"
)

type cannedProvider struct {
	text string
	err  error
}

func (p *cannedProvider) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &llmprovider.Response{Text: p.text, ProviderName: p.Name(), ModelName: p.Model()}, nil
}

func (p *cannedProvider) Name() string  { return "canned" }
func (p *cannedProvider) Model() string { return "canned-1" }

func newTestModelClient(provider llmprovider.Provider) *ModelClient {
	var providers []llmprovider.Provider
	if provider != nil {
		providers = []llmprovider.Provider{provider}
	}
	manager := llmprovider.NewManager(providers, &llmprovider.Config{}, nopLogger())
	return NewModelClient(nopLogger(), manager)
}

func TestModelClient(t *testing.T) {
	ctx := context.Background()
	messages := []chat.Message{{Role: "user", Content: "hello"}}

	t.Run("Complete Returns Text", func(t *testing.T) {
		c := newTestModelClient(&cannedProvider{text: "hi there"})
		text, err := c.Complete(ctx, "system", messages, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "hi there" {
			t.Errorf("unexpected text %q", text)
		}
	})

	t.Run("CompleteStructured Extracts Wrapped JSON", func(t *testing.T) {
		c := newTestModelClient(&cannedProvider{text: "Sure! Here you go:\n```json\n{\"intent\": \"HELP\"}\n```"})
		raw, err := c.CompleteStructured(ctx, "system", messages, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(raw) != `{"intent": "HELP"}` {
			t.Errorf("unexpected JSON %q", string(raw))
		}
	})

	t.Run("All Providers Failing Signals Unavailability", func(t *testing.T) {
		c := newTestModelClient(&cannedProvider{err: errors.New("rate limited")})
		raw, err := c.CompleteStructured(ctx, "system", messages, 100)
		if err != nil {
			t.Fatalf("expected (nil, nil) unavailability signal, got error %v", err)
		}
		if raw != nil {
			t.Errorf("expected nil raw, got %q", string(raw))
		}
	})

	t.Run("No Providers Signals Unavailability", func(t *testing.T) {
		c := newTestModelClient(nil)
		raw, err := c.CompleteStructured(ctx, "system", messages, 100)
		if err != nil || raw != nil {
			t.Errorf("expected (nil, nil), got %q err %v", string(raw), err)
		}
	})

	t.Run("Non JSON Output Is An Error", func(t *testing.T) {
		c := newTestModelClient(&cannedProvider{text: "I cannot answer in JSON today"})
		if _, err := c.CompleteStructured(ctx, "system", messages, 100); err == nil {
			t.Error("expected an error for non-JSON output")
		}
	})

	t.Run("Truncated JSON Is An Error", func(t *testing.T) {
		c := newTestModelClient(&cannedProvider{text: `{"intent": "HELP", "confidence"}`})
		if _, err := c.CompleteStructured(ctx, "system", messages, 100); err == nil {
			t.Error("expected an error for malformed JSON")
		}
	})
}
