package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/llmprovider"
	pkgLog "relationship-mediator/pkg/log"
)

const completionTemperature = 0.1

// ModelClient adapts the provider manager to the router's completion
// contract. Provider exhaustion maps to the (nil, nil) unavailability signal
// so callers take their deterministic fallback paths.
type ModelClient struct {
	l       pkgLog.Logger
	manager *llmprovider.Manager
}

// NewModelClient builds the completion client over the provider manager.
func NewModelClient(l pkgLog.Logger, manager *llmprovider.Manager) *ModelClient {
	return &ModelClient{l: l, manager: manager}
}

func (c *ModelClient) Complete(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (string, error) {
	resp, err := c.manager.GenerateContent(ctx, c.buildRequest(systemPrompt, messages, maxTokens))
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (c *ModelClient) CompleteStructured(ctx context.Context, systemPrompt string, messages []chat.Message, maxTokens int) (json.RawMessage, error) {
	resp, err := c.manager.GenerateContent(ctx, c.buildRequest(systemPrompt, messages, maxTokens))
	if err != nil {
		if errors.Is(err, llmprovider.ErrAllProvidersFailed) || errors.Is(err, llmprovider.ErrNoProvidersConfigured) {
			c.l.Warnf(ctx, "completion: no provider available: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return extractJSON(resp.Text)
}

func (c *ModelClient) buildRequest(systemPrompt string, messages []chat.Message, maxTokens int) *llmprovider.Request {
	req := &llmprovider.Request{
		System:      systemPrompt,
		Temperature: completionTemperature,
		MaxTokens:   maxTokens,
		Messages:    make([]llmprovider.Message, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, llmprovider.Message{Role: m.Role, Text: m.Content})
	}
	return req
}

// extractJSON pulls the outermost JSON object out of model output, tolerating
// prose or code fences around it.
func extractJSON(text string) (json.RawMessage, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	raw := json.RawMessage(text[start : end+1])
	if !json.Valid(raw) {
		return nil, fmt.Errorf("malformed JSON object in model output")
	}
	return raw, nil
}
