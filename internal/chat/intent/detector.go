// Package intent classifies inbound chat messages. A fast completion model is
// asked for strict JSON; a deterministic keyword matcher takes over whenever
// the model times out, is unavailable, or returns output that cannot be
// parsed, so detection itself never fails a request.
package intent

import (
	"context"
	"time"

	"relationship-mediator/internal/chat"
	"relationship-mediator/pkg/log"
)

const (
	defaultTimeout   = 5 * time.Second
	defaultMaxTokens = 500
)

// HintSource exposes the plugin surface of the handler registry.
type HintSource interface {
	Plugins() []chat.DetectionPlugin
	GetDetectionHints() []chat.DetectionHint
}

// Config tunes the detector's model call.
type Config struct {
	// Timeout bounds a single classification call. Expiry is treated the
	// same as a malformed response. Zero means the default.
	Timeout time.Duration

	// MaxTokens caps the structured response. Zero means the default.
	MaxTokens int
}

// Detector is the two-tier intent classifier.
type Detector struct {
	l         log.Logger
	client    chat.CompletionClient
	hints     HintSource
	timeout   time.Duration
	maxTokens int
}

// NewDetector builds a detector over the given completion client and plugin
// source.
func NewDetector(l log.Logger, client chat.CompletionClient, hints HintSource, cfg Config) *Detector {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Detector{
		l:         l,
		client:    client,
		hints:     hints,
		timeout:   cfg.Timeout,
		maxTokens: cfg.MaxTokens,
	}
}

// Detect produces exactly one DetectionResult for the message. It never
// returns an error; every failure path degrades to the keyword matcher.
func (d *Detector) Detect(ctx context.Context, input chat.DetectionInput) chat.DetectionResult {
	result, ok := d.detectWithModel(ctx, input)
	if !ok {
		result = detectByKeywords(input)
	}
	return d.postProcess(ctx, input, result)
}

func (d *Detector) detectWithModel(ctx context.Context, input chat.DetectionInput) (chat.DetectionResult, bool) {
	prompt := buildSystemPrompt(input, d.hints.GetDetectionHints())
	messages := []chat.Message{{Role: "user", Content: input.Message}}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	raw, err := d.client.CompleteStructured(callCtx, prompt, messages, d.maxTokens)
	if err != nil {
		d.l.Warnf(ctx, "intent: classification call failed, using keyword fallback: %v", err)
		return chat.DetectionResult{}, false
	}
	if raw == nil {
		d.l.Warn(ctx, "intent: classification model unavailable, using keyword fallback")
		return chat.DetectionResult{}, false
	}

	result, err := parseDetection(raw)
	if err != nil {
		d.l.Warnf(ctx, "intent: unparseable classification response, using keyword fallback: %v", err)
		return chat.DetectionResult{}, false
	}
	return result, true
}

// postProcess folds the result through every plugin's hook in registration
// order. Plugins that do not implement the hook are skipped.
func (d *Detector) postProcess(ctx context.Context, input chat.DetectionInput, result chat.DetectionResult) chat.DetectionResult {
	for _, plugin := range d.hints.Plugins() {
		pp, ok := plugin.(chat.PostProcessor)
		if !ok {
			continue
		}
		result = pp.PostProcess(ctx, input, result)
	}
	return result
}
