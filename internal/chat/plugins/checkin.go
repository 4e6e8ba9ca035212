// Package plugins holds detection plugins that extend the router's intent
// taxonomy beyond the built-in set.
package plugins

import (
	"context"
	"strings"

	"relationship-mediator/internal/chat"
)

// IntentCheckIn is the plugin-contributed intent for relationship progress
// check-ins.
const IntentCheckIn chat.Intent = "CHECK_IN"

var checkInKeywords = []string{
	"check in",
	"checking in",
	"how are we doing",
	"how is it going with",
	"our progress",
	"any progress",
}

// CheckIn contributes the CHECK_IN intent: the user asking how the
// relationship work is going rather than continuing it. It upgrades
// low-confidence UNKNOWN classifications when the message plainly reads as a
// check-in.
type CheckIn struct{}

// NewCheckIn builds the plugin.
func NewCheckIn() *CheckIn {
	return &CheckIn{}
}

func (p *CheckIn) ID() string { return "checkin" }

func (p *CheckIn) Intents() []chat.Intent {
	return []chat.Intent{IntentCheckIn}
}

func (p *CheckIn) Hints() []chat.DetectionHint {
	return []chat.DetectionHint{
		{
			Intent:      IntentCheckIn,
			Description: "the user asks how their relationship work is going overall, not continuing a specific conversation",
			Keywords:    checkInKeywords,
			Examples: []string{
				"Just checking in, how are we doing?",
				"Have Sarah and I made any progress?",
			},
		},
	}
}

// PostProcess rewrites the result to CHECK_IN when the model either emitted
// it directly or punted to UNKNOWN on a message the keyword list recognizes.
// All other fields pass through untouched.
func (p *CheckIn) PostProcess(ctx context.Context, input chat.DetectionInput, result chat.DetectionResult) chat.DetectionResult {
	if result.Intent == IntentCheckIn {
		if result.Confidence == chat.ConfidenceLow {
			result.Confidence = chat.ConfidenceMedium
		}
		return result
	}
	if result.Intent != chat.IntentUnknown {
		return result
	}

	message := strings.ToLower(input.Message)
	for _, kw := range checkInKeywords {
		if strings.Contains(message, kw) {
			result.Intent = IntentCheckIn
			result.Confidence = chat.ConfidenceMedium
			return result
		}
	}
	return result
}
