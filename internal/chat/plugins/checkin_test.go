package plugins

import (
	"context"
	"testing"

	"relationship-mediator/internal/chat"
)

func TestCheckInPostProcess(t *testing.T) {
	ctx := context.Background()
	p := NewCheckIn()

	t.Run("Upgrades Unknown On Keyword Match", func(t *testing.T) {
		input := chat.DetectionInput{Message: "Just checking in, how are we doing?"}
		base := chat.DetectionResult{Intent: chat.IntentUnknown, Confidence: chat.ConfidenceLow, FollowUpQuestion: "hm?"}

		result := p.PostProcess(ctx, input, base)
		if result.Intent != IntentCheckIn {
			t.Errorf("expected CHECK_IN, got %s", result.Intent)
		}
		if result.Confidence != chat.ConfidenceMedium {
			t.Errorf("expected MEDIUM, got %s", result.Confidence)
		}
		if result.FollowUpQuestion != "hm?" {
			t.Errorf("expected unrelated fields preserved, got %q", result.FollowUpQuestion)
		}
	})

	t.Run("Leaves Other Intents Alone", func(t *testing.T) {
		input := chat.DetectionInput{Message: "checking in on sessions"}
		base := chat.DetectionResult{Intent: chat.IntentListSessions, Confidence: chat.ConfidenceHigh}

		result := p.PostProcess(ctx, input, base)
		if result.Intent != chat.IntentListSessions || result.Confidence != chat.ConfidenceHigh {
			t.Errorf("expected untouched result, got %+v", result)
		}
	})

	t.Run("Leaves Unknown Without Keywords Alone", func(t *testing.T) {
		input := chat.DetectionInput{Message: "banana"}
		base := chat.DetectionResult{Intent: chat.IntentUnknown, Confidence: chat.ConfidenceLow}

		result := p.PostProcess(ctx, input, base)
		if result.Intent != chat.IntentUnknown {
			t.Errorf("expected UNKNOWN preserved, got %s", result.Intent)
		}
	})

	t.Run("Raises Low Confidence On Direct Match", func(t *testing.T) {
		base := chat.DetectionResult{Intent: IntentCheckIn, Confidence: chat.ConfidenceLow}
		result := p.PostProcess(ctx, chat.DetectionInput{Message: "check in"}, base)
		if result.Confidence != chat.ConfidenceMedium {
			t.Errorf("expected MEDIUM, got %s", result.Confidence)
		}
	})
}
