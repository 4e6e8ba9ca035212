package intent

import (
	"encoding/json"
	"fmt"

	"relationship-mediator/internal/chat"
	"relationship-mediator/internal/model"
)

// rawDetection is the model's wire shape. Every field is optional; mapping to
// the domain enums is total, with explicit defaults for unrecognized values.
type rawDetection struct {
	Intent     string `json:"intent"`
	Confidence string `json:"confidence"`
	SessionID  string `json:"sessionId"`
	Person     *struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Contact   *struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		} `json:"contact"`
	} `json:"person"`
	Context *struct {
		Topic         string `json:"topic"`
		EmotionalTone string `json:"emotionalTone"`
	} `json:"context"`
	MissingInfo []struct {
		Field    string `json:"field"`
		Required bool   `json:"required"`
		Prompt   string `json:"prompt"`
	} `json:"missingInfo"`
	FollowUpQuestion string `json:"followUpQuestion"`
}

// parseDetection decodes a structured model response. Unrecognized enum values
// degrade to their defaults instead of failing; only malformed JSON errors.
func parseDetection(data json.RawMessage) (chat.DetectionResult, error) {
	var raw rawDetection
	if err := json.Unmarshal(data, &raw); err != nil {
		return chat.DetectionResult{}, fmt.Errorf("decode detection response: %w", err)
	}

	result := chat.DetectionResult{
		Intent:           chat.ParseIntent(raw.Intent),
		Confidence:       chat.ParseConfidence(raw.Confidence),
		SessionID:        raw.SessionID,
		FollowUpQuestion: raw.FollowUpQuestion,
	}

	if raw.Person != nil && (raw.Person.FirstName != "" || raw.Person.LastName != "") {
		person := &model.Person{
			FirstName: raw.Person.FirstName,
			LastName:  raw.Person.LastName,
		}
		if raw.Person.Contact != nil && raw.Person.Contact.Value != "" {
			person.Contact = &model.ContactMethod{
				Kind:  model.ContactKind(raw.Person.Contact.Type),
				Value: raw.Person.Contact.Value,
			}
		}
		result.Person = person
	}

	if raw.Context != nil {
		result.Context = &chat.SessionContext{
			Topic:         raw.Context.Topic,
			EmotionalTone: chat.ParseEmotionalTone(raw.Context.EmotionalTone),
		}
	}

	for _, mi := range raw.MissingInfo {
		result.MissingInfo = append(result.MissingInfo, chat.MissingInfo{
			Field:    mi.Field,
			Required: mi.Required,
			Prompt:   mi.Prompt,
		})
	}

	return result, nil
}
