package http

import (
	"relationship-mediator/internal/chat"
)

// --- Request DTOs ---

type messageReq struct {
	Message         string `json:"message"           binding:"required"`
	ActiveSessionID string `json:"active_session_id"`
}

func (r messageReq) validate() error { return nil }

func (r messageReq) toInput() chat.ProcessInput {
	return chat.ProcessInput{
		Message:         r.Message,
		ActiveSessionID: r.ActiveSessionID,
	}
}

// --- Response DTOs ---

type messageResp struct {
	Reply         string                 `json:"reply"`
	Intent        string                 `json:"intent"`
	Confidence    string                 `json:"confidence"`
	Actions       []chat.SuggestedAction `json:"actions,omitempty"`
	SessionChange *chat.SessionChange    `json:"session_change,omitempty"`
	PassThrough   *chat.PassThrough      `json:"pass_through,omitempty"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

func (h *handler) newMessageResp(out chat.ProcessOutput) messageResp {
	return messageResp{
		Reply:         out.Reply,
		Intent:        string(out.Intent),
		Confidence:    string(out.Confidence),
		Actions:       out.Actions,
		SessionChange: out.SessionChange,
		PassThrough:   out.PassThrough,
		Data:          out.Data,
	}
}
