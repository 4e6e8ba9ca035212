package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is the HTTP wrapper for the session backend REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new session backend client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// ListSessions fetches the user's sessions via GET /api/v1/users/{id}/sessions.
func (c *Client) ListSessions(ctx context.Context, userID string) ([]SessionDTO, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s/sessions", c.baseURL, userID)

	var parsed struct {
		Sessions []SessionDTO `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &parsed); err != nil {
		return nil, err
	}
	return parsed.Sessions, nil
}

// GetSession fetches one session scoped to the user's memberships. Returns
// (nil, nil) on 404.
func (c *Client) GetSession(ctx context.Context, userID, sessionID string) (*SessionDTO, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s/sessions/%s", c.baseURL, userID, sessionID)

	var dto SessionDTO
	err := c.do(ctx, http.MethodGet, url, nil, &dto)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &dto, nil
}

// CreateSession creates a session via POST /api/v1/sessions.
func (c *Client) CreateSession(ctx context.Context, req CreateSessionRequest) (*SessionDTO, error) {
	url := fmt.Sprintf("%s/api/v1/sessions", c.baseURL)

	var dto SessionDTO
	if err := c.do(ctx, http.MethodPost, url, req, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// GetPushToken fetches the user's registered push token. Returns "" on 404.
func (c *Client) GetPushToken(ctx context.Context, userID string) (string, error) {
	url := fmt.Sprintf("%s/api/v1/users/%s/push-token", c.baseURL, userID)

	var parsed struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodGet, url, nil, &parsed); err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", err
	}
	return parsed.Token, nil
}

func (c *Client) do(ctx context.Context, method, url string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal session API request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build session API request: %w", err)
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call session API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("session API error %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode session API response: %w", err)
		}
	}
	return nil
}

// ---- Request/Response types scoped to this package ----

// SessionDTO is the backend's session object.
type SessionDTO struct {
	ID             string `json:"id"`
	PartnerID      string `json:"partner_id"`
	PartnerName    string `json:"partner_name"`
	Status         string `json:"status"`
	Stage          string `json:"stage"`
	Topic          string `json:"topic"`
	LastActivityAt string `json:"last_activity_at"` // RFC 3339
}

// CreateSessionRequest is the body for POST /api/v1/sessions.
type CreateSessionRequest struct {
	UserID           string `json:"user_id"`
	PartnerFirstName string `json:"partner_first_name"`
	PartnerLastName  string `json:"partner_last_name,omitempty"`
	ContactKind      string `json:"contact_kind,omitempty"`
	ContactValue     string `json:"contact_value,omitempty"`
	Topic            string `json:"topic,omitempty"`
}
