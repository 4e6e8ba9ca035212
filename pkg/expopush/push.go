// Package expopush sends push notifications through the Expo push service.
package expopush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const defaultAPIURL = "https://exp.host/--/api/v2/push/send"

// Client is the Expo push API client.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// New creates a new Expo push client.
func New() *Client {
	return &Client{
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{},
	}
}

// SetAPIURL overrides the default Expo API URL for testing purposes.
func (c *Client) SetAPIURL(url string) {
	c.apiURL = url
}

// Send delivers one push notification.
func (c *Client) Send(ctx context.Context, msg PushMessage) error {
	if msg.Sound == "" {
		msg.Sound = "default"
	}

	body, err := json.Marshal([]PushMessage{msg})
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call expo push API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push API error: %d", resp.StatusCode)
	}

	var apiResp pushResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}
	if len(apiResp.Errors) > 0 {
		return fmt.Errorf("expo push rejected: %s", apiResp.Errors[0].Message)
	}
	for _, ticket := range apiResp.Data {
		if ticket.Status == "error" {
			return fmt.Errorf("expo push ticket error: %s", ticket.Message)
		}
	}

	return nil
}
