// Package push delivers notifications to the external push gateway.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Message is a single push payload for one recipient.
type Message struct {
	Title   string    `json:"title"`
	Message string    `json:"message"`
	UID     uuid.UUID `json:"uid"`
}

// Client posts push messages to the gateway over HTTP.
type Client struct {
	http   *http.Client
	url    string
	apiKey string
}

// New creates a push client for the given gateway URL.
func New(url, apiKey string, timeout time.Duration) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		url:    url,
		apiKey: apiKey,
	}
}

// Send delivers one message. A non-2xx gateway response is an error so the
// dispatcher can retry the delivery later.
func (c *Client) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal push: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
