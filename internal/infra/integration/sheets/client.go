package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client appends collected leads to a Google Sheet through its Apps
// Script webhook. One row per call, no retry; the caller decides what
// to do with a failure.
type Client struct {
	webhookURL string
	http       *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: webhookURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.webhookURL != ""
}

func (c *Client) AppendLead(ctx context.Context, input AppendLeadInput) error {
	if !c.Configured() {
		return fmt.Errorf("sheets: webhook url not configured")
	}

	payload := appendLeadRequest{
		IGID:     input.SenderID,
		Name:     input.Name,
		Email:    input.Email,
		Platform: input.Platform,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("sheets: marshal lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sheets: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheets: webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
