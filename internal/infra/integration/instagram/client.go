package instagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client sends DMs through the Graph API on behalf of the connected
// Instagram professional account.
type Client struct {
	baseURL     string
	accountID   string
	accessToken string
	http        *http.Client
}

func NewClient(accessToken, accountID, baseURL string) *Client {
	return &Client{
		baseURL:     baseURL,
		accountID:   accountID,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.accessToken != "" && c.accountID != ""
}

func (c *Client) SendText(ctx context.Context, input SendTextInput) error {
	payload := sendMessageRequest{
		MessagingProduct: "instagram",
		Recipient:        recipient{ID: input.RecipientID},
		Message:          message{Text: input.Text},
	}
	return c.send(ctx, payload)
}

func (c *Client) SendQuickReplies(ctx context.Context, input SendQuickRepliesInput) error {
	replies := make([]quickReply, 0, len(input.Titles))
	for _, title := range input.Titles {
		replies = append(replies, quickReply{
			ContentType: "text",
			Title:       title,
			Payload:     strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(title), " ", "_")),
		})
	}

	payload := sendMessageRequest{
		MessagingProduct: "instagram",
		Recipient:        recipient{ID: input.RecipientID},
		Message: message{
			Text:         input.Text,
			QuickReplies: replies,
		},
	}
	return c.send(ctx, payload)
}

func (c *Client) send(ctx context.Context, payload sendMessageRequest) error {
	if !c.Configured() {
		return fmt.Errorf("instagram: access token or account id not configured")
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("instagram: marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages?access_token=%s",
		c.baseURL, c.accountID, url.QueryEscape(c.accessToken))

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("instagram: send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("instagram: api returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result SendMessageResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("instagram: decode response: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("instagram: %s (code %d)", result.Error.Message, result.Error.Code)
	}

	return nil
}
