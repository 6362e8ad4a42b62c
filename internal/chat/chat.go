// Package chat delivers outbound messages to the team's Slack workspace,
// either through the bot API or an incoming webhook.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIBaseURL = "https://slack.com/api"

// Block is one Block Kit element of an outbound payload.
type Block map[string]interface{}

// SectionBlock builds a markdown section block.
func SectionBlock(markdown string) Block {
	return Block{
		"type": "section",
		"text": map[string]string{"type": "mrkdwn", "text": markdown},
	}
}

// HeaderBlock builds a plain-text header block.
func HeaderBlock(text string) Block {
	return Block{
		"type": "header",
		"text": map[string]string{"type": "plain_text", "text": text},
	}
}

// DividerBlock builds a horizontal divider.
func DividerBlock() Block {
	return Block{"type": "divider"}
}

// WebhookPayload is the body posted to an incoming webhook. Text doubles as
// the notification fallback when blocks are present.
type WebhookPayload struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Client posts messages to Slack.
type Client struct {
	botToken   string
	webhookURL string

	// APIBaseURL and WebhookURL are overridable for tests.
	APIBaseURL string

	httpClient *http.Client
}

// NewClient creates a chat client. Either credential may be empty; the
// corresponding send path then reports an error when used.
func NewClient(botToken, webhookURL string) *Client {
	return &Client{
		botToken:   botToken,
		webhookURL: webhookURL,
		APIBaseURL: defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SetWebhookURL replaces the webhook destination. Used by tests.
func (c *Client) SetWebhookURL(url string) {
	c.webhookURL = url
}

// PostMessage sends plain markdown text to a channel through the bot API.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	if c.botToken == "" {
		return fmt.Errorf("chat bot token is not configured")
	}
	if channel == "" {
		return fmt.Errorf("chat channel is not configured")
	}

	payload := map[string]string{"channel": channel, "text": text}
	data, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, "POST", c.APIBaseURL+"/chat.postMessage", bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat post failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("chat post failed: %s", resp.Status)
	}

	// The API reports failures inside a 200 body.
	var result struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("chat post: decoding response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("chat post rejected: %s", result.Error)
	}
	return nil
}

// PostWebhook delivers a payload to the incoming webhook.
func (c *Client) PostWebhook(ctx context.Context, payload WebhookPayload) error {
	if c.webhookURL == "" {
		return fmt.Errorf("chat webhook is not configured")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.webhookURL, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat webhook failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("chat webhook failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
