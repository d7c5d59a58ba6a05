// Package slack pushes high-urgency feedback to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Damilola24434/feedback-triage/internal/feedback"
)

const httpTimeout = 10 * time.Second

// Notifier sends analyzed feedback items to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// New creates a new Slack notifier. If webhookURL is empty, sends are no-ops.
func New(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
	}
}

// FeedbackTriaged posts the item to the configured webhook. It implements
// feedback.Notifier.
func (n *Notifier) FeedbackTriaged(ctx context.Context, item *feedback.Item) error {
	if n.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(buildMessage(item))
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func buildMessage(item *feedback.Item) map[string]any {
	a := item.Analysis
	return map[string]any{
		"blocks": []map[string]any{
			{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf(":rotating_light: High-urgency feedback #%d", item.ID),
				},
			},
			{"type": "divider"},
			{
				"type": "section",
				"fields": []map[string]any{
					{"type": "mrkdwn", "text": "*Source:*\n" + item.Source},
					{"type": "mrkdwn", "text": "*Sentiment:*\n" + string(a.Sentiment)},
					{"type": "mrkdwn", "text": "*Value impact:*\n" + string(a.ValueImpact)},
					{"type": "mrkdwn", "text": "*Themes:*\n" + themeLine(a.Themes)},
				},
			},
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": "*Summary:*\n" + a.Summary,
				},
			},
		},
	}
}

func themeLine(themes []string) string {
	if len(themes) == 0 {
		return "-"
	}
	return strings.Join(themes, ", ")
}
