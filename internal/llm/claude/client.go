// Package claude implements the feedback.Generator capability on the
// Anthropic Messages API.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Damilola24434/feedback-triage/internal/feedback"
)

// responseTokens caps the answer size. Triage output is a small JSON object
// and assistant answers are a short paragraph, so this is generous.
const responseTokens = 1024

// Client calls the Claude API for single-shot generation.
type Client struct {
	client anthropic.Client
	model  string
}

// New creates a Claude client for the given API key and model name.
func New(apiKey, model string) *Client {
	return &Client{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Generate sends one system+user prompt pair and returns the concatenated
// text content of the reply plus token usage.
func (c *Client) Generate(ctx context.Context, system, user string) (*feedback.GenerateResult, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: responseTokens,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("claude: %w", err)
	}

	return &feedback.GenerateResult{
		Text:         textContent(msg),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}

// textContent concatenates the text blocks of a message, ignoring any other
// block types.
func textContent(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}
