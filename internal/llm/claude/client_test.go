package claude

import (
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
)

func TestTextContent_SingleBlock(t *testing.T) {
	t.Parallel()

	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: `{"sentiment":"negative"}`},
		},
		Usage: anthropic.Usage{InputTokens: 100, OutputTokens: 50},
	}

	got := textContent(msg)
	if got != `{"sentiment":"negative"}` {
		t.Errorf("text = %q", got)
	}
}

func TestTextContent_ConcatenatesBlocks(t *testing.T) {
	t.Parallel()

	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: `{"sentiment":`},
			{Type: "text", Text: `"neutral"}`},
		},
	}

	got := textContent(msg)
	if got != `{"sentiment":"neutral"}` {
		t.Errorf("text = %q, blocks must concatenate in order", got)
	}
}

func TestTextContent_IgnoresNonTextBlocks(t *testing.T) {
	t.Parallel()

	msg := &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "tool_use", ID: "tu-1", Name: "something", Input: json.RawMessage(`{}`)},
			{Type: "text", Text: "only this"},
		},
	}

	got := textContent(msg)
	if got != "only this" {
		t.Errorf("text = %q, want non-text blocks skipped", got)
	}
}

func TestTextContent_Empty(t *testing.T) {
	t.Parallel()

	if got := textContent(&anthropic.Message{}); got != "" {
		t.Errorf("text = %q, want empty", got)
	}
}

func TestNew_CarriesModel(t *testing.T) {
	t.Parallel()

	c := New("sk-test", "claude-sonnet-4-20250514")
	if c.model != "claude-sonnet-4-20250514" {
		t.Errorf("model = %q", c.model)
	}
}
