package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

// Generator is the single capability required from an LLM backend.
type Generator interface {
	Generate(ctx context.Context, system, user string) (*GenerateResult, error)
}

// GenerateResult is the raw model answer plus token accounting.
type GenerateResult struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

// TriageHooks are optional callbacks for instrumentation.
type TriageHooks struct {
	// OnLLMCall fires after every successful provider call.
	OnLLMCall func(inputTokens, outputTokens int64, duration float64)
}

// Triager turns one feedback item into an Analysis via a single model call.
// It is agnostic to which backend answers the prompt.
type Triager struct {
	provider Generator
	logger   log.Logger
	hooks    TriageHooks
}

// NewTriager creates a triager. A nil provider is allowed; Invoke then fails
// with ErrModelUnavailable.
func NewTriager(provider Generator, logger log.Logger, hooks TriageHooks) *Triager {
	if logger == nil {
		logger = log.Nop()
	}
	return &Triager{
		provider: provider,
		logger:   logger,
		hooks:    hooks,
	}
}

// Invoke asks the model to triage one feedback item and normalizes the
// answer. It fails with ErrModelUnavailable when no provider is configured
// and with *FormatError when the response never reduces to a valid Analysis.
func (t *Triager) Invoke(ctx context.Context, source, text string) (*Analysis, error) {
	if t.provider == nil {
		return nil, ErrModelUnavailable
	}

	start := time.Now()
	res, err := t.provider.Generate(ctx, triageSystemPrompt, buildTriagePrompt(source, text))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	dur := time.Since(start).Seconds()

	if t.hooks.OnLLMCall != nil {
		t.hooks.OnLLMCall(res.InputTokens, res.OutputTokens, dur)
	}

	t.logger.Info(ctx, "triage model call",
		"source", source,
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens,
		"duration", dur,
	)

	analysis := Normalize(ExtractObject(res.Text))
	if analysis == nil {
		return nil, &FormatError{Excerpt: truncate(res.Text, maxExcerptLen)}
	}
	return analysis, nil
}

const triageSystemPrompt = `You are a product feedback triage assistant. Respond with a single JSON object and nothing else - no prose, no markdown, no code fences.`

// buildTriagePrompt embeds explicit decision criteria for each level. Naive
// prompts over-classify everything as high urgency; the criteria anchor the
// model to the lower levels.
func buildTriagePrompt(source, text string) string {
	return fmt.Sprintf(`Triage the feedback item below. Respond with a JSON object containing exactly these keys: "sentiment", "urgency", "value_impact", "themes", "summary".

Rules:
- "sentiment": "positive", "neutral" or "negative".
- "urgency": "high" only for a blocked core workflow, outage, data loss, security issue, or major revenue impact. "medium" for significant harm with a workaround, or impact limited to a subset of users. "low" for cosmetic issues and nice-to-haves. When unsure, choose the lower level.
- "value_impact": "low", "medium" or "high" - how much acting on this feedback would improve the product.
- "themes": an array of up to %d short lowercase topic labels, each at most %d characters.
- "summary": one sentence of at most %d characters.

Source: %s
Feedback:
%s`, MaxThemes, MaxThemeLen, MaxSummaryLen, source, text)
}
