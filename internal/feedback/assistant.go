package feedback

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/linnemanlabs/go-core/log"
)

// DefaultAssistantWindow is how many recent items the assistant digests when
// no window is configured.
const DefaultAssistantWindow = 200

// Assistant answers free-text questions about the dataset. It never sees raw
// feedback rows - only the digest - so its context stays bounded no matter
// how large the dataset grows.
type Assistant struct {
	provider   Generator
	aggregator *Aggregator
	window     int
	logger     log.Logger
	metrics    *Metrics
}

// NewAssistant creates an assistant over the given aggregator. A nil
// provider is allowed; Answer then fails with ErrModelUnavailable.
func NewAssistant(provider Generator, aggregator *Aggregator, window int, logger log.Logger, m *Metrics) *Assistant {
	if window <= 0 {
		window = DefaultAssistantWindow
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Assistant{
		provider:   provider,
		aggregator: aggregator,
		window:     window,
		logger:     logger,
		metrics:    m,
	}
}

// Answer computes a digest over the assistant's recency window and issues a
// single model call grounded on it. The summary-only constraint lives in the
// prompt; it is not enforced on the model's output.
func (a *Assistant) Answer(ctx context.Context, question string) (string, error) {
	if a.provider == nil {
		a.observe("unavailable")
		return "", ErrModelUnavailable
	}
	question = strings.TrimSpace(question)
	if question == "" {
		a.observe("invalid")
		return "", &ValidationError{Field: "question", Reason: "must not be empty"}
	}

	digest, err := a.aggregator.Summarize(ctx, a.window)
	if err != nil {
		a.observe("digest_error")
		return "", err
	}

	res, err := a.provider.Generate(ctx, assistantSystemPrompt, buildAssistantPrompt(digest, question))
	if err != nil {
		a.observe("model_error")
		return "", fmt.Errorf("generate: %w", err)
	}

	a.observe("ok")
	a.logger.Info(ctx, "assistant answered",
		"window", a.window,
		"digest_total", digest.Total,
		"input_tokens", res.InputTokens,
		"output_tokens", res.OutputTokens,
	)
	return strings.TrimSpace(res.Text), nil
}

func (a *Assistant) observe(outcome string) {
	if a.metrics != nil {
		a.metrics.AssistantsTotal.WithLabelValues(outcome).Inc()
	}
}

const assistantSystemPrompt = `You are an analyst summarizing aggregated product feedback statistics. Answer only in aggregate, summary-level language. Never reference individual feedback items, item identifiers, links, or quote feedback text verbatim.`

func buildAssistantPrompt(d *Digest, question string) string {
	return fmt.Sprintf(`Dataset statistics over the most recent feedback items:
%s
Question: %s`, RenderDigest(d), question)
}

// RenderDigest serializes a digest into the compact textual form the
// assistant prompt embeds. Map sections are emitted in a fixed order so the
// prompt is deterministic for a given digest.
func RenderDigest(d *Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "total items: %d (analyzed: %d)\n", d.Total, d.Analyzed)

	fmt.Fprintf(&b, "by urgency:")
	for _, lv := range []Level{LevelHigh, LevelMedium, LevelLow} {
		fmt.Fprintf(&b, " %s=%d", lv, d.ByUrgency[lv])
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "by sentiment:")
	for _, sn := range []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative} {
		fmt.Fprintf(&b, " %s=%d", sn, d.BySentiment[sn])
	}
	b.WriteByte('\n')

	sources := make([]string, 0, len(d.BySource))
	for src := range d.BySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	fmt.Fprintf(&b, "by source:")
	for _, src := range sources {
		fmt.Fprintf(&b, " %s=%d", src, d.BySource[src])
	}
	b.WriteByte('\n')

	fmt.Fprintf(&b, "top themes:")
	for _, tc := range d.TopThemes {
		fmt.Fprintf(&b, " %s=%d", tc.Theme, tc.Count)
	}
	b.WriteByte('\n')

	return b.String()
}
