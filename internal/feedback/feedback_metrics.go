package feedback

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the feedback subsystem.
type Metrics struct {
	IngestsTotal    *prometheus.CounterVec
	RetriagesTotal  *prometheus.CounterVec
	TriageDuration  *prometheus.HistogramVec
	FormatFailures  prometheus.Counter
	LLMCallsTotal   prometheus.Counter
	LLMTokensIn     prometheus.Counter
	LLMTokensOut    prometheus.Counter
	LLMDuration     prometheus.Histogram
	DigestRows      prometheus.Histogram
	AssistantsTotal *prometheus.CounterVec
}

// NewMetrics registers and returns feedback metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IngestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_ingests_total",
			Help: "Total feedback ingestions by outcome.",
		}, []string{"outcome"}),
		RetriagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_retriages_total",
			Help: "Total retriage requests by outcome.",
		}, []string{"outcome"}),
		TriageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feedback_triage_duration_seconds",
			Help:    "Duration of triage model calls including normalization.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s .. ~64s
		}, []string{"outcome"}),
		FormatFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_triage_format_failures_total",
			Help: "Model responses that never normalized to a valid analysis.",
		}),
		LLMCallsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_llm_calls_total",
			Help: "Total LLM provider calls.",
		}),
		LLMTokensIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_llm_tokens_input_total",
			Help: "Total LLM input tokens consumed.",
		}),
		LLMTokensOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "feedback_llm_tokens_output_total",
			Help: "Total LLM output tokens consumed.",
		}),
		LLMDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feedback_llm_call_duration_seconds",
			Help:    "Duration of individual LLM calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 8), // 0.5s .. ~64s
		}),
		DigestRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "feedback_digest_rows",
			Help:    "Rows scanned per digest computation.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1 .. ~2048
		}),
		AssistantsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "feedback_assistant_calls_total",
			Help: "Total assistant questions by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.IngestsTotal,
		m.RetriagesTotal,
		m.TriageDuration,
		m.FormatFailures,
		m.LLMCallsTotal,
		m.LLMTokensIn,
		m.LLMTokensOut,
		m.LLMDuration,
		m.DigestRows,
		m.AssistantsTotal,
	)

	return m
}

// Hooks returns TriageHooks that increment the corresponding metrics.
func (m *Metrics) Hooks() TriageHooks {
	return TriageHooks{
		OnLLMCall: func(inputTokens, outputTokens int64, duration float64) {
			m.LLMCallsTotal.Inc()
			m.LLMTokensIn.Add(float64(inputTokens))
			m.LLMTokensOut.Add(float64(outputTokens))
			m.LLMDuration.Observe(duration)
		},
	}
}
