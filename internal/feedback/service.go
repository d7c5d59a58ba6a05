package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"
)

// List bounds when the caller does not supply a limit or asks for too much.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// IngestResult is the outcome of ingesting or retriaging a feedback item.
// ID is valid whenever a row exists, even if the accompanying error reports
// a failed triage - the row then remains stored unanalyzed.
type IngestResult struct {
	ID       int64     `json:"id"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// Service is the business boundary for feedback operations. It owns the
// transition from unanalyzed to analyzed; the store owns row lifetime.
type Service struct {
	store    Store
	triager  *Triager
	logger   log.Logger
	metrics  *Metrics
	notifier Notifier
}

// NewService creates a feedback service. metrics and notifier may be nil.
func NewService(store Store, triager *Triager, logger log.Logger, m *Metrics, notifier Notifier) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:    store,
		triager:  triager,
		logger:   logger,
		metrics:  m,
		notifier: notifier,
	}
}

// Ingest stores a feedback item and triages it in one pass: insert the row
// first, then invoke the model, then persist the Analysis. If triage or the
// final update fails the row stays on record unanalyzed (the store's id
// assignment is not revocable) and the returned result still carries the id
// so the caller can retriage later.
func (s *Service) Ingest(ctx context.Context, source, text string) (*IngestResult, error) {
	source = strings.TrimSpace(source)
	if err := validateItem(source, text); err != nil {
		s.observeIngest("invalid")
		return nil, err
	}

	id, err := s.store.Insert(ctx, source, text)
	if err != nil {
		s.observeIngest("insert_error")
		return nil, &StoreError{Op: "insert", Err: err}
	}

	start := time.Now()
	analysis, err := s.triager.Invoke(ctx, source, text)
	if err != nil {
		s.observeTriage(err, time.Since(start))
		s.observeIngest(triageOutcome(err))
		s.logger.Error(ctx, err, "triage failed, row stored unanalyzed", "id", id)
		return &IngestResult{ID: id}, err
	}
	s.observeTriage(nil, time.Since(start))

	if err := s.store.SetAnalysis(ctx, id, analysis); err != nil {
		s.observeIngest("update_error")
		return &IngestResult{ID: id}, &StoreError{Op: "update", Err: err}
	}

	s.observeIngest("ok")
	s.logger.Info(ctx, "feedback ingested",
		"id", id,
		"source", source,
		"urgency", analysis.Urgency,
		"sentiment", analysis.Sentiment,
	)
	s.maybeNotify(ctx, id, source, text, analysis)

	return &IngestResult{ID: id, Analysis: analysis}, nil
}

// Retriage reruns triage on an existing item and replaces its Analysis
// wholesale. A failed run leaves the prior Analysis untouched. Concurrent
// retriage of the same id is not serialized; the later update wins.
func (s *Service) Retriage(ctx context.Context, id int64) (*IngestResult, error) {
	item, ok, err := s.store.Get(ctx, id)
	if err != nil {
		s.observeRetriage("get_error")
		return nil, &StoreError{Op: "get", Err: err}
	}
	if !ok {
		s.observeRetriage("not_found")
		return nil, ErrNotFound
	}

	start := time.Now()
	analysis, err := s.triager.Invoke(ctx, item.Source, item.Text)
	if err != nil {
		s.observeTriage(err, time.Since(start))
		s.observeRetriage(triageOutcome(err))
		return nil, err
	}
	s.observeTriage(nil, time.Since(start))

	if err := s.store.SetAnalysis(ctx, id, analysis); err != nil {
		s.observeRetriage("update_error")
		return nil, &StoreError{Op: "update", Err: err}
	}

	s.observeRetriage("ok")
	s.logger.Info(ctx, "feedback retriaged", "id", id, "urgency", analysis.Urgency)
	s.maybeNotify(ctx, id, item.Source, item.Text, analysis)

	return &IngestResult{ID: id, Analysis: analysis}, nil
}

// Get retrieves a feedback item by id.
func (s *Service) Get(ctx context.Context, id int64) (*Item, bool, error) {
	return s.store.Get(ctx, id)
}

// List returns the most recent items, clamping the limit to sane bounds.
func (s *Service) List(ctx context.Context, limit int) ([]Item, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	items, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return items, nil
}

func (s *Service) maybeNotify(ctx context.Context, id int64, source, text string, a *Analysis) {
	if s.notifier == nil || a.Urgency != LevelHigh {
		return
	}
	item := &Item{ID: id, Source: source, Text: text, Analysis: a}
	if err := s.notifier.FeedbackTriaged(ctx, item); err != nil {
		// notification is best-effort
		s.logger.Error(ctx, err, "notify failed", "id", id)
	}
}

func (s *Service) observeIngest(outcome string) {
	if s.metrics != nil {
		s.metrics.IngestsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) observeRetriage(outcome string) {
	if s.metrics != nil {
		s.metrics.RetriagesTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) observeTriage(err error, dur time.Duration) {
	if s.metrics == nil {
		return
	}
	outcome := triageOutcome(err)
	if outcome == "format_error" {
		s.metrics.FormatFailures.Inc()
	}
	s.metrics.TriageDuration.WithLabelValues(outcome).Observe(dur.Seconds())
}

func triageOutcome(err error) string {
	var fe *FormatError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &fe):
		return "format_error"
	case errors.Is(err, ErrModelUnavailable):
		return "unavailable"
	default:
		return "model_error"
	}
}

func validateItem(source, text string) error {
	if source == "" {
		return &ValidationError{Field: "source", Reason: "must not be empty"}
	}
	if len(source) > MaxSourceLen {
		return &ValidationError{Field: "source", Reason: "too long"}
	}
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if len(text) > MaxTextLen {
		return &ValidationError{Field: "text", Reason: "too long"}
	}
	return nil
}
