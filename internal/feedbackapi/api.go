// Package feedbackapi exposes the feedback service over HTTP. Handlers stay
// thin: decode, delegate, map typed errors to status codes.
package feedbackapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-chi/chi/v5"
	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"

	"github.com/Damilola24434/feedback-triage/internal/feedback"
)

// Default and maximum row window for the digest endpoint.
const (
	defaultDigestLimit = 200
	maxDigestLimit     = 1000
)

// FeedbackService defines the business operations the API needs.
type FeedbackService interface {
	Ingest(ctx context.Context, source, text string) (*feedback.IngestResult, error)
	Retriage(ctx context.Context, id int64) (*feedback.IngestResult, error)
	Get(ctx context.Context, id int64) (*feedback.Item, bool, error)
	List(ctx context.Context, limit int) ([]feedback.Item, error)
}

// DigestService computes dataset digests.
type DigestService interface {
	Summarize(ctx context.Context, limit int) (*feedback.Digest, error)
}

// AssistantService answers questions over the digest.
type AssistantService interface {
	Answer(ctx context.Context, question string) (string, error)
}

// API holds dependencies for HTTP handlers.
type API struct {
	logger    log.Logger
	svc       FeedbackService
	digest    DigestService
	assistant AssistantService
}

// New creates a new API handler.
func New(logger log.Logger, svc FeedbackService, digest DigestService, assistant AssistantService) *API {
	if logger == nil {
		logger = log.Nop()
	}
	if svc == nil {
		panic(xerrors.New("feedback service is required"))
	}
	return &API{
		logger:    logger,
		svc:       svc,
		digest:    digest,
		assistant: assistant,
	}
}

// RegisterRoutes attaches API endpoints to the router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/feedback", a.handleIngest)
		r.Get("/feedback", a.handleList)
		r.Get("/feedback/{id}", a.handleGet)
		r.Post("/feedback/{id}/retriage", a.handleRetriage)
		r.Get("/digest", a.handleDigest)
		r.Post("/assistant", a.handleAssistant)
	})
}

func (a *API) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error(ctx, err, "encode response")
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses. FormatError
// and failed ingests may carry the stored id alongside the error so callers
// can retriage the orphaned unanalyzed row.
func (a *API) writeError(ctx context.Context, w http.ResponseWriter, err error, id int64) {
	body := map[string]any{"error": err.Error()}
	if id > 0 {
		body["id"] = id
	}

	var (
		ve *feedback.ValidationError
		fe *feedback.FormatError
	)
	switch {
	case errors.As(err, &ve):
		a.writeJSON(ctx, w, http.StatusBadRequest, body)
	case errors.Is(err, feedback.ErrNotFound):
		a.writeJSON(ctx, w, http.StatusNotFound, body)
	case errors.Is(err, feedback.ErrModelUnavailable):
		a.writeJSON(ctx, w, http.StatusServiceUnavailable, body)
	case errors.As(err, &fe):
		a.writeJSON(ctx, w, http.StatusBadGateway, body)
	default:
		a.logger.Error(ctx, err, "request failed")
		a.writeJSON(ctx, w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

func idParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func limitParam(r *http.Request, fallback, max int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > max {
		return max
	}
	return n
}

func annotateSpan(r *http.Request, kv ...attribute.KeyValue) {
	trace.SpanFromContext(r.Context()).SetAttributes(kv...)
}
