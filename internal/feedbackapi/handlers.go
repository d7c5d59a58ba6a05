package feedbackapi

import (
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Damilola24434/feedback-triage/internal/feedback"
)

type ingestRequest struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

type assistantRequest struct {
	Question string `json:"question"`
}

type assistantResponse struct {
	Answer string `json:"answer"`
}

func (a *API) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(r.Context(), w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}

	annotateSpan(r, attribute.String("feedback.source", req.Source))

	result, err := a.svc.Ingest(r.Context(), req.Source, req.Text)
	if err != nil {
		var id int64
		if result != nil {
			// row was stored but triage failed; surface the id
			id = result.ID
		}
		a.writeError(r.Context(), w, err, id)
		return
	}

	annotateSpan(r, attribute.Int64("feedback.id", result.ID))
	a.writeJSON(r.Context(), w, http.StatusCreated, result)
}

func (a *API) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		a.writeJSON(r.Context(), w, http.StatusBadRequest, map[string]any{"error": "invalid id"})
		return
	}

	annotateSpan(r, attribute.Int64("feedback.id", id))

	item, found, err := a.svc.Get(r.Context(), id)
	if err != nil {
		a.writeError(r.Context(), w, err, 0)
		return
	}
	if !found {
		a.writeError(r.Context(), w, feedback.ErrNotFound, 0)
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, item)
}

func (a *API) handleList(w http.ResponseWriter, r *http.Request) {
	limit := limitParam(r, feedback.DefaultListLimit, feedback.MaxListLimit)
	items, err := a.svc.List(r.Context(), limit)
	if err != nil {
		a.writeError(r.Context(), w, err, 0)
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) handleRetriage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		a.writeJSON(r.Context(), w, http.StatusBadRequest, map[string]any{"error": "invalid id"})
		return
	}

	annotateSpan(r, attribute.Int64("feedback.id", id))

	result, err := a.svc.Retriage(r.Context(), id)
	if err != nil {
		a.writeError(r.Context(), w, err, id)
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, result)
}

func (a *API) handleDigest(w http.ResponseWriter, r *http.Request) {
	if a.digest == nil {
		a.writeJSON(r.Context(), w, http.StatusNotFound, map[string]any{"error": "not found"})
		return
	}
	limit := limitParam(r, defaultDigestLimit, maxDigestLimit)
	d, err := a.digest.Summarize(r.Context(), limit)
	if err != nil {
		a.writeError(r.Context(), w, err, 0)
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, d)
}

func (a *API) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if a.assistant == nil {
		a.writeJSON(r.Context(), w, http.StatusNotFound, map[string]any{"error": "not found"})
		return
	}
	var req assistantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeJSON(r.Context(), w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	answer, err := a.assistant.Answer(r.Context(), req.Question)
	if err != nil {
		a.writeError(r.Context(), w, err, 0)
		return
	}
	a.writeJSON(r.Context(), w, http.StatusOK, assistantResponse{Answer: answer})
}
