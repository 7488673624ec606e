// Package intake exposes the submission controller over HTTP.
//
// Routes:
//
//	POST /submit   → run one submission attempt with the posted form values
//	GET  /options  → dropdown catalog for the form
//	GET  /health   → liveness
package intake

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"aivs/query-service/internal/submission"
)

const maxBodyBytes = 64 << 10

// ─── Response types ───────────────────────────────────────────────────────────

// SubmitResponse is the JSON shape returned by POST /submit.
type SubmitResponse struct {
	ID      string              `json:"id"`
	State   submission.State    `json:"state"`
	Status  string              `json:"status"`
	Missing []submission.Field  `json:"missing,omitempty"`
	Payload *submission.Payload `json:"payload,omitempty"`
}

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler holds shared dependencies.
type Handler struct {
	ctrl    *submission.Controller
	version string
}

// NewHandler returns a configured Handler.
func NewHandler(ctrl *submission.Controller, version string) *Handler {
	return &Handler{ctrl: ctrl, version: version}
}

// RegisterRoutes mounts all intake routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/submit", h.handleSubmit)
	mux.HandleFunc("/options", h.handleOptions)
	mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var values map[string]any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&values); err != nil {
		jsonError(w, "body must be a JSON object of form values", http.StatusBadRequest)
		return
	}

	form := h.ctrl.Policy().NewForm()
	if err := form.ApplyValues(values); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// A requester hanging up must not abort a query that is already on its way.
	out := h.ctrl.Submit(context.WithoutCancel(r.Context()), form)
	resp := SubmitResponse{
		ID:      out.ID,
		State:   out.State,
		Status:  out.Status,
		Missing: out.Missing,
		Payload: out.Payload,
	}

	switch out.State {
	case submission.StateSucceeded:
		jsonWrite(w, http.StatusOK, resp)
	case submission.StateRejected:
		jsonWrite(w, http.StatusUnprocessableEntity, resp)
	default:
		jsonWrite(w, http.StatusBadGateway, resp)
	}
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonWrite(w, http.StatusOK, submission.Catalog)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonWrite(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "query-service",
		"version": h.version,
		"policy":  h.ctrl.Policy().Name,
	})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func jsonWrite(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "err", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonWrite(w, code, map[string]string{"error": msg})
}
