package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"meridian-hq/minos/pkg/govern"
	"meridian-hq/minos/pkg/judge"
	"meridian-hq/minos/pkg/provider"
)

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
}

// handleHealth reports readiness and the active law version.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.ActiveSnapshot()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":      "ready",
		"version":     s.version,
		"law_version": snapshot.Version(),
	})
}

// handleLaws lists the laws in the active snapshot.
func (s *Server) handleLaws(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.ActiveSnapshot().Laws())
}

// sentinelRequest is the body for the standalone red-line check.
type sentinelRequest struct {
	Content string `json:"content"`
}

// handleSentinel runs the red-line check alone: 200 when clear, 403 with
// the matched law when triggered.
func (s *Server) handleSentinel(w http.ResponseWriter, r *http.Request) {
	var req sentinelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Content == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "content is required"})
		return
	}

	result := s.sentinel.Check(req.Content, s.store.ActiveSnapshot().RedlineRules())
	if result.Triggered {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"status":        "blocked",
			"law_id":        result.Law.ID,
			"evidence_span": result.EvidenceSpan,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "allowed"})
}

// handleComplianceCycle runs the full cycle and returns the trace.
func (s *Server) handleComplianceCycle(w http.ResponseWriter, r *http.Request) {
	var req govern.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	trace, err := s.engine.RunComplianceCycle(r.Context(), req)
	if err != nil {
		writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
		return
	}

	if s.recorder != nil {
		s.recorder.Record(trace)
	}
	writeJSON(w, http.StatusOK, trace)
}

// statusForError maps engine errors to HTTP statuses.
func statusForError(err error) int {
	var (
		timeoutErr  *provider.TimeoutError
		providerErr *provider.Error
		critiqueErr *judge.InvalidCritiqueError
	)
	switch {
	case errors.Is(err, govern.ErrMissingPrompt):
		return http.StatusBadRequest
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &providerErr), errors.As(err, &critiqueErr):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeJSON writes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
