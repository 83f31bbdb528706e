// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APISpecHandler handles REST API specification generation requests.
type APISpecHandler struct {
	deps Dependencies
}

// NewAPISpecHandler creates a new API spec handler.
func NewAPISpecHandler(deps Dependencies) *APISpecHandler {
	return &APISpecHandler{deps: deps}
}

// HandleGenerate handles POST /apispec/generate requests.
func (h *APISpecHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req designRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	gen, err := h.deps.GenerateAPISpec(r.Context(), req.ProjectOverview, req.Requirements, req.ProjectSummary, req.options())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{JSON: gen.Payload, usage: usageOf(gen)})
}
