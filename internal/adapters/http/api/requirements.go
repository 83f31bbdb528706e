// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// RequirementsHandler handles requirement generation requests.
type RequirementsHandler struct {
	deps Dependencies
}

// NewRequirementsHandler creates a new requirements handler.
func NewRequirementsHandler(deps Dependencies) *RequirementsHandler {
	return &RequirementsHandler{deps: deps}
}

// requirementsRequest mirrors the request schema for POST /requirements/generate.
type requirementsRequest struct {
	ProjectOverview      string `json:"project_overview"`
	ExistingRequirements string `json:"existing_requirements"`
	AdditionalCount      int    `json:"additional_count"`
	callOverrides
}

// requirementsResponse carries the generated requirements plus usage.
type requirementsResponse struct {
	Requirements any `json:"requirements"`
	usage
}

// HandleGenerate handles POST /requirements/generate requests.
func (h *RequirementsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req requirementsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.ProjectOverview) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing project_overview"))
		return
	}

	gen, err := h.deps.GenerateRequirements(r.Context(),
		req.ProjectOverview, req.ExistingRequirements, req.AdditionalCount, req.options())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, requirementsResponse{
		Requirements: gen.Payload,
		usage:        usageOf(gen),
	})
}
