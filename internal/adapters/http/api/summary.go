// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// SummaryHandler handles project summary generation requests.
type SummaryHandler struct {
	deps Dependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps Dependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

// summaryRequest mirrors the request schema for POST /summary/generate.
type summaryRequest struct {
	ProjectOverview string `json:"project_overview"`
	Requirements    string `json:"requirements"`
	callOverrides
}

// documentResponse carries a generated JSON document plus usage. Shared by
// the summary, ERD, and API spec endpoints, which all answer with one
// JSON document under the "json" key.
type documentResponse struct {
	JSON any `json:"json"`
	usage
}

// HandleGenerate handles POST /summary/generate requests.
func (h *SummaryHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.ProjectOverview) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing project_overview"))
		return
	}

	gen, err := h.deps.GenerateSummary(r.Context(), req.ProjectOverview, req.Requirements, req.options())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{JSON: gen.Payload, usage: usageOf(gen)})
}
