// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ERDHandler handles entity-relationship design generation requests.
type ERDHandler struct {
	deps Dependencies
}

// NewERDHandler creates a new ERD handler.
func NewERDHandler(deps Dependencies) *ERDHandler {
	return &ERDHandler{deps: deps}
}

// designRequest mirrors the request schema shared by POST /erd/generate and
// POST /apispec/generate.
type designRequest struct {
	ProjectOverview string `json:"project_overview"`
	Requirements    string `json:"requirements"`
	ProjectSummary  string `json:"project_summary"`
	callOverrides
}

func (d designRequest) validate() error {
	switch {
	case strings.TrimSpace(d.ProjectOverview) == "":
		return errors.New("missing project_overview")
	case strings.TrimSpace(d.ProjectSummary) == "":
		return errors.New("missing project_summary")
	}
	return nil
}

// HandleGenerate handles POST /erd/generate requests.
func (h *ERDHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req designRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	gen, err := h.deps.GenerateERD(r.Context(), req.ProjectOverview, req.Requirements, req.ProjectSummary, req.options())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, documentResponse{JSON: gen.Payload, usage: usageOf(gen)})
}
