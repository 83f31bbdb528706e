// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// RecommendHandler handles next-action recommendation requests.
type RecommendHandler struct {
	deps Dependencies
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(deps Dependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// recommendRequest mirrors the request schema for POST /recommend/generate.
type recommendRequest struct {
	ProjectList string `json:"project_list"`
	callOverrides
}

// recommendResponse carries the recommendations plus usage.
type recommendResponse struct {
	Recommendations any `json:"recommendations"`
	usage
}

// HandleGenerate handles POST /recommend/generate requests.
func (h *RecommendHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.ProjectList) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing project_list"))
		return
	}

	gen, err := h.deps.GenerateRecommendation(r.Context(), req.ProjectList, req.options())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{Recommendations: gen.Payload, usage: usageOf(gen)})
}
