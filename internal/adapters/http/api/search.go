// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pja-project/mlapi/internal/adapters/catalog"
)

// SearchHandler handles project similarity search requests.
type SearchHandler struct {
	deps Dependencies
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(deps Dependencies) *SearchHandler {
	return &SearchHandler{deps: deps}
}

// searchRequest mirrors the request schema for POST /search/generate.
type searchRequest struct {
	ProjectInfo struct {
		ProblemSolving struct {
			SolutionIdea string `json:"solutionIdea"`
		} `json:"problemSolving"`
		TechnologyStack []string `json:"technologyStack"`
	} `json:"project_info"`
	TopK int `json:"top_k"`
}

// searchResponse carries the ranked workspace ids.
type searchResponse struct {
	SimilarIDs struct {
		ProjectID []int64 `json:"project_ID"`
	} `json:"similar_ids"`
}

// HandleGenerate handles POST /search/generate requests.
func (h *SearchHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.ProjectInfo.ProblemSolving.SolutionIdea) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing project_info.problemSolving.solutionIdea"))
		return
	}
	if len(req.ProjectInfo.TechnologyStack) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing project_info.technologyStack"))
		return
	}

	ids, err := h.deps.SearchSimilar(r.Context(),
		req.ProjectInfo.ProblemSolving.SolutionIdea, req.ProjectInfo.TechnologyStack, req.TopK)
	if err != nil {
		if errors.Is(err, catalog.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, "search_unavailable", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	var resp searchResponse
	resp.SimilarIDs.ProjectID = ids
	writeJSON(w, http.StatusOK, resp)
}
