// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pja-project/mlapi/internal/domain/stats"
)

// StatsHandler handles dashboard statistics requests.
type StatsHandler struct {
	deps    Dependencies
	maxBody int64
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps Dependencies) *StatsHandler {
	return &StatsHandler{deps: deps, maxBody: 10 << 20}
}

// statsRequest mirrors the request schema for POST /stats/generate.
type statsRequest struct {
	UserLog string `json:"user_log"`
}

// statsResponse carries both dashboard statistics.
type statsResponse struct {
	TaskImbalance  dataEnvelope `json:"task_imbalance"`
	ProcessingTime dataEnvelope `json:"processing_time"`
}

// HandleGenerate handles POST /stats/generate requests.
func (h *StatsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var req statsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("body must be a JSON object with user_log"))
		return
	}
	if strings.TrimSpace(req.UserLog) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing user_log"))
		return
	}

	dash, err := h.deps.DashboardStats(r.Context(), req.UserLog)
	if err != nil {
		if errors.Is(err, stats.ErrBadEventLog) {
			writeError(w, http.StatusBadRequest, "bad_event_log", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TaskImbalance:  dataEnvelope{Data: dash.Imbalance},
		ProcessingTime: dataEnvelope{Data: dash.Completion},
	})
}
