// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// TasksHandler handles task draft generation requests.
type TasksHandler struct {
	deps Dependencies
}

// NewTasksHandler creates a new tasks handler.
func NewTasksHandler(deps Dependencies) *TasksHandler {
	return &TasksHandler{deps: deps}
}

// tasksRequest mirrors the request schema for POST /tasks/generate.
type tasksRequest struct {
	ProjectSummary string `json:"project_summary"`
	callOverrides
}

// tasksResponse carries the generated task breakdown plus usage.
type tasksResponse struct {
	GeneratedTasks any `json:"generated_tasks"`
	usage
}

// HandleGenerate handles POST /tasks/generate requests.
func (h *TasksHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req tasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid JSON body"))
		return
	}
	if strings.TrimSpace(req.ProjectSummary) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing project_summary"))
		return
	}

	gen, err := h.deps.GenerateTasks(r.Context(), req.ProjectSummary, req.options())
	if err != nil {
		writeGenerationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasksResponse{GeneratedTasks: gen.Payload, usage: usageOf(gen)})
}
