// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pja-project/mlapi/internal/domain/stats"
	"github.com/pja-project/mlapi/internal/domain/types"
)

// Base path shared by all business endpoints.
const basePath = "/api/pja"

// Generation mirrors the shared generation result shape.
type Generation = types.Generation

// CallOptions mirrors the shared per-request override shape.
type CallOptions = types.CallOptions

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// DashboardStats runs the event-log aggregation pipeline.
	DashboardStats(ctx context.Context, userLog string) (stats.Dashboard, error)

	// Document generation operations.
	GenerateRequirements(ctx context.Context, overview, existing string, count int, opts CallOptions) (Generation, error)
	GenerateSummary(ctx context.Context, overview, requirements string, opts CallOptions) (Generation, error)
	GenerateERD(ctx context.Context, overview, requirements, summary string, opts CallOptions) (Generation, error)
	GenerateAPISpec(ctx context.Context, overview, requirements, summary string, opts CallOptions) (Generation, error)
	GenerateRecommendation(ctx context.Context, projectList string, opts CallOptions) (Generation, error)
	GenerateTasks(ctx context.Context, summary string, opts CallOptions) (Generation, error)

	// SearchSimilar ranks catalog projects against a solution idea.
	SearchSimilar(ctx context.Context, idea string, stack []string, topK int) ([]int64, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	requirementsHandler *RequirementsHandler
	summaryHandler      *SummaryHandler
	erdHandler          *ERDHandler
	apiSpecHandler      *APISpecHandler
	recommendHandler    *RecommendHandler
	tasksHandler        *TasksHandler
	searchHandler       *SearchHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithMaxLogBytes caps the request body accepted by the stats endpoint.
func WithMaxLogBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.statsHandler.maxBody = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(deps),
		requirementsHandler: NewRequirementsHandler(deps),
		summaryHandler:      NewSummaryHandler(deps),
		erdHandler:          NewERDHandler(deps),
		apiSpecHandler:      NewAPISpecHandler(deps),
		recommendHandler:    NewRecommendHandler(deps),
		tasksHandler:        NewTasksHandler(deps),
		searchHandler:       NewSearchHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(_ context.Context, r *mux.Router) {
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})
	r.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/metrics", s.healthHandler.HandleMetrics).Methods(http.MethodGet)

	sub := r.PathPrefix(basePath).Subrouter()
	sub.Use(RequestIDMiddleware)
	sub.HandleFunc("/stats/generate", MetricsMiddleware(s.statsHandler.HandleGenerate, "stats")).Methods(http.MethodPost)
	sub.HandleFunc("/requirements/generate", MetricsMiddleware(s.requirementsHandler.HandleGenerate, "requirements")).Methods(http.MethodPost)
	sub.HandleFunc("/summary/generate", MetricsMiddleware(s.summaryHandler.HandleGenerate, "summary")).Methods(http.MethodPost)
	sub.HandleFunc("/erd/generate", MetricsMiddleware(s.erdHandler.HandleGenerate, "erd")).Methods(http.MethodPost)
	sub.HandleFunc("/apispec/generate", MetricsMiddleware(s.apiSpecHandler.HandleGenerate, "apispec")).Methods(http.MethodPost)
	sub.HandleFunc("/recommend/generate", MetricsMiddleware(s.recommendHandler.HandleGenerate, "recommend")).Methods(http.MethodPost)
	sub.HandleFunc("/tasks/generate", MetricsMiddleware(s.tasksHandler.HandleGenerate, "tasks")).Methods(http.MethodPost)
	sub.HandleFunc("/search/generate", MetricsMiddleware(s.searchHandler.HandleGenerate, "search")).Methods(http.MethodPost)
}

// dataEnvelope wraps a record list for the dashboard response.
type dataEnvelope struct {
	Data any `json:"data"`
}

// usage carries token accounting shared by generation responses.
type usage struct {
	Model            string `json:"model"`
	TotalTokens      int    `json:"total_tokens"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

func usageOf(gen Generation) usage {
	return usage{
		Model:            gen.Model,
		TotalTokens:      gen.TotalTokens,
		PromptTokens:     gen.PromptTokens,
		CompletionTokens: gen.CompletionTokens,
	}
}

// callOverrides mirrors the optional tuning fields shared by generation
// requests. Temperature is a pointer so an explicit 0 survives decoding.
type callOverrides struct {
	Model       string   `json:"model"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float32 `json:"temperature"`
}

func (c callOverrides) options() CallOptions {
	opts := CallOptions{Model: c.Model, MaxTokens: c.MaxTokens}
	if c.Temperature != nil {
		opts.Temperature = *c.Temperature
		opts.HasTemp = true
	}
	return opts
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
