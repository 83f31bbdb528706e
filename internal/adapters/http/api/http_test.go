package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/pja-project/mlapi/internal/adapters/http/api"
	"github.com/pja-project/mlapi/internal/adapters/llm"
	service "github.com/pja-project/mlapi/internal/app"
	"github.com/pja-project/mlapi/internal/domain/stats"
)

// Mock implementation of api.Dependencies for testing
type mockDeps struct {
	dashboard    stats.Dashboard
	dashboardErr error

	generation    api.Generation
	generationErr error
	lastKind      string
	lastOpts      api.CallOptions

	searchIDs    []int64
	searchErr    error
	lastIdea     string
	lastStack    []string
	lastTopK     int
	lastOverview string
}

func (m *mockDeps) DashboardStats(_ context.Context, _ string) (stats.Dashboard, error) {
	if m.dashboardErr != nil {
		return stats.Dashboard{}, m.dashboardErr
	}
	return m.dashboard, nil
}

func (m *mockDeps) gen(kind string, opts api.CallOptions) (api.Generation, error) {
	m.lastKind = kind
	m.lastOpts = opts
	if m.generationErr != nil {
		return api.Generation{}, m.generationErr
	}
	return m.generation, nil
}

func (m *mockDeps) GenerateRequirements(_ context.Context, overview, _ string, _ int, opts api.CallOptions) (api.Generation, error) {
	m.lastOverview = overview
	return m.gen("requirements", opts)
}

func (m *mockDeps) GenerateSummary(_ context.Context, _, _ string, opts api.CallOptions) (api.Generation, error) {
	return m.gen("summary", opts)
}

func (m *mockDeps) GenerateERD(_ context.Context, _, _, _ string, opts api.CallOptions) (api.Generation, error) {
	return m.gen("erd", opts)
}

func (m *mockDeps) GenerateAPISpec(_ context.Context, _, _, _ string, opts api.CallOptions) (api.Generation, error) {
	return m.gen("apispec", opts)
}

func (m *mockDeps) GenerateRecommendation(_ context.Context, _ string, opts api.CallOptions) (api.Generation, error) {
	return m.gen("recommend", opts)
}

func (m *mockDeps) GenerateTasks(_ context.Context, _ string, opts api.CallOptions) (api.Generation, error) {
	return m.gen("tasks", opts)
}

func (m *mockDeps) SearchSimilar(_ context.Context, idea string, stack []string, topK int) ([]int64, error) {
	m.lastIdea = idea
	m.lastStack = stack
	m.lastTopK = topK
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.searchIDs, nil
}

func newTestRouter(deps api.Dependencies, opts ...api.ServerOption) *mux.Router {
	r := mux.NewRouter()
	api.NewServer(deps, opts...).Register(context.Background(), r)
	return r
}

func postJSON(router *mux.Router, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func strPtr(s string) *string { return &s }
func intPtr(i int64) *int64   { return &i }

func TestStatsEndpoint(t *testing.T) {
	Convey("Given a stats endpoint", t, func() {
		deps := &mockDeps{
			dashboard: stats.Dashboard{
				Imbalance: []stats.ImbalanceRecord{
					{UserID: 7, State: strPtr("DONE"), Importance: intPtr(2), Count: 1},
				},
				Completion: []stats.CompletionRecord{
					{UserID: 7, Importance: intPtr(2), MeanHours: 5.0},
				},
			},
		}
		router := newTestRouter(deps)

		Convey("When posting a well-formed request", func() {
			w := postJSON(router, "/api/pja/stats/generate", `{"user_log": "[]"}`)

			Convey("Then it should answer 200 with both statistics", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var resp map[string]map[string]json.RawMessage
				So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["task_imbalance"], ShouldNotBeNil)
				So(resp["processing_time"], ShouldNotBeNil)

				body := w.Body.String()
				So(body, ShouldContainSubstring, `"details.state":"DONE"`)
				So(body, ShouldContainSubstring, `"details.importance":2`)
				So(body, ShouldContainSubstring, `"mean_hours":5`)
			})
		})

		Convey("When the pipeline produces no records", func() {
			deps.dashboard = stats.Dashboard{
				Imbalance:  []stats.ImbalanceRecord{},
				Completion: []stats.CompletionRecord{},
			}
			w := postJSON(router, "/api/pja/stats/generate", `{"user_log": "[]"}`)

			Convey("Then both data arrays should be empty, not null", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"task_imbalance":{"data":[]}`)
				So(w.Body.String(), ShouldContainSubstring, `"processing_time":{"data":[]}`)
			})
		})

		Convey("When the event log is malformed", func() {
			deps.dashboardErr = fmt.Errorf("%w: event[3]: bad timestamp", stats.ErrBadEventLog)
			w := postJSON(router, "/api/pja/stats/generate", `{"user_log": "not json"}`)

			Convey("Then it should answer 400 with field context", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "event[3]")
			})
		})

		Convey("When user_log is missing", func() {
			w := postJSON(router, "/api/pja/stats/generate", `{}`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "user_log")
			})
		})

		Convey("When the body exceeds the configured size cap", func() {
			small := newTestRouter(deps, api.WithMaxLogBytes(16))
			w := postJSON(small, "/api/pja/stats/generate", `{"user_log": "`+strings.Repeat("x", 64)+`"}`)

			Convey("Then it should reject the request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When using the wrong method", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/pja/stats/generate", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Convey("Then it should answer 405", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Body.String(), ShouldContainSubstring, "method_not_allowed")
			})
		})
	})
}

func TestGenerationEndpoints(t *testing.T) {
	Convey("Given the document generation endpoints", t, func() {
		deps := &mockDeps{
			generation: api.Generation{
				Payload:          map[string]any{"title": "study planner"},
				Model:            "gpt-4o-mini",
				TotalTokens:      150,
				PromptTokens:     100,
				CompletionTokens: 50,
			},
		}
		router := newTestRouter(deps)

		Convey("When generating requirements", func() {
			w := postJSON(router, "/api/pja/requirements/generate",
				`{"project_overview": "a study planner", "existing_requirements": "signup", "additional_count": 3, "temperature": 0.2}`)

			Convey("Then it should answer 200 with payload and usage", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastKind, ShouldEqual, "requirements")
				So(deps.lastOverview, ShouldEqual, "a study planner")
				So(deps.lastOpts.HasTemp, ShouldBeTrue)
				So(deps.lastOpts.Temperature, ShouldEqual, float32(0.2))

				body := w.Body.String()
				So(body, ShouldContainSubstring, `"requirements"`)
				So(body, ShouldContainSubstring, `"total_tokens":150`)
				So(body, ShouldContainSubstring, `"prompt_tokens":100`)
				So(body, ShouldContainSubstring, `"completion_tokens":50`)
				So(body, ShouldContainSubstring, `"model":"gpt-4o-mini"`)
			})
		})

		Convey("When generating a summary without an overview", func() {
			w := postJSON(router, "/api/pja/summary/generate", `{"requirements": "signup"}`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "project_overview")
			})
		})

		Convey("When generating an ERD", func() {
			w := postJSON(router, "/api/pja/erd/generate",
				`{"project_overview": "o", "requirements": "r", "project_summary": "s"}`)

			Convey("Then it should answer 200 with the document under json", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastKind, ShouldEqual, "erd")
				So(w.Body.String(), ShouldContainSubstring, `"json":{"title":"study planner"}`)
			})
		})

		Convey("When generating an API spec without a summary", func() {
			w := postJSON(router, "/api/pja/apispec/generate", `{"project_overview": "o"}`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "project_summary")
			})
		})

		Convey("When generating tasks", func() {
			w := postJSON(router, "/api/pja/tasks/generate", `{"project_summary": "s"}`)

			Convey("Then the payload should live under generated_tasks", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastKind, ShouldEqual, "tasks")
				So(w.Body.String(), ShouldContainSubstring, `"generated_tasks"`)
			})
		})

		Convey("When generating recommendations", func() {
			w := postJSON(router, "/api/pja/recommend/generate", `{"project_list": "p"}`)

			Convey("Then the payload should live under recommendations", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastKind, ShouldEqual, "recommend")
				So(w.Body.String(), ShouldContainSubstring, `"recommendations"`)
			})
		})

		Convey("When the completion backend fails", func() {
			deps.generationErr = llm.ErrUpstream
			w := postJSON(router, "/api/pja/summary/generate", `{"project_overview": "o"}`)

			Convey("Then it should answer 502", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(w.Body.String(), ShouldContainSubstring, "upstream_error")
			})
		})

		Convey("When the model output is unparseable", func() {
			deps.generationErr = fmt.Errorf("%w: not json", llm.ErrBadModelOutput)
			w := postJSON(router, "/api/pja/tasks/generate", `{"project_summary": "s"}`)

			Convey("Then it should answer 502 without leaking details", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(w.Body.String(), ShouldContainSubstring, "bad_model_output")
				So(w.Body.String(), ShouldNotContainSubstring, "not json")
			})
		})
	})
}

func TestSearchEndpoint(t *testing.T) {
	Convey("Given a search endpoint", t, func() {
		deps := &mockDeps{searchIDs: []int64{3, 1}}
		router := newTestRouter(deps)

		body := `{
			"project_info": {
				"problemSolving": {"solutionIdea": "recipe sharing platform"},
				"technologyStack": ["Go", "React"]
			},
			"top_k": 2
		}`

		Convey("When posting a well-formed request", func() {
			w := postJSON(router, "/api/pja/search/generate", body)

			Convey("Then it should answer 200 with ranked workspace ids", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastIdea, ShouldEqual, "recipe sharing platform")
				So(len(deps.lastStack), ShouldEqual, 2)
				So(deps.lastTopK, ShouldEqual, 2)
				So(w.Body.String(), ShouldContainSubstring, `"similar_ids":{"project_ID":[3,1]}`)
			})
		})

		Convey("When the solution idea is missing", func() {
			w := postJSON(router, "/api/pja/search/generate", `{"project_info": {"technologyStack": ["Go"]}}`)

			Convey("Then it should answer 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "solutionIdea")
			})
		})

		Convey("When the catalog is not loaded", func() {
			deps.searchErr = service.ErrSearchUnavailable
			w := postJSON(router, "/api/pja/search/generate", body)

			Convey("Then it should answer 503", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, "search_unavailable")
			})
		})
	})
}

func TestHealthEndpoint(t *testing.T) {
	Convey("Given the health endpoint", t, func() {
		router := newTestRouter(&mockDeps{})

		Convey("When requesting /healthz", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Convey("Then it should answer 200 ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		router := newTestRouter(&mockDeps{})

		Convey("When the client supplies no request id", func() {
			w := postJSON(router, "/api/pja/tasks/generate", `{"project_summary": "s"}`)

			Convey("Then one should be generated", func() {
				So(w.Header().Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})

		Convey("When the client supplies a request id", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/pja/tasks/generate", strings.NewReader(`{"project_summary": "s"}`))
			req.Header.Set("X-Request-ID", "abc-123")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Convey("Then it should be preserved", func() {
				So(w.Header().Get("X-Request-ID"), ShouldEqual, "abc-123")
			})
		})
	})
}
