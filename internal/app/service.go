// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pja-project/mlapi/internal/adapters/catalog"
	"github.com/pja-project/mlapi/internal/adapters/llm"
	"github.com/pja-project/mlapi/internal/adapters/notify"
	"github.com/pja-project/mlapi/internal/domain/prompt"
	"github.com/pja-project/mlapi/internal/domain/search"
	"github.com/pja-project/mlapi/internal/domain/stats"
	"github.com/pja-project/mlapi/internal/domain/types"
	"github.com/pja-project/mlapi/pkg/logger"
	"github.com/pja-project/mlapi/pkg/metrics"
)

// Generation mirrors the shared generation result shape.
type Generation = types.Generation

// CallOptions mirrors the shared per-request override shape.
type CallOptions = types.CallOptions

// Service implements the API dependencies for the ML API system.
type Service struct {
	mu sync.RWMutex

	// Core components
	completer   llm.Completer
	notifier    notify.Notifier
	catalog     *catalog.Store
	recommender *search.Recommender

	// Configuration
	apiKey            string
	baseURL           string
	defaultModel      string
	maxTokens         int
	temperature       float32
	llmTimeout        time.Duration
	catalogPath       string
	slackWebhookURL   string
	slackUsername     string
	maxTopK           int
	searchMaxFeatures int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCompleter injects a chat completion backend. Used by Start when set,
// otherwise a real client is constructed from the API key.
func WithCompleter(c llm.Completer) Option {
	return func(s *Service) {
		if c != nil {
			s.completer = c
		}
	}
}

// WithNotifier injects a notification backend.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithOpenAIKey sets the API key for the completion backend.
func WithOpenAIKey(key string) Option {
	return func(s *Service) {
		s.apiKey = key
	}
}

// WithOpenAIBaseURL points the completion backend at a non-default host.
func WithOpenAIBaseURL(url string) Option {
	return func(s *Service) {
		s.baseURL = url
	}
}

// WithDefaultModel sets the model used when a request does not name one.
func WithDefaultModel(model string) Option {
	return func(s *Service) {
		if model != "" {
			s.defaultModel = model
		}
	}
}

// WithMaxCompletionTokens caps completion length per request.
func WithMaxCompletionTokens(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTokens = n
		}
	}
}

// WithTemperature sets the default sampling temperature.
func WithTemperature(t float32) Option {
	return func(s *Service) {
		if t >= 0 {
			s.temperature = t
		}
	}
}

// WithLLMTimeout bounds one chat completion call.
func WithLLMTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.llmTimeout = d
		}
	}
}

// WithCatalogPath points at the project catalog JSON for similarity search.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.catalogPath = path
		}
	}
}

// WithSlackWebhook enables Slack notifications.
func WithSlackWebhook(url, username string) Option {
	return func(s *Service) {
		s.slackWebhookURL = url
		if username != "" {
			s.slackUsername = username
		}
	}
}

// WithMaxTopK caps the number of similar workspaces a search may return.
func WithMaxTopK(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopK = n
		}
	}
}

// WithSearchMaxFeatures bounds the vectorizer vocabulary.
func WithSearchMaxFeatures(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchMaxFeatures = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultModel:      "gpt-4o-mini",
		maxTokens:         4096,
		temperature:       0.7,
		llmTimeout:        2 * time.Minute,
		catalogPath:       "data/catalog.json",
		slackUsername:     "mlapi-bot",
		maxTopK:           10,
		searchMaxFeatures: 1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting ml api service...")

	if s.completer == nil {
		s.completer = llm.New(s.apiKey,
			llm.WithBaseURL(s.baseURL),
			llm.WithDefaultModel(s.defaultModel),
		)
	}

	if s.notifier == nil {
		if s.slackWebhookURL != "" {
			s.notifier = notify.NewSlack(s.slackWebhookURL, notify.WithUsername(s.slackUsername))
		} else {
			s.notifier = notify.Noop{}
		}
	}

	// A missing catalog only disables the search endpoint; generation and
	// stats still work.
	s.catalog = catalog.NewStore(s.catalogPath)
	if err := s.catalog.Load(ctx); err != nil {
		s.logger.Warn(ctx, "project catalog unavailable, search disabled",
			logger.String("path", s.catalogPath),
			logger.Error(err),
		)
	} else {
		projects, err := s.catalog.Projects(ctx)
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}
		s.recommender = search.NewRecommender(projects,
			search.WithVectorizerMaxFeatures(s.searchMaxFeatures),
		)
		metrics.UpdateCatalogProjects(len(projects))
	}

	s.started = true
	s.logger.Info(ctx, "ml api service started",
		logger.String("model", s.defaultModel),
		logger.Int("catalogProjects", s.catalog.Count()),
		logger.Bool("slack", s.slackWebhookURL != ""),
	)

	return nil
}

// Stop shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "ml api service stopped")
}

// DashboardStats parses a raw event log and produces both dashboard
// statistics. The whole pipeline is pure, so concurrent calls never
// interfere with each other.
func (s *Service) DashboardStats(ctx context.Context, userLog string) (stats.Dashboard, error) {
	metrics.RecordPipelineRun()
	start := time.Now()

	events, err := stats.ParseEventLog(userLog)
	if err != nil {
		metrics.RecordPipelineFailure()
		return stats.Dashboard{}, err
	}
	metrics.RecordPipelineEvents(len(events))

	dash, err := stats.BuildDashboard(events)
	if err != nil {
		metrics.RecordPipelineFailure()
		return stats.Dashboard{}, err
	}

	elapsed := time.Since(start)
	metrics.RecordPipelineRows(len(dash.Imbalance) + len(dash.Completion))
	metrics.RecordPipelineDuration(float64(elapsed.Microseconds()) / 1000.0)
	s.logger.Debug(ctx, "dashboard pipeline finished",
		logger.Int("events", len(events)),
		logger.Int("imbalanceRows", len(dash.Imbalance)),
		logger.Int("completionRows", len(dash.Completion)),
		logger.Duration("elapsed", elapsed),
	)
	return dash, nil
}

// GenerateRequirements produces additional project requirements.
func (s *Service) GenerateRequirements(ctx context.Context, overview, existing string, count int, opts CallOptions) (Generation, error) {
	if count <= 0 {
		count = 5
	}
	return s.generate(ctx, "requirements", prompt.RequirementsSystem, prompt.Requirements(overview, existing, count), opts)
}

// GenerateSummary produces a structured project summary.
func (s *Service) GenerateSummary(ctx context.Context, overview, requirements string, opts CallOptions) (Generation, error) {
	return s.generate(ctx, "summary", prompt.SummarySystem, prompt.Summary(overview, requirements), opts)
}

// GenerateERD produces an entity-relationship design.
func (s *Service) GenerateERD(ctx context.Context, overview, requirements, summary string, opts CallOptions) (Generation, error) {
	return s.generate(ctx, "erd", prompt.ERDSystem, prompt.ERD(overview, requirements, summary), opts)
}

// GenerateAPISpec produces a REST API specification.
func (s *Service) GenerateAPISpec(ctx context.Context, overview, requirements, summary string, opts CallOptions) (Generation, error) {
	return s.generate(ctx, "apispec", prompt.APISpecSystem, prompt.APISpec(overview, requirements, summary), opts)
}

// GenerateRecommendation produces next-action recommendations from a
// project progress listing.
func (s *Service) GenerateRecommendation(ctx context.Context, projectList string, opts CallOptions) (Generation, error) {
	return s.generate(ctx, "recommend", prompt.RecommendSystem, prompt.Recommend(projectList), opts)
}

// GenerateTasks produces a draft task breakdown from a project summary.
func (s *Service) GenerateTasks(ctx context.Context, summary string, opts CallOptions) (Generation, error) {
	return s.generate(ctx, "tasks", prompt.TasksSystem, prompt.Tasks(summary), opts)
}

// SearchSimilar returns workspace ids of catalog projects most similar to
// the given solution idea, restricted to projects sharing at least one
// stack entry.
func (s *Service) SearchSimilar(ctx context.Context, idea string, stack []string, topK int) ([]int64, error) {
	s.mu.RLock()
	rec := s.recommender
	maxTopK := s.maxTopK
	s.mu.RUnlock()

	if rec == nil {
		return nil, ErrSearchUnavailable
	}
	if topK <= 0 || topK > maxTopK {
		topK = maxTopK
	}

	metrics.RecordSearchRequest()
	start := time.Now()
	ids := rec.Similar(idea, stack, topK)
	metrics.RecordSearchLatency(float64(time.Since(start).Microseconds()) / 1000.0)

	s.logger.Debug(ctx, "similarity search finished",
		logger.Int("candidates", len(ids)),
		logger.Int("topK", topK),
	)
	return ids, nil
}

func (s *Service) generate(ctx context.Context, kind, system, user string, opts CallOptions) (Generation, error) {
	s.mu.RLock()
	completer := s.completer
	s.mu.RUnlock()

	if completer == nil {
		return Generation{}, ErrNotStarted
	}

	req := llm.Request{
		Model:       opts.Model,
		System:      system,
		User:        user,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	if opts.HasTemp {
		req.Temperature = opts.Temperature
	}

	if s.llmTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.llmTimeout)
		defer cancel()
	}

	metrics.RecordLLMRequest(kind)
	start := time.Now()
	res, err := completer.Complete(ctx, req)
	metrics.RecordLLMLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordLLMFailure(kind)
		s.logger.Error(ctx, "completion failed",
			logger.String("kind", kind),
			logger.Error(err),
		)
		return Generation{}, err
	}
	metrics.RecordLLMTokens(res.PromptTokens, res.CompletionTokens)

	var payload any
	if err := llm.DecodeJSON(res.Content, &payload); err != nil {
		metrics.RecordLLMFailure(kind)
		s.logger.Error(ctx, "completion returned non-JSON output",
			logger.String("kind", kind),
			logger.String("model", res.Model),
			logger.Error(err),
		)
		return Generation{}, err
	}

	s.notifyGenerated(kind, res.Model, res.TotalTokens)

	return Generation{
		Payload:          payload,
		Model:            res.Model,
		TotalTokens:      res.TotalTokens,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
	}, nil
}

// notifyGenerated delivers a best-effort Slack message about a finished
// generation. Delivery failures never fail the request.
func (s *Service) notifyGenerated(kind, model string, tokens int) {
	s.mu.RLock()
	notifier := s.notifier
	s.mu.RUnlock()

	if notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		msg := fmt.Sprintf("generated %s document (model=%s, tokens=%d)", kind, model, tokens)
		if err := notifier.Notify(ctx, msg); err != nil {
			metrics.RecordNotificationFailed()
			s.logger.Warn(ctx, "notification delivery failed",
				logger.String("kind", kind),
				logger.Error(err),
			)
			return
		}
		metrics.RecordNotificationSent()
	}()
}
