// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Layer file and env overrides on top via Load.
// - External errors must be wrapped via this package's sentinel errors.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// OpenAIAPIKey authenticates chat completion calls.
	OpenAIAPIKey string `koanf:"openai_api_key"`

	// OpenAIBaseURL overrides the completion endpoint, e.g. for a proxy.
	OpenAIBaseURL string `koanf:"openai_base_url"`

	// DefaultModel names the chat model used for document generation.
	DefaultModel string `koanf:"default_model"`

	// MaxCompletionTokens caps the completion length per request.
	MaxCompletionTokens int `koanf:"max_completion_tokens"`

	// Temperature controls completion sampling.
	Temperature float64 `koanf:"temperature"`

	// LLMTimeoutSec bounds one chat completion call.
	LLMTimeoutSec int `koanf:"llm_timeout_sec"`

	// MaxLogBytes caps the request body of the stats endpoint.
	MaxLogBytes int64 `koanf:"max_log_bytes"`

	// CatalogPath points at the project catalog JSON used for similarity search.
	CatalogPath string `koanf:"catalog_path"`

	// MaxTopK caps the number of similar workspaces a search may return.
	MaxTopK int `koanf:"max_top_k"`

	// SearchMaxFeatures bounds the term vocabulary of the vectorizer.
	SearchMaxFeatures int `koanf:"search_max_features"`

	// SlackWebhookURL enables generation notifications when non-empty.
	SlackWebhookURL string `koanf:"slack_webhook_url"`

	// SlackUsername is the bot name shown on notifications.
	SlackUsername string `koanf:"slack_username"`

	// ReadTimeoutSec and WriteTimeoutSec bound HTTP request handling.
	ReadTimeoutSec  int `koanf:"read_timeout_sec"`
	WriteTimeoutSec int `koanf:"write_timeout_sec"`

	// ShutdownGraceSec bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownGraceSec int `koanf:"shutdown_grace_sec"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8000",
		OpenAIBaseURL:       "",
		DefaultModel:        "gpt-4o-mini",
		MaxCompletionTokens: 4096,
		Temperature:         0.7,
		LLMTimeoutSec:       120,
		MaxLogBytes:         10 << 20,
		CatalogPath:         "data/catalog.json",
		MaxTopK:             10,
		SearchMaxFeatures:   1000,
		SlackUsername:       "mlapi-bot",
		ReadTimeoutSec:      30,
		WriteTimeoutSec:     120,
		ShutdownGraceSec:    10,
	}
}
