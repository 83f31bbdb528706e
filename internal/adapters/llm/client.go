// Package llm wraps the hosted chat-completion API behind a small
// request/result contract. The service layer builds prompts, this package
// delivers them and hands back the text plus token usage; parsing the text
// as JSON is a separate, explicit step.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// Request is one chat completion call.
type Request struct {
	// Model overrides the client default when non-empty.
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Result carries the completion text and token accounting.
type Result struct {
	Content          string
	Model            string
	TotalTokens      int
	PromptTokens     int
	CompletionTokens int
}

// Completer is the contract the service layer depends on.
type Completer interface {
	Complete(ctx context.Context, req Request) (Result, error)
}

// Client implements Completer against the OpenAI-compatible API.
type Client struct {
	api          *openai.Client
	defaultModel string
	baseURL      string
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at a non-default API host, e.g. a gateway
// or a test server.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithDefaultModel sets the model used when a request does not name one.
func WithDefaultModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.defaultModel = model
		}
	}
}

// New creates a chat-completion client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{defaultModel: defaultModel}
	for _, opt := range opts {
		opt(c)
	}
	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

// Complete performs one chat completion.
func (c *Client) Complete(ctx context.Context, req Request) (Result, error) {
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, ErrEmptyCompletion
	}
	return Result{
		Content:          resp.Choices[0].Message.Content,
		Model:            model,
		TotalTokens:      resp.Usage.TotalTokens,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// DecodeJSON parses completion text into v. Models occasionally wrap the
// payload in a markdown code fence despite instructions; the fence is
// stripped before parsing.
func DecodeJSON(content string, v any) error {
	if err := json.Unmarshal([]byte(Unfence(content)), v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadModelOutput, err)
	}
	return nil
}

// Unfence strips a surrounding markdown code fence, if present.
func Unfence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// The first fence line may carry a language tag.
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
