package llm

import "errors"

// Sentinel kinds for LLM adapter errors.
var (
	// ErrUpstream marks failures of the chat-completion API itself.
	ErrUpstream = errors.New("chat completion failed")

	// ErrBadModelOutput marks completions that were expected to be JSON
	// but did not parse.
	ErrBadModelOutput = errors.New("model output is not valid JSON")

	// ErrEmptyCompletion marks responses with no choices.
	ErrEmptyCompletion = errors.New("empty completion")
)
