// Package types holds shared value types crossing layer boundaries.
package types

// Generation is the outcome of one document generation call: the decoded
// JSON payload plus token accounting for the response envelope.
type Generation struct {
	Payload          any
	Model            string
	TotalTokens      int
	PromptTokens     int
	CompletionTokens int
}

// CallOptions carries per-request overrides for a generation call.
// Zero values fall back to the service defaults; HasTemp distinguishes an
// explicit temperature of 0 from an absent one.
type CallOptions struct {
	Model       string
	MaxTokens   int
	Temperature float32
	HasTemp     bool
}
