package llm

import "context"

// defaultMaxTokens is the output-token ceiling applied when a request
// does not set one.
const defaultMaxTokens = 1024

// Provider defines the interface for LLM inference backends.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
