// Package ai defines the capability boundary over the external completion
// provider. The orchestrator depends only on the Client contract; the concrete
// provider is replaceable.
package ai

import "context"

// Message roles accepted by the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in the ordered conversation sent to the provider.
type Message struct {
	Role    string
	Content string
}

// Request carries a structured message list and model parameters.
type Request struct {
	Messages    []Message
	Model       string
	Temperature float32
	MaxTokens   int
}

// Response carries generated text plus usage accounting.
type Response struct {
	Content    string
	Model      string
	TokensUsed int
}

// Client issues one completion exchange with the provider. Provider failures
// are returned as apperrors.CompletionError with the retryable flag set for
// transient conditions; no retry policy lives in the client itself.
type Client interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}
