package ai

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
)

// OpenAIClient implements Client against the OpenAI chat completion API.
type OpenAIClient struct {
	client  *openai.Client
	timeout time.Duration
}

// NewOpenAIClient creates a client with the given API key. timeout bounds each
// Complete call; expiry surfaces as a retryable CompletionError. A zero
// timeout disables the bound.
func NewOpenAIClient(apiKey string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		client:  openai.NewClient(apiKey),
		timeout: timeout,
	}
}

// Complete sends the message list to the chat completion endpoint and returns
// the generated text with usage accounting.
func (c *OpenAIClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &apperrors.CompletionError{Retryable: true, Err: errors.New("provider returned no choices")}
	}

	return &Response{
		Content:    resp.Choices[0].Message.Content,
		Model:      resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// classifyError maps a provider error to a CompletionError. Rate limits,
// server-side failures, timeouts, and transport errors are retryable; auth
// and request-validation failures are not.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		retryable := apiErr.HTTPStatusCode == 429 || apiErr.HTTPStatusCode >= 500
		return &apperrors.CompletionError{Retryable: retryable, Err: err}
	}
	// Network failures, deadline expiry, malformed responses.
	return &apperrors.CompletionError{Retryable: true, Err: err}
}
