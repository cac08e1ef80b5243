package correct

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const maxRetries = 2

var retryPause = 5 * time.Second

// GroqCorrector sends transcripts to Groq's OpenAI-compatible chat API.
type GroqCorrector struct {
	client *openai.Client
	model  string
}

func NewGroqCorrector(apiKey, baseURL, model string) *GroqCorrector {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqCorrector{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (g *GroqCorrector) Name() string {
	return "groq"
}

// Correct asks the LLM for a cleaned-up version of the transcript.
// Transient failures (rate limits, gateway errors, dropped connections)
// are retried twice with a pause in between.
func (g *GroqCorrector) Correct(ctx context.Context, req Request) (*Result, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req.Style, req.Text)},
		},
		// omitempty drops a literal 0, this value survives marshalling
		Temperature: math.SmallestNonzeroFloat32,
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryPause):
			}
		}

		resp, err := g.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			lastErr = err
			if isRetryable(err) {
				continue
			}
			return nil, fmt.Errorf("llm correction: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("llm correction: empty response")
		}
		return &Result{
			Text:  CleanResponse(resp.Choices[0].Message.Content),
			Model: g.model,
		}, nil
	}
	return nil, fmt.Errorf("llm correction after %d retries: %w", maxRetries, lastErr)
}

// isRetryable reports whether the error is worth another attempt.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "timeout")
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// CleanResponse strips whitespace and the quote pair models sometimes
// wrap the whole answer in.
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
