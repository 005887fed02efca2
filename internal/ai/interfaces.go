package ai

import (
	"context"
)

// TextGenerator sends one prompt pair to a generative model and returns the
// raw answer text. Token usage may be nil when the backend does not report it.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// BreakerReporter is implemented by generators that guard calls with a
// circuit breaker.
type BreakerReporter interface {
	GetCircuitBreakerStats() map[string]any
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

// ModelInfo represents information about the AI model
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Available   bool   `json:"available"`
	Error       string `json:"error,omitempty"`
}
