package ai

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"
	"time"

	"resumelift/internal/config"
	appErrors "resumelift/internal/errors"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

// GeminiProvider implements TextGenerator for Google Gemini
type GeminiProvider struct {
	client         *genai.Client
	config         config.OperationAIConfig
	operation      string
	circuitBreaker *AICircuitBreaker
	modelBreaker   *ModelCircuitBreaker
	modelTimeout   time.Duration
	logger         *appErrors.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

var _ TextGenerator = (*GeminiProvider)(nil)

// NewGeminiProvider creates a provider for one operation. The API key comes
// from cfg; nothing is read from the environment here.
func NewGeminiProvider(cfg config.OperationAIConfig, operation string, logger *appErrors.Logger) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, appErrors.NewConfigError(appErrors.ErrCodeMissingAPIKey,
			"Gemini API key is not configured for "+operation, nil)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Failed to create Gemini client", err)
	}

	return &GeminiProvider{
		client:         client,
		config:         cfg,
		operation:      operation,
		circuitBreaker: NewAICircuitBreaker(operation, cfg.CircuitBreaker, logger),
		modelBreaker:   NewModelCircuitBreaker(operation, cfg.CircuitBreaker, logger),
		modelTimeout:   10 * time.Second,
		logger:         logger,
		sleep:          sleepContext,
	}, nil
}

// SetModelCheckTimeout bounds GetModelInfo calls
func (g *GeminiProvider) SetModelCheckTimeout(d time.Duration) {
	if d > 0 {
		g.modelTimeout = d
	}
}

// Generate sends the prompts to Gemini and returns the answer text
func (g *GeminiProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, *TokenUsage, error) {
	tracer := otel.Tracer("resumelift.ai.gemini")
	ctx, span := tracer.Start(ctx, "gemini."+g.operation)
	defer span.End()

	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", g.config.Model),
		attribute.String("ai.operation", g.operation),
		attribute.Float64("ai.temperature", float64(*g.config.Temperature)),
		attribute.Int("input.prompt_length", len(userPrompt)),
	)

	if *g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *g.config.Timeout)
		defer cancel()
	}

	genaiConfig := g.buildGenerateConfig()
	if systemPrompt != "" {
		if *g.config.UseSystemPrompts {
			genaiConfig.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
		} else {
			userPrompt = systemPrompt + "\n\n" + userPrompt
		}
	}

	result, err := g.circuitBreaker.Execute(func() (*genai.GenerateContentResponse, error) {
		return g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
			return g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(userPrompt), genaiConfig)
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("success", false))
		return "", nil, classifyGenerateError(err, g.operation)
	}

	tokenUsage := extractTokenUsage(result)
	if tokenUsage != nil {
		span.SetAttributes(
			attribute.Int64("ai.tokens.input", tokenUsage.InputTokens),
			attribute.Int64("ai.tokens.output", tokenUsage.OutputTokens),
			attribute.Int64("ai.tokens.total", tokenUsage.TotalTokens),
		)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		span.SetAttributes(attribute.Bool("success", false))
		return "", tokenUsage, appErrors.NewAIError(appErrors.ErrCodeEmptyResponse,
			"Gemini returned an empty answer for "+g.operation, nil)
	}

	span.SetAttributes(
		attribute.Bool("success", true),
		attribute.Int("output.length", len(text)),
	)
	return text, tokenUsage, nil
}

func (g *GeminiProvider) buildGenerateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: g.config.Temperature,
	}
	if *g.config.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = *g.config.MaxOutputTokens
	}
	return cfg
}

// GetModelInfo checks the readiness and availability of the configured model
func (g *GeminiProvider) GetModelInfo(ctx context.Context) *ModelInfo {
	modelInfo := &ModelInfo{
		Name:      g.config.Model,
		Available: false,
	}

	checkCtx, cancel := context.WithTimeout(ctx, g.modelTimeout)
	defer cancel()

	model, err := g.modelBreaker.ExecuteModel(func() (*genai.Model, error) {
		return g.client.Models.Get(checkCtx, g.config.Model, &genai.GetModelConfig{})
	})
	if err != nil {
		modelInfo.Error = fmt.Sprintf("Failed to get model info: %v", err)
		g.logger.Warn("Model availability check failed",
			"model", g.config.Model,
			"operation", g.operation,
			"error", err.Error())
		return modelInfo
	}

	modelInfo.Available = true
	modelInfo.DisplayName = model.DisplayName
	modelInfo.Version = model.Version

	g.logger.Debug("Model availability check successful",
		"model", g.config.Model,
		"operation", g.operation,
		"display_name", modelInfo.DisplayName,
		"version", modelInfo.Version)

	return modelInfo
}

// executeWithRetry retries transient failures with exponential backoff.
// Attempts are bounded by MaxRetries; the delay starts at Backoff.BaseDelay,
// doubles per attempt, gets up to 10% jitter and is capped at Backoff.MaxDelay.
func (g *GeminiProvider) executeWithRetry(ctx context.Context, fn func() (*genai.GenerateContentResponse, error)) (*genai.GenerateContentResponse, error) {
	maxRetries := *g.config.MaxRetries
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffDelay(attempt, g.config.Backoff)
			g.logger.Warn("Retrying AI operation",
				"operation", g.operation,
				"attempt", attempt,
				"max_retries", maxRetries,
				"backoff", backoff,
				"error", lastErr.Error())

			if err := g.sleep(ctx, backoff); err != nil {
				return nil, fmt.Errorf("retry of '%s' cancelled: %w", g.operation, errors.Join(err, lastErr))
			}
		}

		result, err := fn()
		if err == nil {
			if attempt > 0 {
				g.logger.Info("AI operation succeeded after retry",
					"operation", g.operation,
					"total_attempts", attempt+1)
			}
			return result, nil
		}

		lastErr = err
		if !isRetryableError(err) {
			g.logger.Debug("Error is not retryable, stopping retry attempts",
				"operation", g.operation,
				"error", err.Error())
			return nil, err
		}
	}

	g.logger.LogError(lastErr, "AI operation failed after all retry attempts",
		"operation", g.operation,
		"total_attempts", maxRetries+1)

	return nil, fmt.Errorf("operation '%s' failed after %d retries: %w", g.operation, maxRetries, lastErr)
}

func backoffDelay(attempt int, cfg config.BackoffConfig) time.Duration {
	base := cfg.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}

	delay := base
	for i := 1; i < attempt && delay < maxDelay; i++ {
		delay *= 2
	}

	if jitterMax := int64(float64(delay) * 0.1); jitterMax > 0 {
		if jitter, err := rand.Int(rand.Reader, big.NewInt(jitterMax)); err == nil {
			delay += time.Duration(jitter.Int64())
		}
	}

	return min(delay, maxDelay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// isRetryableError reports whether err is transient: a network error or an
// HTTP 429/500/502/503/504 from the API.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}

	var genaiErr genai.APIError
	if errors.As(err, &genaiErr) {
		return retryableStatus(genaiErr.Code)
	}
	var genaiErrPtr *genai.APIError
	if errors.As(err, &genaiErrPtr) {
		return retryableStatus(genaiErrPtr.Code)
	}

	return false
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// classifyGenerateError separates an unreachable model from other AI failures
func classifyGenerateError(err error, operation string) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
			"Circuit breaker is open for "+operation, err)
	case errors.Is(err, context.DeadlineExceeded):
		return appErrors.NewAIError(appErrors.ErrCodeAITimeout,
			"AI request timed out for "+operation, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return appErrors.NewNetworkError(appErrors.ErrCodeNetworkTimeout,
			"Could not reach the AI service for "+operation, err)
	}

	return appErrors.NewAIError(appErrors.ErrCodeAIServiceFailed,
		"Failed to generate content for "+operation, err)
}

// GetCircuitBreakerStats returns circuit breaker statistics
func (g *GeminiProvider) GetCircuitBreakerStats() map[string]any {
	stats := map[string]any{
		"ai_operations":    g.circuitBreaker.GetStats(),
		"model_operations": g.modelBreaker.GetModelStats(),
	}
	stats["overall_healthy"] = g.circuitBreaker.IsHealthy() && g.modelBreaker.IsModelHealthy()
	return stats
}

// Close implements TextGenerator
func (g *GeminiProvider) Close() error {
	return nil
}

// extractTokenUsage extracts token usage information from Gemini API response
func extractTokenUsage(result *genai.GenerateContentResponse) *TokenUsage {
	if result == nil || result.UsageMetadata == nil {
		return nil
	}

	usage := result.UsageMetadata
	return &TokenUsage{
		InputTokens:  int64(usage.PromptTokenCount),
		OutputTokens: int64(usage.CandidatesTokenCount),
		TotalTokens:  int64(usage.TotalTokenCount),
	}
}
