package ai

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"resumelift/internal/config"
	appErrors "resumelift/internal/errors"

	"github.com/sony/gobreaker/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/genai"
)

func ptr[T any](v T) *T { return &v }

func newTestProvider(maxRetries int) (*GeminiProvider, *[]time.Duration) {
	var slept []time.Duration
	g := &GeminiProvider{
		config: config.OperationAIConfig{
			Model:      "test-model",
			MaxRetries: ptr(maxRetries),
			Backoff:    config.BackoffConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: time.Second},
		},
		operation: "analyze",
		logger:    appErrors.NewNopLogger(),
		sleep: func(ctx context.Context, d time.Duration) error {
			slept = append(slept, d)
			return ctx.Err()
		},
	}
	return g, &slept
}

func TestNewGeminiProviderRequiresAPIKey(t *testing.T) {
	_, err := NewGeminiProvider(config.OperationAIConfig{}, "analyze", appErrors.NewNopLogger())
	if err == nil {
		t.Fatal("Expected error without API key")
	}
	if appErrors.CodeOf(err) != appErrors.ErrCodeMissingAPIKey {
		t.Errorf("Expected MISSING_API_KEY, got %s", appErrors.CodeOf(err))
	}
}

func TestExecuteWithRetryRecoversFromTransientErrors(t *testing.T) {
	g, slept := newTestProvider(3)
	attempts := 0

	resp, err := g.executeWithRetry(context.Background(), func() (*genai.GenerateContentResponse, error) {
		attempts++
		if attempts < 3 {
			return nil, &googleapi.Error{Code: http.StatusServiceUnavailable}
		}
		return &genai.GenerateContentResponse{}, nil
	})

	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if resp == nil {
		t.Fatal("Expected a response")
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if len(*slept) != 2 {
		t.Errorf("Expected 2 backoff sleeps, got %d", len(*slept))
	}
}

func TestExecuteWithRetryIsBounded(t *testing.T) {
	g, slept := newTestProvider(2)
	attempts := 0

	_, err := g.executeWithRetry(context.Background(), func() (*genai.GenerateContentResponse, error) {
		attempts++
		return nil, genai.APIError{Code: http.StatusTooManyRequests}
	})

	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("Expected 1 attempt plus 2 retries, got %d", attempts)
	}
	if len(*slept) != 2 {
		t.Errorf("Expected 2 backoff sleeps, got %d", len(*slept))
	}
}

func TestExecuteWithRetryStopsOnPermanentError(t *testing.T) {
	g, slept := newTestProvider(5)
	attempts := 0

	_, err := g.executeWithRetry(context.Background(), func() (*genai.GenerateContentResponse, error) {
		attempts++
		return nil, &googleapi.Error{Code: http.StatusBadRequest}
	})

	if err == nil {
		t.Fatal("Expected error")
	}
	if attempts != 1 {
		t.Errorf("Expected a single attempt for a 400, got %d", attempts)
	}
	if len(*slept) != 0 {
		t.Errorf("Expected no backoff, got %d sleeps", len(*slept))
	}
}

func TestExecuteWithRetryHonoursCancellation(t *testing.T) {
	g, _ := newTestProvider(5)
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0

	_, err := g.executeWithRetry(ctx, func() (*genai.GenerateContentResponse, error) {
		attempts++
		cancel()
		return nil, &googleapi.Error{Code: http.StatusBadGateway}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected cancellation to surface, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected no attempt after cancellation, got %d", attempts)
	}
}

func TestBackoffDelay(t *testing.T) {
	cfg := config.BackoffConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 500 * time.Millisecond}

	tests := []struct {
		attempt  int
		min, max time.Duration
	}{
		{1, 100 * time.Millisecond, 110 * time.Millisecond},
		{2, 200 * time.Millisecond, 220 * time.Millisecond},
		{3, 400 * time.Millisecond, 440 * time.Millisecond},
		{4, 500 * time.Millisecond, 500 * time.Millisecond},
		{10, 500 * time.Millisecond, 500 * time.Millisecond},
	}

	for _, tt := range tests {
		got := backoffDelay(tt.attempt, cfg)
		if got < tt.min || got > tt.max {
			t.Errorf("backoffDelay(%d) = %v, want within [%v, %v]", tt.attempt, got, tt.min, tt.max)
		}
	}

	if got := backoffDelay(1, config.BackoffConfig{}); got < time.Second || got > 1100*time.Millisecond {
		t.Errorf("Expected default base delay of 1s, got %v", got)
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestIsRetryableError(t *testing.T) {
	var netErr net.Error = timeoutErr{}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429", &googleapi.Error{Code: 429}, true},
		{"500", &googleapi.Error{Code: 500}, true},
		{"502", &googleapi.Error{Code: 502}, true},
		{"503", genai.APIError{Code: 503}, true},
		{"504 pointer", &genai.APIError{Code: 504}, true},
		{"400", &googleapi.Error{Code: 400}, false},
		{"403", genai.APIError{Code: 403}, false},
		{"network", netErr, true},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", errors.New("bad prompt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryableError(tt.err); got != tt.want {
				t.Errorf("isRetryableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyGenerateError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		errType appErrors.ErrorType
		code    string
	}{
		{"breaker open", gobreaker.ErrOpenState, appErrors.ErrorTypeAI, appErrors.ErrCodeAIServiceFailed},
		{"deadline", context.DeadlineExceeded, appErrors.ErrorTypeAI, appErrors.ErrCodeAITimeout},
		{"network", timeoutErr{}, appErrors.ErrorTypeNetwork, appErrors.ErrCodeNetworkTimeout},
		{"other", errors.New("x"), appErrors.ErrorTypeAI, appErrors.ErrCodeAIServiceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyGenerateError(tt.err, "analyze")
			if appErrors.TypeOf(err) != tt.errType {
				t.Errorf("Expected type %s, got %s", tt.errType, appErrors.TypeOf(err))
			}
			if appErrors.CodeOf(err) != tt.code {
				t.Errorf("Expected code %s, got %s", tt.code, appErrors.CodeOf(err))
			}
		})
	}
}

func TestExtractTokenUsage(t *testing.T) {
	if extractTokenUsage(nil) != nil {
		t.Error("Expected nil usage for nil response")
	}

	usage := extractTokenUsage(&genai.GenerateContentResponse{
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 30,
			TotalTokenCount:      42,
		},
	})
	if usage == nil || usage.InputTokens != 12 || usage.OutputTokens != 30 || usage.TotalTokens != 42 {
		t.Errorf("Unexpected token usage: %+v", usage)
	}
}
