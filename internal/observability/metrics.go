package observability

import (
	"context"
	"fmt"
	"time"

	"resumelift/internal/ai"
	"resumelift/internal/config"
	"resumelift/internal/types"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics holds all custom metrics for resumelift. It implements
// ai.Recorder so the service can report calls and fallbacks directly.
type Metrics struct {
	// AI operation metrics
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram
	Fallbacks        metric.Int64Counter

	// Business metrics
	ResumesAnalyzed    metric.Int64Counter
	ResumesEnhanced    metric.Int64Counter
	AnalysisScore      metric.Int64Histogram
	ResumeInputSize    metric.Int64Histogram
	DocumentsExtracted metric.Int64Counter

	// Infrastructure metrics
	RateLimitHits    metric.Int64Counter
	APIKeyRotations  metric.Int64Counter
	PromptFileReload metric.Int64Counter

	settings config.CustomMetricsConfig
}

var _ ai.Recorder = (*Metrics)(nil)

// NewMetrics creates every instrument on meter
func NewMetrics(meter metric.Meter, settings config.CustomMetricsConfig) (*Metrics, error) {
	m := &Metrics{settings: settings}

	if err := m.createAIMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createBusinessMetrics(meter); err != nil {
		return nil, err
	}
	if err := m.createInfrastructureMetrics(meter); err != nil {
		return nil, err
	}
	return m, nil
}

// NewNopMetrics returns metrics that record nothing
func NewNopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("resumelift"), config.CustomMetricsConfig{})
	return m
}

func (m *Metrics) createAIMetrics(meter metric.Meter) error {
	var err error

	m.AIProcessingTime, err = meter.Float64Histogram(
		"resumelift_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	m.AIRequestCount, err = meter.Int64Counter(
		"resumelift_ai_requests_total",
		metric.WithDescription("Total number of AI requests"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI request count metric: %w", err)
	}

	m.AIErrorCount, err = meter.Int64Counter(
		"resumelift_ai_errors_total",
		metric.WithDescription("Total number of AI request errors"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI error count metric: %w", err)
	}

	m.AITokenUsage, err = meter.Int64Histogram(
		"resumelift_ai_token_usage_total",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	m.Fallbacks, err = meter.Int64Counter(
		"resumelift_fallbacks_total",
		metric.WithDescription("Results produced without the model, by reason"),
	)
	if err != nil {
		return fmt.Errorf("failed to create fallback metric: %w", err)
	}

	return nil
}

func (m *Metrics) createBusinessMetrics(meter metric.Meter) error {
	var err error

	m.ResumesAnalyzed, err = meter.Int64Counter(
		"resumelift_resumes_analyzed_total",
		metric.WithDescription("Total number of résumés analyzed"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes analyzed metric: %w", err)
	}

	m.ResumesEnhanced, err = meter.Int64Counter(
		"resumelift_resumes_enhanced_total",
		metric.WithDescription("Total number of résumés enhanced"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes enhanced metric: %w", err)
	}

	m.AnalysisScore, err = meter.Int64Histogram(
		"resumelift_analysis_score",
		metric.WithDescription("Overall score of produced analyses"),
		metric.WithExplicitBucketBoundaries(10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis score metric: %w", err)
	}

	m.ResumeInputSize, err = meter.Int64Histogram(
		"resumelift_resume_input_bytes",
		metric.WithDescription("Size of résumé text submitted for processing"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create input size metric: %w", err)
	}

	m.DocumentsExtracted, err = meter.Int64Counter(
		"resumelift_documents_extracted_total",
		metric.WithDescription("Total number of uploaded documents converted to text"),
	)
	if err != nil {
		return fmt.Errorf("failed to create documents extracted metric: %w", err)
	}

	return nil
}

func (m *Metrics) createInfrastructureMetrics(meter metric.Meter) error {
	var err error

	m.RateLimitHits, err = meter.Int64Counter(
		"resumelift_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	m.APIKeyRotations, err = meter.Int64Counter(
		"resumelift_api_key_rotations_total",
		metric.WithDescription("Total number of server API key sets loaded from Vault"),
	)
	if err != nil {
		return fmt.Errorf("failed to create API key rotation metric: %w", err)
	}

	m.PromptFileReload, err = meter.Int64Counter(
		"resumelift_prompt_reloads_total",
		metric.WithDescription("Total number of prompt file reloads"),
	)
	if err != nil {
		return fmt.Errorf("failed to create prompt reload metric: %w", err)
	}

	return nil
}

// RecordAICall records one model call and its token usage
func (m *Metrics) RecordAICall(ctx context.Context, operation string, duration time.Duration, err error, usage *ai.TokenUsage) {
	if m == nil || !m.settings.AIOperations.Enabled {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	}

	if m.settings.AIOperations.TrackDuration {
		m.AIProcessingTime.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}
	m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	if err != nil {
		m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	}

	if usage != nil && m.settings.AIOperations.TrackTokenUsage {
		m.recordTokenMetrics(ctx, operation, usage)
	}
}

func (m *Metrics) recordTokenMetrics(ctx context.Context, operation string, usage *ai.TokenUsage) {
	tokenTypes := []struct {
		tokenType string
		value     int64
	}{
		{"input", usage.InputTokens},
		{"output", usage.OutputTokens},
		{"total", usage.TotalTokens},
	}

	for _, tt := range tokenTypes {
		m.AITokenUsage.Record(ctx, tt.value, metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("token_type", tt.tokenType),
		))
	}
}

// RecordFallback counts a result produced without the model
func (m *Metrics) RecordFallback(ctx context.Context, operation, reason string) {
	if m == nil || !m.settings.AIOperations.Enabled || !m.settings.AIOperations.TrackFallbacks {
		return
	}
	m.Fallbacks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("reason", reason),
	))
}

// RecordOutcome counts a finished analysis or enhancement
func (m *Metrics) RecordOutcome(ctx context.Context, operation string, source types.ResultSource, score int, inputLength int) {
	if m == nil || !m.settings.BusinessMetrics.Enabled {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("source", string(source)),
	)

	switch operation {
	case config.OperationAnalyze:
		m.ResumesAnalyzed.Add(ctx, 1, attrs)
		if m.settings.BusinessMetrics.TrackScores {
			m.AnalysisScore.Record(ctx, int64(score), attrs)
		}
	case config.OperationEnhance:
		m.ResumesEnhanced.Add(ctx, 1, attrs)
	}

	if m.settings.BusinessMetrics.TrackContentSizes {
		m.ResumeInputSize.Record(ctx, int64(inputLength), attrs)
	}
}

// RecordExtraction counts one uploaded document by format
func (m *Metrics) RecordExtraction(ctx context.Context, format string, success bool) {
	if m == nil || !m.settings.BusinessMetrics.Enabled {
		return
	}
	m.DocumentsExtracted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("format", format),
		attribute.Bool("success", success),
	))
}

// RecordRateLimitHit counts a rejected request
func (m *Metrics) RecordRateLimitHit(ctx context.Context, limitType string) {
	if m == nil || !m.settings.Infrastructure.Enabled || !m.settings.Infrastructure.TrackRateLimits {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attribute.String("limit_type", limitType)))
}

// RecordAPIKeyRotation counts a server API key set loaded from Vault
func (m *Metrics) RecordAPIKeyRotation(ctx context.Context, success bool) {
	if m == nil || !m.settings.Infrastructure.Enabled {
		return
	}
	m.APIKeyRotations.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordPromptReload counts a prompt file reload
func (m *Metrics) RecordPromptReload(ctx context.Context, path string, updated int) {
	if m == nil || !m.settings.Infrastructure.Enabled {
		return
	}
	m.PromptFileReload.Add(ctx, int64(updated), metric.WithAttributes(attribute.String("file", path)))
}
