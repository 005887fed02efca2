package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"resumelift/internal/config"
	"resumelift/internal/errors"
	"resumelift/internal/resume"
	"resumelift/internal/types"

	"golang.org/x/sync/errgroup"
)

// Fallback reasons, used as the metric label.
const (
	ReasonNoCredential = "no_credential"
	ReasonUnavailable  = "unavailable"
	ReasonTimeout      = "timeout"
	ReasonParse        = "parse"
	ReasonAIError      = "ai_error"
)

// Recorder receives metrics about AI calls and their outcomes
type Recorder interface {
	RecordAICall(ctx context.Context, operation string, duration time.Duration, err error, usage *TokenUsage)
	RecordFallback(ctx context.Context, operation, reason string)
	RecordOutcome(ctx context.Context, operation string, source types.ResultSource, score int, inputLength int)
}

// ServiceOptions configures a Service. A nil Analyzer or Enhancer means no
// credential is available for that operation and the fallback is used.
type ServiceOptions struct {
	Analyzer         TextGenerator
	Enhancer         TextGenerator
	AnalyzePrompts   *PromptResolver
	EnhancePrompts   *PromptResolver
	Notifier         Notifier
	Recorder         Recorder
	Logger           *errors.Logger
	BatchConcurrency int
}

// Service analyses and rewrites résumés, falling back to the mock analysis
// and rule-based rewriter when the model cannot be used. It is safe for
// concurrent use.
type Service struct {
	analyzer         TextGenerator
	enhancer         TextGenerator
	analyzePrompts   *PromptResolver
	enhancePrompts   *PromptResolver
	notifier         Notifier
	recorder         Recorder
	logger           *errors.Logger
	batchConcurrency int

	applyRules func(text string, suggestions []string) string
}

// NewService creates a Service from opts
func NewService(opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	batch := opts.BatchConcurrency
	if batch < 1 {
		batch = 1
	}

	return &Service{
		analyzer:         opts.Analyzer,
		enhancer:         opts.Enhancer,
		analyzePrompts:   opts.AnalyzePrompts,
		enhancePrompts:   opts.EnhancePrompts,
		notifier:         opts.Notifier,
		recorder:         opts.Recorder,
		logger:           logger,
		batchConcurrency: batch,
		applyRules:       resume.ApplyRules,
	}
}

// NewServiceFromConfig builds Gemini providers for every operation that has
// an API key and wires them into a Service.
func NewServiceFromConfig(cfg *config.Config, notifier Notifier, recorder Recorder, logger *errors.Logger) (*Service, error) {
	analyzeCfg := cfg.GetAnalyzeConfig()
	enhanceCfg := cfg.GetEnhanceConfig()

	opts := ServiceOptions{
		AnalyzePrompts:   NewPromptResolver(config.OperationAnalyze, analyzeCfg),
		EnhancePrompts:   NewPromptResolver(config.OperationEnhance, enhanceCfg),
		Notifier:         notifier,
		Recorder:         recorder,
		Logger:           logger,
		BatchConcurrency: cfg.App.BatchConcurrency,
	}

	var err error
	if opts.Analyzer, err = newProvider(analyzeCfg, config.OperationAnalyze, cfg, logger); err != nil {
		return nil, err
	}
	if opts.Enhancer, err = newProvider(enhanceCfg, config.OperationEnhance, cfg, logger); err != nil {
		return nil, err
	}

	return NewService(opts), nil
}

func newProvider(opCfg config.OperationAIConfig, operation string, cfg *config.Config, logger *errors.Logger) (TextGenerator, error) {
	if opCfg.APIKey == "" {
		logger.Info("No AI credential configured, fallback only", "operation", operation)
		return nil, nil
	}

	logger.Debug("Initializing AI provider",
		"provider", opCfg.Provider,
		"operation", operation,
		"model", opCfg.Model,
		"temperature", *opCfg.Temperature,
		"timeout", *opCfg.Timeout,
		"max_retries", *opCfg.MaxRetries,
		"use_system_prompts", *opCfg.UseSystemPrompts)

	switch opCfg.Provider {
	case "gemini":
		provider, err := NewGeminiProvider(opCfg, operation, logger)
		if err != nil {
			return nil, err
		}
		provider.SetModelCheckTimeout(cfg.Observability.HealthCheck.AIModelCheckTimeout)
		return provider, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("Unsupported AI provider: %s", opCfg.Provider), nil)
	}
}

// AnalyzeResume returns an analysis of resumeText. It never fails: any
// problem with the model yields the mock analysis.
func (s *Service) AnalyzeResume(ctx context.Context, resumeText string) types.ResumeAnalysis {
	return s.Analyze(ctx, types.AnalyzeResumeInput{ResumeText: resumeText}).Analysis
}

// Analyze is AnalyzeResume reporting which path produced the result
func (s *Service) Analyze(ctx context.Context, input types.AnalyzeResumeInput) types.AnalyzeResumeOutput {
	text := input.ResumeText

	if s.analyzer == nil {
		s.logger.Info("No AI credential configured, using fallback analysis")
		s.recordFallback(ctx, config.OperationAnalyze, ReasonNoCredential)
		return s.mockOutput(ctx, text)
	}

	systemPrompt, userPrompt := s.analyzePrompts.BuildAnalyzePrompts(text)

	start := time.Now()
	answer, usage, err := s.analyzer.Generate(ctx, systemPrompt, userPrompt)
	if s.recorder != nil {
		s.recorder.RecordAICall(ctx, config.OperationAnalyze, time.Since(start), err, usage)
	}

	var analysis types.ResumeAnalysis
	if err == nil {
		analysis, err = ParseAnalysis(answer, text)
	}
	if err != nil {
		s.logger.LogError(err, "AI analysis failed, using fallback analysis",
			"operation", config.OperationAnalyze)
		s.notify(ctx, SeverityError, MsgAnalysisFellBack)
		s.recordFallback(ctx, config.OperationAnalyze, fallbackReason(err))
		return s.mockOutput(ctx, text)
	}

	s.notify(ctx, SeveritySuccess, MsgAnalysisSucceeded)
	if s.recorder != nil {
		s.recorder.RecordOutcome(ctx, config.OperationAnalyze, types.SourceAI, analysis.OverallScore, len(text))
	}
	return types.AnalyzeResumeOutput{Analysis: analysis, Source: types.SourceAI}
}

func (s *Service) mockOutput(ctx context.Context, text string) types.AnalyzeResumeOutput {
	analysis := resume.MockAnalysis(text)
	if s.recorder != nil {
		s.recorder.RecordOutcome(ctx, config.OperationAnalyze, types.SourceMock, analysis.OverallScore, len(text))
	}
	return types.AnalyzeResumeOutput{Analysis: analysis, Source: types.SourceMock}
}

// AnalyzeBatch analyses several résumés concurrently, at most
// BatchConcurrency at a time. Results keep the input order. Every text is
// validated before any analysis starts; an empty one rejects the whole batch.
func (s *Service) AnalyzeBatch(ctx context.Context, texts []string) ([]types.AnalyzeResumeOutput, error) {
	inputs := make([]types.AnalyzeResumeInput, len(texts))
	for i, text := range texts {
		inputs[i] = types.AnalyzeResumeInput{ResumeText: text}
		if err := inputs[i].Validate(); err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("resume %d is empty", i+1), err).WithContext("index", i)
		}
	}

	results := make([]types.AnalyzeResumeOutput, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchConcurrency)

	for i, input := range inputs {
		g.Go(func() error {
			results[i] = s.Analyze(gctx, input)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var preamblePattern = regexp.MustCompile(`(?i)^\s*(IMPROVED RESUME:|Here's the improved resume:|Enhanced Resume:)`)

// CleanEnhancedText removes a leading label the model sometimes puts before
// the résumé, then trims surrounding whitespace.
func CleanEnhancedText(answer string) string {
	return strings.TrimSpace(preamblePattern.ReplaceAllString(answer, ""))
}

// EnhanceResume rewrites originalResume by applying suggestions
func (s *Service) EnhanceResume(ctx context.Context, originalResume string, suggestions []string) (string, error) {
	out, err := s.Enhance(ctx, types.EnhanceResumeInput{
		OriginalResume: originalResume,
		Suggestions:    suggestions,
	})
	if err != nil {
		return "", err
	}
	return out.EnhancedResume, nil
}

// Enhance is EnhanceResume reporting which path produced the result.
// The only error is a failure of the rule-based fallback itself.
func (s *Service) Enhance(ctx context.Context, input types.EnhanceResumeInput) (types.EnhanceResumeOutput, error) {
	if len(input.Suggestions) == 0 {
		return types.EnhanceResumeOutput{EnhancedResume: input.OriginalResume, Source: types.SourceRules}, nil
	}

	if s.enhancer == nil {
		s.logger.Info("No AI credential configured, using rule-based enhancement",
			"suggestions", len(input.Suggestions))
		s.recordFallback(ctx, config.OperationEnhance, ReasonNoCredential)
		return s.enhanceWithRules(ctx, input)
	}

	systemPrompt, userPrompt := s.enhancePrompts.BuildEnhancePrompts(input.OriginalResume, input.Suggestions)

	start := time.Now()
	answer, usage, err := s.enhancer.Generate(ctx, systemPrompt, userPrompt)
	if s.recorder != nil {
		s.recorder.RecordAICall(ctx, config.OperationEnhance, time.Since(start), err, usage)
	}

	var enhanced string
	if err == nil {
		enhanced = CleanEnhancedText(answer)
		if enhanced == "" {
			err = errors.NewAIError(errors.ErrCodeEmptyResponse, "AI enhancement returned no résumé text", nil)
		}
	}
	if err != nil {
		s.logger.LogError(err, "AI enhancement failed, using rule-based enhancement",
			"operation", config.OperationEnhance)
		s.notify(ctx, SeverityWarning, MsgEnhanceFellBack)
		s.recordFallback(ctx, config.OperationEnhance, fallbackReason(err))
		return s.enhanceWithRules(ctx, input)
	}

	s.notify(ctx, SeveritySuccess, MsgEnhancementComplete)
	if s.recorder != nil {
		s.recorder.RecordOutcome(ctx, config.OperationEnhance, types.SourceAI, 0, len(input.OriginalResume))
	}
	return types.EnhanceResumeOutput{EnhancedResume: enhanced, Source: types.SourceAI}, nil
}

func (s *Service) enhanceWithRules(ctx context.Context, input types.EnhanceResumeInput) (out types.EnhanceResumeOutput, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewInternalError(errors.ErrCodeEnhancementFailed,
				"Rule-based enhancement failed", fmt.Errorf("panic: %v", r))
			s.logger.LogError(err, "Rule-based enhancement panicked")
			s.notify(ctx, SeverityError, MsgEnhancementFailed)
			out = types.EnhanceResumeOutput{}
		}
	}()

	enhanced := s.applyRules(input.OriginalResume, input.Suggestions)
	if s.recorder != nil {
		s.recorder.RecordOutcome(ctx, config.OperationEnhance, types.SourceRules, 0, len(input.OriginalResume))
	}
	return types.EnhanceResumeOutput{EnhancedResume: enhanced, Source: types.SourceRules}, nil
}

func (s *Service) notify(ctx context.Context, severity Severity, message string) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, severity, message)
	}
	if n := notifierFromContext(ctx); n != nil {
		n.Notify(ctx, severity, message)
	}
}

func (s *Service) recordFallback(ctx context.Context, operation, reason string) {
	if s.recorder != nil {
		s.recorder.RecordFallback(ctx, operation, reason)
	}
}

// fallbackReason separates an unreachable model from one that answered badly
func fallbackReason(err error) string {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeParse:
		return ReasonParse
	case errors.ErrorTypeNetwork:
		return ReasonUnavailable
	}
	switch errors.CodeOf(err) {
	case errors.ErrCodeAITimeout:
		return ReasonTimeout
	case errors.ErrCodeAIServiceFailed:
		return ReasonUnavailable
	}
	return ReasonAIError
}

// HasAnalyzer reports whether analysis can reach a model
func (s *Service) HasAnalyzer() bool { return s.analyzer != nil }

// HasEnhancer reports whether enhancement can reach a model
func (s *Service) HasEnhancer() bool { return s.enhancer != nil }

// ModelInfo reports model readiness per configured operation
func (s *Service) ModelInfo(ctx context.Context) map[string]*ModelInfo {
	info := make(map[string]*ModelInfo)
	if s.analyzer != nil {
		info[config.OperationAnalyze] = s.analyzer.GetModelInfo(ctx)
	}
	if s.enhancer != nil {
		info[config.OperationEnhance] = s.enhancer.GetModelInfo(ctx)
	}
	return info
}

// CircuitBreakerStats returns breaker statistics per operation
func (s *Service) CircuitBreakerStats() map[string]any {
	stats := make(map[string]any)
	if r, ok := s.analyzer.(BreakerReporter); ok {
		stats[config.OperationAnalyze] = r.GetCircuitBreakerStats()
	}
	if r, ok := s.enhancer.(BreakerReporter); ok {
		stats[config.OperationEnhance] = r.GetCircuitBreakerStats()
	}
	return stats
}

// Close releases the underlying generators
func (s *Service) Close() error {
	var firstErr error
	for _, g := range []TextGenerator{s.analyzer, s.enhancer} {
		if g == nil {
			continue
		}
		if err := g.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
