package cli

import (
	"context"
	"fmt"

	"resumelift/internal/common"
	"resumelift/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze --file resume.txt [--file other.pdf ...]",
	Short: "Score a résumé section by section and suggest improvements",
	Long: `Analyze one or more résumés. Each résumé gets an overall score, a score and
suggestions per section, and general suggestions.

Files may be plain text, Markdown, PDF, DOCX or HTML. Repeat --file to analyze
several résumés concurrently; results keep the order of the flags.

Without an AI API key the built-in analysis is returned.`,
	Args: cobra.ArbitraryArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(analyzeOutput.OutputFormat, cfg.App)
		if err != nil {
			return err
		}
		analyzeOutput.OutputFormat = format
		return nil
	},
	RunE: runAnalyze,
}

var (
	analyzeOutput      common.CommandConfig
	analyzeFiles       []string
	analyzeSuggestions bool
)

func init() {
	addOutputFlags(analyzeCmd, &analyzeOutput)
	analyzeCmd.Flags().StringArrayVarP(&analyzeFiles, "file", "f", nil, "Résumé file to analyze (repeatable)")
	analyzeCmd.Flags().BoolVar(&analyzeSuggestions, "suggestions", false, "Print only the combined list of suggestions")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	files := append(append([]string{}, analyzeFiles...), args...)
	if len(files) == 0 {
		return fmt.Errorf("at least one --file is required")
	}

	service, err := newService(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to create AI service: %w", err)
	}
	defer func() {
		if err := service.Close(); err != nil {
			logger.Warn("Failed to close AI service", "error", err)
		}
	}()

	logDetails := func(texts []string, out common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"resumes", len(texts),
			"ai_enabled", service.HasAnalyzer(),
			"output_format", out.OutputFormat)
	}

	createInput := func(contents []string) ([]string, error) {
		return contents, nil
	}

	operation := func(ctx context.Context, texts []string) (any, error) {
		results, err := service.AnalyzeBatch(ctx, texts)
		if err != nil {
			return nil, err
		}
		if analyzeSuggestions {
			return combinedSuggestions(results), nil
		}
		if len(results) == 1 {
			return results[0], nil
		}
		return results, nil
	}

	err = common.RunCommand(cmd.Context(), logger, common.Command[[]string, any]{
		Config:      analyzeOutput,
		Files:       files,
		MaxFileSize: cfg.App.MaxFileSize,
		CreateInput: createInput,
		Operation:   operation,
		LogDetails:  logDetails,
		Stdout:      cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	logger.Info("Resume analysis completed successfully", "resumes", len(files))
	return nil
}

// combinedSuggestions flattens the suggestions of every result, dropping repeats
func combinedSuggestions(results []types.AnalyzeResumeOutput) []string {
	var all []string
	for _, result := range results {
		all = append(all, result.Analysis.AllSuggestions()...)
	}
	return common.NormalizeSuggestions(all)
}
