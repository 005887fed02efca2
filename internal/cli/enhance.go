package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"resumelift/internal/common"
	"resumelift/internal/errors"
	"resumelift/internal/resume"
	"resumelift/internal/types"

	"github.com/spf13/cobra"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance --file resume.txt (--suggestion TEXT ... | --kind NAME ... | --from-analysis analysis.json)",
	Short: "Rewrite a résumé to apply improvement suggestions",
	Long: `Rewrite a résumé so that it applies the given suggestions.

Suggestions come from --suggestion (free text), --kind (one of linkedin,
quantify, action_verbs, results, keywords) or --from-analysis, a JSON file
written by "analyze --format json". From an analysis only the suggestions the
rule-based rewriter understands are used, unless --all is given.

Without an AI API key, or when the model fails, the rule-based rewrite is
returned.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(enhanceOutput.OutputFormat, cfg.App)
		if err != nil {
			return err
		}
		enhanceOutput.OutputFormat = format
		return nil
	},
	RunE: runEnhance,
}

var (
	enhanceOutput       common.CommandConfig
	enhanceFile         string
	enhanceSuggestions  []string
	enhanceKinds        []string
	enhanceFromAnalysis string
	enhanceAll          bool
)

func init() {
	addOutputFlags(enhanceCmd, &enhanceOutput)
	enhanceCmd.Flags().StringVarP(&enhanceFile, "file", "f", "", "Résumé file to enhance")
	enhanceCmd.Flags().StringArrayVarP(&enhanceSuggestions, "suggestion", "s", nil, "Suggestion to apply (repeatable)")
	enhanceCmd.Flags().StringArrayVar(&enhanceKinds, "kind", nil, "Suggestion kind to apply (repeatable)")
	enhanceCmd.Flags().StringVar(&enhanceFromAnalysis, "from-analysis", "", "JSON analysis whose suggestions are applied")
	enhanceCmd.Flags().BoolVar(&enhanceAll, "all", false, "With --from-analysis, apply every suggestion, not only the recognized ones")
	_ = enhanceCmd.MarkFlagRequired("file")
}

func runEnhance(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	suggestions, err := collectSuggestions(enhanceSuggestions, enhanceKinds, enhanceFromAnalysis, enhanceAll)
	if err != nil {
		return err
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

	createInput := func(contents []string) (types.EnhanceResumeInput, error) {
		if len(contents) != 1 {
			return types.EnhanceResumeInput{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return types.EnhanceResumeInput{
			OriginalResume: contents[0],
			Suggestions:    suggestions,
		}, nil
	}

	logDetails := func(input types.EnhanceResumeInput, out common.CommandConfig) {
		logger.Info("Starting resume enhancement",
			"resume_chars", len(input.OriginalResume),
			"suggestions", len(input.Suggestions),
			"ai_enabled", service.HasEnhancer(),
			"output_format", out.OutputFormat)
	}

	operation := func(ctx context.Context, input types.EnhanceResumeInput) (types.EnhanceResumeOutput, error) {
		return service.Enhance(ctx, input)
	}

	err = common.RunCommand(cmd.Context(), logger, common.Command[types.EnhanceResumeInput, types.EnhanceResumeOutput]{
		Config:      enhanceOutput,
		Files:       []string{enhanceFile},
		MaxFileSize: cfg.App.MaxFileSize,
		CreateInput: createInput,
		Operation:   operation,
		LogDetails:  logDetails,
		Stdout:      cmd.OutOrStdout(),
	})
	if err != nil {
		return fmt.Errorf("failed to enhance resume: %w", err)
	}

	logger.Info("Resume enhancement completed successfully")
	return nil
}

// collectSuggestions merges the suggestion sources of the enhance command
// into one de-duplicated list.
func collectSuggestions(free, kinds []string, analysisFile string, all bool) ([]string, error) {
	suggestions := append([]string{}, free...)

	for _, name := range kinds {
		kind, err := resume.ParseKind(name)
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("Unknown suggestion kind %q", name), err)
		}
		suggestions = append(suggestions, kind.Canonical())
	}

	if analysisFile != "" {
		analysis, err := loadAnalysis(analysisFile)
		if err != nil {
			return nil, err
		}
		fromAnalysis := analysis.AllSuggestions()
		if !all {
			fromAnalysis = recognizedSuggestions(fromAnalysis)
		}
		suggestions = append(suggestions, fromAnalysis...)
	}

	return common.NormalizeSuggestions(suggestions), nil
}

// loadAnalysis reads either an analyze command result or a bare analysis
func loadAnalysis(filename string) (types.ResumeAnalysis, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return types.ResumeAnalysis{}, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read analysis file: %s", filename), err)
	}

	var wrapped types.AnalyzeResumeOutput
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return types.ResumeAnalysis{}, errors.NewParseError(errors.ErrCodeMalformedJSON,
			fmt.Sprintf("Analysis file is not valid JSON: %s", filename), err)
	}
	if len(wrapped.Analysis.Sections) > 0 || len(wrapped.Analysis.GeneralSuggestions) > 0 {
		return wrapped.Analysis, nil
	}

	var bare types.ResumeAnalysis
	if err := json.Unmarshal(data, &bare); err != nil {
		return types.ResumeAnalysis{}, errors.NewParseError(errors.ErrCodeMalformedJSON,
			fmt.Sprintf("Analysis file is not valid JSON: %s", filename), err)
	}
	return bare, nil
}

func recognizedSuggestions(suggestions []string) []string {
	var out []string
	for i, kind := range resume.ClassifyAll(suggestions) {
		if kind != resume.KindUnknown {
			out = append(out, suggestions[i])
		}
	}
	return out
}
