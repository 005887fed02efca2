package cli

import (
	"context"

	"resumelift/internal/ai"
	"resumelift/internal/common"
	"resumelift/internal/config"
	"resumelift/internal/errors"
	"resumelift/internal/observability"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumelift",
	Short: "Analyze and enhance résumés with AI",
	Long: `resumelift scores a résumé section by section, suggests improvements and
rewrites the résumé to apply them. It uses a Gemini model when an API key is
configured and falls back to built-in analysis and rule-based rewriting when
the model is unavailable.`,
	SilenceUsage: true,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	// Attach the config and logger to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// newService builds the résumé service for a CLI run. Notifications go to the log.
func newService(ctx context.Context) (*ai.Service, error) {
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)
	return ai.NewServiceFromConfig(cfg, ai.LogNotifier{Logger: logger}, observability.NewNopMetrics(), logger)
}

// addOutputFlags registers the -o and --format flags shared by file commands
func addOutputFlags(cmd *cobra.Command, cfg *common.CommandConfig) {
	cmd.Flags().StringVarP(&cfg.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&cfg.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return cfg.App.SupportedFormats, cobra.ShellCompDirectiveNoFileComp
	})
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
