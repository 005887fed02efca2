package common

import (
	"fmt"
	"io"
	"os"

	"resumelift/internal/errors"
	"resumelift/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates a new output handler writing to stdout when no
// output file is configured
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return NewOutputHandlerWithWriter(logger, os.Stdout)
}

// NewOutputHandlerWithWriter creates an output handler that writes to w
// instead of stdout.
func NewOutputHandlerWithWriter(logger *errors.Logger, w io.Writer) *OutputHandler {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger, 0),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
		stdout:        w,
	}
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	if config.OutputFile != "" {
		if err := oh.fileProcessor.WriteFile(config.OutputFile, output); err != nil {
			return err
		}
		oh.logger.Info("Output written successfully",
			"file", config.OutputFile, "format", config.OutputFormat)
		return nil
	}

	if _, err := fmt.Fprintln(oh.stdout, output); err != nil {
		return errors.NewIOError("OUTPUT_WRITE_FAILED", "Failed to write output", err)
	}
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
