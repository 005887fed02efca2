package cli

import (
	"fmt"

	"resumelift/internal/common"
	"resumelift/internal/extract"
	"resumelift/internal/types"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract --file resume.pdf",
	Short: "Extract text and sections from a résumé document",
	Long: `Extract the text of a PDF, DOCX, HTML, Markdown or plain text résumé and split
it into sections such as contact, summary, experience, education and skills.

With --canonical the sections are also written back out in a fixed order.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		format, err := common.ResolveOutputFormat(extractOutput.OutputFormat, cfg.App)
		if err != nil {
			return err
		}
		extractOutput.OutputFormat = format
		return nil
	},
	RunE: runExtract,
}

var (
	extractOutput    common.CommandConfig
	extractFile      string
	extractCanonical bool
)

func init() {
	addOutputFlags(extractCmd, &extractOutput)
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Document to extract")
	extractCmd.Flags().BoolVar(&extractCanonical, "canonical", false, "Also rebuild the text in canonical section order (default from extract.canonicalize)")
	_ = extractCmd.MarkFlagRequired("file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	canonical := cfg.Extract.Canonicalize
	if cmd.Flags().Changed("canonical") {
		canonical = extractCanonical
	}

	fileProcessor := common.NewFileProcessor(logger, 0)
	if err := fileProcessor.ValidateInputFile(extractFile); err != nil {
		return err
	}
	data, err := fileProcessor.ReadBytes(extractFile)
	if err != nil {
		return err
	}

	extractor := extract.NewExtractor(cfg.Extract, logger)
	result, err := extractor.Extract(cmd.Context(), extractFile, data)
	if err != nil {
		return fmt.Errorf("failed to extract document: %w", err)
	}

	output := types.ExtractResumeOutput{ExtractResult: result}
	if canonical {
		output.CanonicalText = extract.CanonicalText(result)
	}

	logger.Info("Document extraction completed successfully",
		"file", extractFile,
		"sections", len(result.Sections),
		"canonical", canonical)

	return common.NewOutputHandlerWithWriter(logger, cmd.OutOrStdout()).HandleOutput(output, extractOutput)
}
