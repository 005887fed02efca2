package formatters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"resumelift/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// Data type names used as registry keys
const (
	TypeAny         = "any"
	TypeAnalysis    = "AnalyzeResumeOutput"
	TypeBatch       = "AnalyzeBatchOutput"
	TypeEnhancement = "EnhanceResumeOutput"
	TypeExtraction  = "ExtractResumeOutput"
	TypeSuggestions = "Suggestions"
)

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", TypeAny, &JSONFormatter{})
	for _, style := range []outputStyle{textStyle, markdownStyle} {
		registry.RegisterFormatter(style.name, TypeAnalysis, &AnalysisFormatter{style: style})
		registry.RegisterFormatter(style.name, TypeBatch, &BatchFormatter{style: style})
		registry.RegisterFormatter(style.name, TypeEnhancement, &EnhancementFormatter{style: style})
		registry.RegisterFormatter(style.name, TypeExtraction, &ExtractionFormatter{style: style})
		registry.RegisterFormatter(style.name, TypeSuggestions, &SuggestionsFormatter{style: style})
	}

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters[TypeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats, sorted
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalyzeResumeOutput:
		return TypeAnalysis
	case []types.AnalyzeResumeOutput:
		return TypeBatch
	case types.EnhanceResumeOutput:
		return TypeEnhancement
	case types.ExtractResumeOutput:
		return TypeExtraction
	case []string:
		return TypeSuggestions
	default:
		return TypeAny
	}
}

// outputStyle holds the decorations that differ between plain text and markdown
type outputStyle struct {
	name    string
	title   func(string) string
	heading func(string) string
	label   func(string) string
}

var textStyle = outputStyle{
	name:    "text",
	title:   func(s string) string { return "=== " + strings.ToUpper(s) + " ===\n\n" },
	heading: func(s string) string { return "--- " + s + " ---\n" },
	label:   func(s string) string { return s + ":" },
}

var markdownStyle = outputStyle{
	name:    "markdown",
	title:   func(s string) string { return "# " + s + "\n\n" },
	heading: func(s string) string { return "## " + s + "\n\n" },
	label:   func(s string) string { return "**" + s + ":**" },
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return TypeAny
}

// AnalysisFormatter renders a single résumé analysis
type AnalysisFormatter struct {
	style outputStyle
}

func (af *AnalysisFormatter) Format(data any) (string, error) {
	result, ok := data.(types.AnalyzeResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected AnalyzeResumeOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString(af.style.title("Resume Analysis"))
	writeAnalysis(&output, af.style, result)
	return output.String(), nil
}

func (af *AnalysisFormatter) SupportedType() string {
	return TypeAnalysis
}

func writeAnalysis(output *strings.Builder, style outputStyle, result types.AnalyzeResumeOutput) {
	analysis := result.Analysis

	fmt.Fprintf(output, "%s %d/100\n", style.label("Overall Score"), analysis.OverallScore)
	fmt.Fprintf(output, "%s %s\n\n", style.label("Source"), result.Source)

	for _, section := range analysis.Sections {
		output.WriteString(style.heading(fmt.Sprintf("%s (%d/100)", section.Name, section.Score)))
		if content := strings.TrimSpace(section.Content); content != "" {
			output.WriteString(content)
			output.WriteString("\n\n")
		}
		writeList(output, section.Suggestions)
	}

	if len(analysis.GeneralSuggestions) > 0 {
		output.WriteString(style.heading("General Suggestions"))
		writeList(output, analysis.GeneralSuggestions)
	}
}

func writeList(output *strings.Builder, items []string) {
	if len(items) == 0 {
		return
	}
	for _, item := range items {
		fmt.Fprintf(output, "- %s\n", item)
	}
	output.WriteString("\n")
}

// BatchFormatter renders the analyses of several résumés in input order
type BatchFormatter struct {
	style outputStyle
}

func (bf *BatchFormatter) Format(data any) (string, error) {
	results, ok := data.([]types.AnalyzeResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected []AnalyzeResumeOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString(bf.style.title(fmt.Sprintf("Resume Analysis (%d resumes)", len(results))))
	for i, result := range results {
		output.WriteString(bf.style.heading(fmt.Sprintf("Resume %d", i+1)))
		writeAnalysis(&output, bf.style, result)
	}
	return output.String(), nil
}

func (bf *BatchFormatter) SupportedType() string {
	return TypeBatch
}

// EnhancementFormatter renders an enhanced résumé
type EnhancementFormatter struct {
	style outputStyle
}

func (ef *EnhancementFormatter) Format(data any) (string, error) {
	result, ok := data.(types.EnhanceResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected EnhanceResumeOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString(ef.style.title("Enhanced Resume"))
	fmt.Fprintf(&output, "%s %s\n\n", ef.style.label("Source"), result.Source)
	output.WriteString(result.EnhancedResume)
	output.WriteString("\n")
	return output.String(), nil
}

func (ef *EnhancementFormatter) SupportedType() string {
	return TypeEnhancement
}

// ExtractionFormatter renders extracted document text section by section
type ExtractionFormatter struct {
	style outputStyle
}

func (xf *ExtractionFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ExtractResumeOutput)
	if !ok {
		return "", fmt.Errorf("expected ExtractResumeOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString(xf.style.title("Extracted Resume"))

	if result.CanonicalText != "" {
		output.WriteString(result.CanonicalText)
		output.WriteString("\n")
		return output.String(), nil
	}

	if len(result.Sections) == 0 {
		output.WriteString(result.FullText)
		output.WriteString("\n")
		return output.String(), nil
	}

	keys := make([]string, 0, len(result.Sections))
	for key := range result.Sections {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		output.WriteString(xf.style.heading(key))
		output.WriteString(result.Sections[key])
		output.WriteString("\n\n")
	}
	return output.String(), nil
}

func (xf *ExtractionFormatter) SupportedType() string {
	return TypeExtraction
}

// SuggestionsFormatter renders a flat suggestion list
type SuggestionsFormatter struct {
	style outputStyle
}

func (sf *SuggestionsFormatter) Format(data any) (string, error) {
	suggestions, ok := data.([]string)
	if !ok {
		return "", fmt.Errorf("expected []string, got %T", data)
	}

	var output strings.Builder
	output.WriteString(sf.style.title("Suggestions"))
	if len(suggestions) == 0 {
		output.WriteString("No suggestions.\n")
		return output.String(), nil
	}
	for i, suggestion := range suggestions {
		fmt.Fprintf(&output, "%d. %s\n", i+1, suggestion)
	}
	return output.String(), nil
}

func (sf *SuggestionsFormatter) SupportedType() string {
	return TypeSuggestions
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
