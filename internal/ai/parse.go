package ai

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"resumelift/internal/errors"
	"resumelift/internal/resume"
	"resumelift/internal/types"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/analysis.schema.json
var analysisSchemaJSON string

var analysisSchema = mustLoadSchema(analysisSchemaJSON)

func mustLoadSchema(content string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		panic(fmt.Sprintf("invalid embedded analysis schema: %v", err))
	}
	return schema
}

// FieldError is one schema violation at a JSON path
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// SchemaError lists every violation found in a model answer
type SchemaError struct {
	Errors []FieldError
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, fe.Field, fe.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// ValidateAnalysisJSON checks a JSON document against the analysis schema.
// Syntax errors yield MALFORMED_JSON, shape errors MISSING_REQUIRED_FIELDS.
func ValidateAnalysisJSON(doc string) error {
	if !json.Valid([]byte(doc)) {
		return errors.NewParseError(errors.ErrCodeMalformedJSON, "AI response is not valid JSON", nil)
	}

	result, err := analysisSchema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return errors.NewParseError(errors.ErrCodeMalformedJSON, "AI response could not be loaded", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Errors = append(schemaErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return errors.NewParseError(errors.ErrCodeMissingFields, "AI response is missing required fields", schemaErr).
		WithContext("violations", len(schemaErr.Errors))
}

type rawSection struct {
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
	Score       float64  `json:"score"`
}

type rawAnalysis struct {
	OverallScore       float64      `json:"overallScore"`
	Sections           []rawSection `json:"sections"`
	GeneralSuggestions []string     `json:"generalSuggestions"`
}

// ParseAnalysis turns a free-form model answer into an analysis. The first
// JSON object in the answer is validated and normalized, and sections with
// no content are filled from resumeText.
func ParseAnalysis(answer, resumeText string) (types.ResumeAnalysis, error) {
	doc, ok := ExtractJSONObject(answer)
	if !ok {
		return types.ResumeAnalysis{}, errors.NewParseError(errors.ErrCodeNoJSONObject,
			"AI response does not contain a JSON object", nil).
			WithContext("response_length", len(answer))
	}

	if err := ValidateAnalysisJSON(doc); err != nil {
		return types.ResumeAnalysis{}, err
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return types.ResumeAnalysis{}, errors.NewParseError(errors.ErrCodeMalformedJSON,
			"AI response could not be decoded", err)
	}

	analysis := types.ResumeAnalysis{
		OverallScore:       normalizeScore(raw.OverallScore),
		Sections:           make([]types.ResumeSection, 0, len(raw.Sections)),
		GeneralSuggestions: nonNil(raw.GeneralSuggestions),
	}

	for _, s := range raw.Sections {
		section := types.ResumeSection{
			Name:        s.Name,
			Content:     s.Content,
			Suggestions: nonNil(s.Suggestions),
			Score:       normalizeScore(s.Score),
		}
		if section.Content == "" {
			section.Content = resume.ExtractSection(resumeText, strings.ToLower(section.Name))
		}
		analysis.Sections = append(analysis.Sections, section)
	}

	return analysis, nil
}

// normalizeScore rounds to the nearest integer and clamps to 0..100
func normalizeScore(score float64) int {
	rounded := math.Round(score)
	switch {
	case math.IsNaN(rounded) || rounded < 0:
		return 0
	case rounded > 100:
		return 100
	default:
		return int(rounded)
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
