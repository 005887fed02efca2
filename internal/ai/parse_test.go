package ai

import (
	stderrors "errors"
	"testing"

	"resumelift/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysisNormalizesScores(t *testing.T) {
	answer := `{"overallScore": -4, "sections": [{"name": "Education", "score": 99.5}], "generalSuggestions": []}`

	analysis, err := ParseAnalysis(answer, "")
	require.NoError(t, err)

	assert.Equal(t, 0, analysis.OverallScore)
	require.Len(t, analysis.Sections, 1)
	assert.Equal(t, 100, analysis.Sections[0].Score)
	assert.Equal(t, "", analysis.Sections[0].Content)
	assert.Equal(t, []string{}, analysis.Sections[0].Suggestions)
}

func TestParseAnalysisAcceptsZeroScore(t *testing.T) {
	analysis, err := ParseAnalysis(`{"overallScore": 0, "sections": [], "generalSuggestions": ["x"]}`, "")
	require.NoError(t, err)
	assert.Equal(t, 0, analysis.OverallScore)
	assert.Empty(t, analysis.Sections)
}

func TestParseAnalysisErrors(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		code   string
	}{
		{"no object", "Sorry, I can't.", errors.ErrCodeNoJSONObject},
		{"trailing comma", `{"overallScore": 1, "sections": [], "generalSuggestions": [],}`, errors.ErrCodeMalformedJSON},
		{"missing sections", `{"overallScore": 1, "generalSuggestions": []}`, errors.ErrCodeMissingFields},
		{"string score", `{"overallScore": "high", "sections": [], "generalSuggestions": []}`, errors.ErrCodeMissingFields},
		{"section without score", `{"overallScore": 1, "sections": [{"name": "Skills"}], "generalSuggestions": []}`, errors.ErrCodeMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalysis(tt.answer, "")
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeParse, errors.TypeOf(err))
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestValidateAnalysisJSONReportsFields(t *testing.T) {
	err := ValidateAnalysisJSON(`{"sections": [{"name": "Skills"}]}`)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, stderrors.As(err, &schemaErr))

	require.GreaterOrEqual(t, len(schemaErr.Errors), 3)
	for _, fe := range schemaErr.Errors {
		assert.NotEmpty(t, fe.Field)
	}
	msg := schemaErr.Error()
	assert.Contains(t, msg, "overallScore is required")
	assert.Contains(t, msg, "generalSuggestions is required")
	assert.Contains(t, msg, "score is required")
	assert.Contains(t, schemaErr.Error(), "schema validation failed")
}
