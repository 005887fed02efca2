package formatters

import (
	"encoding/json"
	"strings"
	"testing"

	"resumelift/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis() types.AnalyzeResumeOutput {
	return types.AnalyzeResumeOutput{
		Source: types.SourceAI,
		Analysis: types.ResumeAnalysis{
			OverallScore: 78,
			Sections: []types.ResumeSection{
				{Name: "Skills", Content: "Go, SQL", Score: 70, Suggestions: []string{"Add relevant keywords"}},
			},
			GeneralSuggestions: []string{"Quantify achievements with specific numbers"},
		},
	}
}

func TestFormatAnalysis(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{"text", []string{"=== RESUME ANALYSIS ===", "Overall Score: 78/100", "Source: ai", "--- Skills (70/100) ---", "- Add relevant keywords", "--- General Suggestions ---"}},
		{"markdown", []string{"# Resume Analysis", "**Overall Score:** 78/100", "## Skills (70/100)", "- Quantify achievements with specific numbers"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := GlobalRegistry.Format(sampleAnalysis(), tt.format)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestFormatJSONFallsBackToGenericFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleAnalysis(), "json")
	require.NoError(t, err)

	var decoded types.AnalyzeResumeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, sampleAnalysis(), decoded)
}

func TestFormatBatchKeepsOrder(t *testing.T) {
	first := sampleAnalysis()
	second := sampleAnalysis()
	second.Analysis.OverallScore = 55
	second.Source = types.SourceMock

	out, err := GlobalRegistry.Format([]types.AnalyzeResumeOutput{first, second}, "text")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "=== RESUME ANALYSIS (2 RESUMES) ===\n\n"))
	assert.Less(t, strings.Index(out, "Resume 1"), strings.Index(out, "Resume 2"))
	assert.Less(t, strings.Index(out, "78/100"), strings.Index(out, "55/100"))

	md, err := GlobalRegistry.Format([]types.AnalyzeResumeOutput{first}, "markdown")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(md, "# Resume Analysis (1 resumes)\n\n"))
}

func TestFormatEnhancement(t *testing.T) {
	out, err := GlobalRegistry.Format(types.EnhanceResumeOutput{EnhancedResume: "Jane Smith", Source: types.SourceRules}, "markdown")
	require.NoError(t, err)
	assert.Equal(t, "# Enhanced Resume\n\n**Source:** rules\n\nJane Smith\n", out)
}

func TestFormatExtraction(t *testing.T) {
	result := types.ExtractResumeOutput{
		ExtractResult: types.ExtractResult{
			FullText: "Jane Smith\nSKILLS\nGo",
			Sections: map[string]string{"skills": "Go", "contact": "Jane Smith"},
		},
	}

	out, err := GlobalRegistry.Format(result, "text")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "--- contact ---"), strings.Index(out, "--- skills ---"))

	result.CanonicalText = "Jane Smith\n\n# SKILLS\nGo"
	out, err = GlobalRegistry.Format(result, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "# SKILLS\nGo")
	assert.NotContains(t, out, "--- contact ---")

	js, err := GlobalRegistry.Format(result, "json")
	require.NoError(t, err)
	assert.Contains(t, js, `"full_text"`)
	assert.Contains(t, js, `"canonical_text"`)
}

func TestFormatSuggestions(t *testing.T) {
	out, err := GlobalRegistry.Format([]string{"Add LinkedIn", "Use action verbs"}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Add LinkedIn\n2. Use action verbs\n")

	out, err = GlobalRegistry.Format([]string{}, "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "No suggestions.")
}

func TestFormatUnknownFormat(t *testing.T) {
	_, err := GlobalRegistry.Format(sampleAnalysis(), "yaml")
	assert.Error(t, err)
	assert.Equal(t, []string{"json", "markdown", "text"}, GlobalRegistry.GetSupportedFormats())
}
