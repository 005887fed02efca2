package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllSuggestionsDedupesInOrder(t *testing.T) {
	analysis := ResumeAnalysis{
		Sections: []ResumeSection{
			{Name: "Summary", Suggestions: []string{"Use action verbs", "Add LinkedIn"}},
			{Name: "Skills", Suggestions: []string{"Add LinkedIn", "Add relevant keywords"}},
		},
		GeneralSuggestions: []string{"Use action verbs", "Quantify achievements"},
	}

	assert.Equal(t, []string{
		"Use action verbs",
		"Add LinkedIn",
		"Add relevant keywords",
		"Quantify achievements",
	}, analysis.AllSuggestions())

	assert.Empty(t, ResumeAnalysis{}.AllSuggestions())
}

func TestAnalyzeResumeInputValidate(t *testing.T) {
	assert.NoError(t, (&AnalyzeResumeInput{ResumeText: "Jane Smith"}).Validate())
	assert.Error(t, (&AnalyzeResumeInput{}).Validate())
}

func TestEnhanceResumeInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   EnhanceResumeInput
		wantErr bool
	}{
		{"valid", EnhanceResumeInput{OriginalResume: "Jane", Suggestions: []string{"Add LinkedIn"}}, false},
		{"no suggestions", EnhanceResumeInput{OriginalResume: "Jane"}, false},
		{"missing resume", EnhanceResumeInput{Suggestions: []string{"Add LinkedIn"}}, true},
		{"empty suggestion", EnhanceResumeInput{OriginalResume: "Jane", Suggestions: []string{""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
