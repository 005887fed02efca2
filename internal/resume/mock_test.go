package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAnalysisShape(t *testing.T) {
	analysis := MockAnalysis(sampleResume)

	assert.Equal(t, 72, analysis.OverallScore)
	require.Len(t, analysis.Sections, 5)

	expected := []struct {
		name  string
		score int
	}{
		{"Contact Information", 80},
		{"Professional Summary", 65},
		{"Work Experience", 70},
		{"Education", 85},
		{"Skills", 60},
	}
	for i, e := range expected {
		assert.Equal(t, e.name, analysis.Sections[i].Name)
		assert.Equal(t, e.score, analysis.Sections[i].Score)
		assert.Len(t, analysis.Sections[i].Suggestions, 3)
	}
	assert.Len(t, analysis.GeneralSuggestions, 4)

	assert.Equal(t, "jane@example.com\n(555) 123-4567", analysis.Sections[0].Content)
	assert.Equal(t, "- Developed APIs\n- Led team", analysis.Sections[2].Content)
}

func TestMockAnalysisDeterministic(t *testing.T) {
	first := MockAnalysis(sampleResume)
	second := MockAnalysis(sampleResume)
	assert.Equal(t, first, second)

	other := MockAnalysis("nothing useful here")
	require.Len(t, other.Sections, len(first.Sections))
	for i := range first.Sections {
		assert.Equal(t, first.Sections[i].Name, other.Sections[i].Name)
		assert.Equal(t, first.Sections[i].Score, other.Sections[i].Score)
		assert.Equal(t, first.Sections[i].Suggestions, other.Sections[i].Suggestions)
		assert.Empty(t, other.Sections[i].Content)
	}
	assert.Equal(t, first.GeneralSuggestions, other.GeneralSuggestions)
}

func TestMockAnalysisReturnsFreshSlices(t *testing.T) {
	first := MockAnalysis("")
	first.Sections[0].Suggestions[0] = "changed"
	first.GeneralSuggestions[0] = "changed"

	second := MockAnalysis("")
	assert.Equal(t, SuggestionLinkedIn, second.Sections[0].Suggestions[0])
	assert.Equal(t, "Tailor your resume for each job application", second.GeneralSuggestions[0])
}

func TestMockSuggestionsClassify(t *testing.T) {
	analysis := MockAnalysis("")
	kinds := map[Kind]bool{}
	for _, s := range analysis.AllSuggestions() {
		kinds[Classify(s)] = true
	}

	for _, k := range []Kind{KindLinkedIn, KindQuantify, KindActionVerbs, KindResults, KindKeywords} {
		assert.True(t, kinds[k], "mock analysis should offer a %s suggestion", k)
	}
}
