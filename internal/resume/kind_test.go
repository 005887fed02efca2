package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		suggestion string
		expected   Kind
	}{
		{SuggestionLinkedIn, KindLinkedIn},
		{SuggestionQuantify, KindQuantify},
		{SuggestionActionVerbs, KindActionVerbs},
		{SuggestionResults, KindResults},
		{SuggestionKeywords, KindKeywords},
		{"Include a LinkedIn link in the header", KindLinkedIn},
		{"Begin each bullet with an action verb", KindActionVerbs},
		{"Include metrics and specific achievements", KindQuantify},
		{"Add numbers to show scale", KindQuantify},
		{"Mirror keywords from the posting", KindKeywords},
		{"Describe the impact of your work", KindResults},
		{"Add GPA if above 3.5", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.suggestion, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.suggestion))
		})
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindUnknown, KindLinkedIn, KindQuantify, KindActionVerbs, KindResults, KindKeywords} {
		data, err := json.Marshal(k)
		require.NoError(t, err)

		var decoded Kind
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, k, decoded)
	}

	_, err := ParseKind("bogus")
	assert.Error(t, err)
}

func TestKindCanonical(t *testing.T) {
	assert.Equal(t, SuggestionResults, KindResults.Canonical())
	assert.Empty(t, KindUnknown.Canonical())
	assert.Equal(t, KindQuantify, Classify(KindQuantify.Canonical()))
}
