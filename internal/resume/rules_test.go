package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyRulesLinkedIn(t *testing.T) {
	input := "Jane Doe\njane@example.com\nSummary\nBuilt things\n"
	expected := "Jane Doe\njane@example.com\nLinkedIn: linkedin.com/in/your-profile\nSummary\nBuilt things\n"

	got := ApplyRules(input, []string{SuggestionLinkedIn})
	assert.Equal(t, expected, got)

	inLines := strings.Split(input, "\n")
	outLines := strings.Split(got, "\n")
	assert.Equal(t, inLines[:2], outLines[:2])
	assert.Equal(t, inLines[2:], outLines[3:])
}

func TestApplyRulesLinkedInGuards(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no email", "Jane Doe\nSummary\n"},
		{"already present", "jane@example.com\nlinkedin.com/in/jane\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.input, ApplyRules(tt.input, []string{SuggestionLinkedIn}))
		})
	}
}

func TestApplyRulesLinkedInIdempotent(t *testing.T) {
	input := "jane@example.com\n"
	once := ApplyRules(input, []string{SuggestionLinkedIn})
	twice := ApplyRules(once, []string{SuggestionLinkedIn})
	assert.Equal(t, once, twice)
}

func TestApplyRulesActionVerbs(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"- Was responsible for managing a team\n", "- Spearheaded managing a team\n"},
		{"- helped with onboarding", "- Spearheaded onboarding"},
		{"- Worked on the billing system\n- Led hiring\n", "- Spearheaded the billing system\n- Led hiring\n"},
		{"- Designed the API\n", "- Designed the API\n"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ApplyRules(tt.input, []string{SuggestionActionVerbs}))
	}
}

func TestApplyRulesQuantify(t *testing.T) {
	input := "- Developed a billing service\n- Built 3 dashboards\n- Designed APIs\n"
	expected := "- Developed a billing service resulting in 25% improvement in efficiency\n- Built 3 dashboards\n- Designed APIs\n"

	assert.Equal(t, expected, ApplyRules(input, []string{SuggestionQuantify}))
}

// The appended phrase carries digits, so a second pass finds nothing to match.
func TestApplyRulesQuantifySecondPassIsNoop(t *testing.T) {
	once := ApplyRules("- Led the platform team", []string{SuggestionQuantify})
	twice := ApplyRules(once, []string{SuggestionQuantify})

	assert.Equal(t, "- Led the platform team resulting in 25% improvement in efficiency", once)
	assert.Equal(t, once, twice)
}

func TestApplyRulesResults(t *testing.T) {
	input := "Experience\n" +
		"- Managed a team of engineers.\n" +
		"- Cut costs, resulting in savings\n" +
		"  - Ran the on-call rotation\n" +
		"- \n"
	expected := "Experience\n" +
		"- Managed a team of engineers, which led to significant business impact.\n" +
		"- Cut costs, resulting in savings\n" +
		"  - Ran the on-call rotation, which led to significant business impact.\n" +
		"- \n"

	assert.Equal(t, expected, ApplyRules(input, []string{SuggestionResults}))

	crlf := strings.ReplaceAll(input, "\n", "\r\n")
	assert.Equal(t, strings.ReplaceAll(expected, "\n", "\r\n"), ApplyRules(crlf, []string{SuggestionResults}))
}

func TestApplyRulesKeywords(t *testing.T) {
	input := "Summary\nEngineer\n\nSkills\nGo, Python\n"
	expected := "Summary\nEngineer\n\nSkills\nAgile Methodology, CI/CD, Cloud Infrastructure, Go, Python\n"
	assert.Equal(t, expected, ApplyRules(input, []string{SuggestionKeywords}))

	withAgile := "Skills\nAGILE, Go\n"
	assert.Equal(t, withAgile, ApplyRules(withAgile, []string{SuggestionKeywords}))

	noHeading := "Experience\n- Built things\n"
	assert.Equal(t, noHeading, ApplyRules(noHeading, []string{SuggestionKeywords}))
}

func TestApplyRulesUnknownAndEmpty(t *testing.T) {
	input := "Jane Doe\njane@example.com\n- Was responsible for stuff\n"

	assert.Equal(t, input, ApplyRules(input, []string{"unknown suggestion"}))
	assert.Equal(t, input, ApplyRules(input, nil))
	assert.Equal(t, input, ApplyRules(input, []string{}))
}

func TestApplyRulesCompositionOrder(t *testing.T) {
	input := "- Developed a billing service\n"

	quantifyFirst := ApplyRules(input, []string{SuggestionQuantify, SuggestionResults})
	resultsFirst := ApplyRules(input, []string{SuggestionResults, SuggestionQuantify})

	assert.Equal(t,
		"- Developed a billing service resulting in 25% improvement in efficiency\n",
		quantifyFirst)
	assert.Equal(t,
		"- Developed a billing service, which led to significant business impact. resulting in 25% improvement in efficiency\n",
		resultsFirst)
	assert.NotEqual(t, quantifyFirst, resultsFirst)
}

func TestApplyRulesClassifiedWording(t *testing.T) {
	input := "jane@example.com\n- Worked on payments\n"
	got := ApplyRules(input, []string{
		"Add a link to your LinkedIn profile",
		"Start bullets with strong verbs",
	})

	assert.Equal(t, "jane@example.com\nLinkedIn: linkedin.com/in/your-profile\n- Spearheaded payments\n", got)
}

func TestApplyKinds(t *testing.T) {
	input := "- Was responsible for hiring\n"
	assert.Equal(t, "- Spearheaded hiring\n", ApplyKinds(input, []Kind{KindUnknown, KindActionVerbs}))
	assert.Nil(t, RuleFor(KindUnknown))
	assert.NotNil(t, RuleFor(KindResults))
}
