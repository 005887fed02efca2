package resume

import (
	"resumelift/internal/types"
)

// MockOverallScore is the overall score of the static fallback analysis.
const MockOverallScore = 72

type mockSection struct {
	name        string
	key         string
	score       int
	suggestions []string
}

var mockSections = []mockSection{
	{
		name:  "Contact Information",
		key:   SectionContact,
		score: 80,
		suggestions: []string{
			SuggestionLinkedIn,
			"Consider adding a professional email address",
			"Include your location (city, state)",
		},
	},
	{
		name:  "Professional Summary",
		key:   SectionSummary,
		score: 65,
		suggestions: []string{
			SuggestionQuantify,
			SuggestionResults,
			SuggestionKeywords,
		},
	},
	{
		name:  "Work Experience",
		key:   SectionExperience,
		score: 70,
		suggestions: []string{
			SuggestionActionVerbs,
			"Include metrics and specific achievements",
			"Remove outdated experience (older than 10 years)",
		},
	},
	{
		name:  "Education",
		key:   SectionEducation,
		score: 85,
		suggestions: []string{
			"List relevant coursework for recent graduates",
			"Add GPA if above 3.5",
			"Include certifications relevant to the job",
		},
	},
	{
		name:  "Skills",
		key:   SectionSkills,
		score: 60,
		suggestions: []string{
			"Group skills by category (technical, soft, languages)",
			"Prioritize skills mentioned in job descriptions",
			"Remove outdated or basic skills",
		},
	},
}

var mockGeneralSuggestions = []string{
	"Tailor your resume for each job application",
	"Keep your resume to one page if possible",
	"Use a clean, professional format",
	"Proofread carefully for spelling and grammar errors",
}

// MockAnalysis builds the static fallback analysis for resumeText. Only the
// section contents depend on the input.
func MockAnalysis(resumeText string) types.ResumeAnalysis {
	sections := make([]types.ResumeSection, 0, len(mockSections))
	for _, ms := range mockSections {
		sections = append(sections, types.ResumeSection{
			Name:        ms.name,
			Content:     ExtractSection(resumeText, ms.key),
			Suggestions: append([]string(nil), ms.suggestions...),
			Score:       ms.score,
		})
	}

	return types.ResumeAnalysis{
		OverallScore:       MockOverallScore,
		Sections:           sections,
		GeneralSuggestions: append([]string(nil), mockGeneralSuggestions...),
	}
}
