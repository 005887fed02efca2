package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ResumeSection is one scored, named part of a résumé analysis.
type ResumeSection struct {
	Name        string   `json:"name"`
	Content     string   `json:"content"`
	Suggestions []string `json:"suggestions"`
	Score       int      `json:"score"` // 0-100
}

// ResumeAnalysis is the scored, sectioned feedback produced for one résumé text.
type ResumeAnalysis struct {
	OverallScore       int             `json:"overallScore"` // 0-100
	Sections           []ResumeSection `json:"sections"`
	GeneralSuggestions []string        `json:"generalSuggestions"`
}

// AllSuggestions returns every suggestion in presentation order, section
// suggestions first, without duplicates.
func (a ResumeAnalysis) AllSuggestions() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, section := range a.Sections {
		for _, s := range section.Suggestions {
			add(s)
		}
	}
	for _, s := range a.GeneralSuggestions {
		add(s)
	}
	return out
}

// ResultSource records which path produced a result.
type ResultSource string

const (
	SourceAI    ResultSource = "ai"
	SourceMock  ResultSource = "mock"
	SourceRules ResultSource = "rules"
)

// AnalyzeResumeInput represents the input for analyzing a résumé
type AnalyzeResumeInput struct {
	ResumeText string `json:"resumeText" validate:"required"`
}

// Validate checks the input fields.
func (i *AnalyzeResumeInput) Validate() error {
	return validate.Struct(i)
}

// AnalyzeResumeOutput wraps an analysis with the path that produced it.
type AnalyzeResumeOutput struct {
	Analysis ResumeAnalysis `json:"analysis"`
	Source   ResultSource   `json:"source"`
}

// EnhanceResumeInput represents the input for rewriting a résumé
type EnhanceResumeInput struct {
	OriginalResume string   `json:"originalResume" validate:"required"`
	Suggestions    []string `json:"suggestions" validate:"omitempty,dive,required"`
}

// Validate checks the input fields.
func (i *EnhanceResumeInput) Validate() error {
	return validate.Struct(i)
}

// EnhanceResumeOutput represents the rewritten résumé
type EnhanceResumeOutput struct {
	EnhancedResume string       `json:"enhancedResume"`
	Source         ResultSource `json:"source"`
}

// ExtractResult is the text pulled out of an uploaded document plus the
// sections found in it, keyed by section key.
type ExtractResult struct {
	FullText string            `json:"full_text"`
	Sections map[string]string `json:"sections"`
}

// ExtractResumeOutput is an ExtractResult plus, when requested, the text
// rebuilt in canonical section order.
type ExtractResumeOutput struct {
	ExtractResult
	CanonicalText string `json:"canonical_text,omitempty"`
}
