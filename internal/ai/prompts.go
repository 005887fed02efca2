package ai

import (
	"fmt"
	"strings"

	"resumelift/internal/config"
)

// Default prompts. User templates take the résumé text as the first %s;
// the enhance template takes the bulleted suggestion list as the second.
const (
	DefaultAnalyzeSystemPrompt = `You are an expert AI resume analyzer. You review resumes for ATS optimization, clarity, impact, and formatting, and you always answer with a single JSON object.`

	DefaultAnalyzeUserPrompt = `Please analyze the following resume and provide detailed feedback:

RESUME:
%s

Please format your response as a JSON object with the following structure:
{
  "overallScore": number from 0-100,
  "sections": [
    {
      "name": "Section Name (e.g., Contact Information, Professional Summary, Work Experience, Education, Skills)",
      "content": "extracted content for this section",
      "suggestions": ["suggestion 1", "suggestion 2", "suggestion 3"],
      "score": number from 0-100
    }
  ],
  "generalSuggestions": ["general suggestion 1", "general suggestion 2", "general suggestion 3"]
}

Please provide specific, actionable suggestions for improvement. Focus on ATS optimization, clarity, impact, and formatting.
Identify at least 3 suggestions for each section. Score each section based on its completeness, clarity, and impact.`

	DefaultEnhanceSystemPrompt = `You are an expert AI resume enhancer. You make targeted improvements to an existing resume and never invent new sections or experience.`

	DefaultEnhanceUserPrompt = `I have a resume that needs to be improved based on specific suggestions.

ORIGINAL RESUME:
%s

SUGGESTIONS TO IMPLEMENT:
%s

Please improve the resume by implementing ONLY these suggestions. Maintain the original structure and sections of the resume, but make specific improvements based on each suggestion.

For each suggestion, make targeted changes to relevant parts of the resume. Do not add completely new sections or drastically change the content beyond what is needed to implement the suggestions.

Return the complete improved resume text.`
)

// PromptResolver picks the prompts for one operation. It is consulted on
// every call so prompt files reloaded by the watcher take effect at once.
// A nil resolver yields the built-in defaults.
type PromptResolver struct {
	operation string
	custom    config.PromptConfig
	store     *config.PromptStore
}

// NewPromptResolver creates a resolver from a defaulted operation config
func NewPromptResolver(operation string, cfg config.OperationAIConfig) *PromptResolver {
	return &PromptResolver{
		operation: operation,
		custom:    cfg.CustomPrompts,
		store:     cfg.Prompts,
	}
}

// SystemPrompt returns the system prompt for operation
func (r *PromptResolver) SystemPrompt(operation string) string {
	var loaded, inline string
	if r != nil && r.operation == operation {
		loaded = r.store.Get(operation, config.PromptRoleSystem)
		inline, _ = r.custom.SystemPrompts.ForOperation(operation)
	}
	return resolvePrompt(loaded, inline, defaultSystemPrompt(operation))
}

// UserTemplate returns the user prompt template for operation
func (r *PromptResolver) UserTemplate(operation string) string {
	var loaded, inline string
	if r != nil && r.operation == operation {
		loaded = r.store.Get(operation, config.PromptRoleUser)
		inline, _ = r.custom.UserPrompts.ForOperation(operation)
	}
	return resolvePrompt(loaded, inline, defaultUserPrompt(operation))
}

func defaultSystemPrompt(operation string) string {
	switch operation {
	case config.OperationAnalyze:
		return DefaultAnalyzeSystemPrompt
	case config.OperationEnhance:
		return DefaultEnhanceSystemPrompt
	default:
		return ""
	}
}

func defaultUserPrompt(operation string) string {
	switch operation {
	case config.OperationAnalyze:
		return DefaultAnalyzeUserPrompt
	case config.OperationEnhance:
		return DefaultEnhanceUserPrompt
	default:
		return ""
	}
}

// resolvePrompt selects a prompt by priority: file, then config, then default
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

// BuildAnalyzePrompts returns the system and user prompts for analysing resumeText
func (r *PromptResolver) BuildAnalyzePrompts(resumeText string) (string, string) {
	return r.SystemPrompt(config.OperationAnalyze),
		fmt.Sprintf(r.UserTemplate(config.OperationAnalyze), resumeText)
}

// BuildEnhancePrompts returns the system and user prompts for rewriting
// originalResume with suggestions
func (r *PromptResolver) BuildEnhancePrompts(originalResume string, suggestions []string) (string, string) {
	bullets := make([]string, len(suggestions))
	for i, s := range suggestions {
		bullets[i] = "- " + s
	}
	return r.SystemPrompt(config.OperationEnhance),
		fmt.Sprintf(r.UserTemplate(config.OperationEnhance), originalResume, strings.Join(bullets, "\n"))
}
