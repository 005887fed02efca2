// Package resume holds the deterministic résumé logic: section extraction,
// the static fallback analysis and the rule-based rewriter.
package resume

import (
	"regexp"
	"strings"
)

// Section keys understood by ExtractSection.
const (
	SectionContact    = "contact"
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionEducation  = "education"
	SectionSkills     = "skills"
)

type sectionPattern struct {
	key     string
	pattern *regexp.Regexp
}

// Order matters: a section name is mapped to the first key it contains.
var sectionPatterns = []sectionPattern{
	{SectionContact, regexp.MustCompile(`(?i)(?:contact|personal|info).*?\n([\s\S]*?)(?:\n\n|\n[A-Z]|$)`)},
	{SectionSummary, regexp.MustCompile(`(?i)(?:summary|profile|objective).*?\n([\s\S]*?)(?:\n\n|\n[A-Z]|$)`)},
	{SectionExperience, regexp.MustCompile(`(?i)(?:experience|work|employment).*?\n([\s\S]*?)(?:\n\n(?:education|skills|projects|languages)|$)`)},
	{SectionEducation, regexp.MustCompile(`(?i)(?:education|academic|qualification).*?\n([\s\S]*?)(?:\n\n(?:skills|experience|projects|languages)|$)`)},
	{SectionSkills, regexp.MustCompile(`(?i)(?:skills|technologies|competencies).*?\n([\s\S]*?)(?:\n\n|\n[A-Z]|$)`)},
}

// SectionKey maps a free-form section name such as "Work Experience" onto
// one of the known section keys. It returns "" when nothing matches.
func SectionKey(sectionName string) string {
	name := strings.ToLower(sectionName)
	for _, sp := range sectionPatterns {
		if strings.Contains(name, sp.key) {
			return sp.key
		}
	}
	return ""
}

// ExtractSection returns the trimmed body of the named section of
// resumeText, or "" if the name is unknown or no heading matches.
func ExtractSection(resumeText, sectionName string) string {
	if resumeText == "" {
		return ""
	}

	key := SectionKey(sectionName)
	if key == "" {
		return ""
	}

	for _, sp := range sectionPatterns {
		if sp.key != key {
			continue
		}
		match := sp.pattern.FindStringSubmatch(resumeText)
		if len(match) < 2 {
			return ""
		}
		return strings.TrimSpace(match[1])
	}
	return ""
}
