package resume

import (
	"regexp"
	"strings"
)

const (
	linkedInPlaceholder = "\nLinkedIn: linkedin.com/in/your-profile"
	quantifyPhrase      = " resulting in 25% improvement in efficiency"
	actionVerb          = "Spearheaded"
	resultsClause       = ", which led to significant business impact."
	keywordList         = "Agile Methodology, CI/CD, Cloud Infrastructure, "
)

var (
	emailPattern        = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	quantifyPattern     = regexp.MustCompile(`(?i)- (Developed|Created|Built|Implemented|Led|Managed)([^0-9\n]*?)(\n|$)`)
	weakLeadInPattern   = regexp.MustCompile(`(?i)- (Was responsible for|Helped with|Worked on)([^\n]*?)(\n|$)`)
	skillsHeaderPattern = regexp.MustCompile(`(?i)(skills|technologies).*?\n`)
	resultMarkers       = []string{"which", "resulting", "leading to"}
)

// Rule rewrites résumé text. Rules never fail; text they do not target is
// returned unchanged.
type Rule func(text string) string

var rules = map[Kind]Rule{
	KindLinkedIn:    addLinkedIn,
	KindQuantify:    quantifyAchievements,
	KindActionVerbs: strengthenLeadIns,
	KindResults:     emphasizeResults,
	KindKeywords:    addKeywords,
}

// RuleFor returns the rule for kind, or nil for kinds without one.
func RuleFor(kind Kind) Rule {
	return rules[kind]
}

// ApplyRules classifies each suggestion and applies the matching rules in
// order. Each rule sees the output of the previous one.
func ApplyRules(originalResume string, suggestions []string) string {
	return ApplyKinds(originalResume, ClassifyAll(suggestions))
}

// ApplyKinds applies the rules for kinds in order over the evolving text.
func ApplyKinds(originalResume string, kinds []Kind) string {
	text := originalResume
	for _, kind := range kinds {
		if rule := rules[kind]; rule != nil {
			text = rule(text)
		}
	}
	return text
}

func addLinkedIn(text string) string {
	if strings.Contains(text, "linkedin.com") {
		return text
	}
	loc := emailPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[1]] + linkedInPlaceholder + text[loc[1]:]
}

func quantifyAchievements(text string) string {
	return quantifyPattern.ReplaceAllString(text, "- ${1}${2}"+quantifyPhrase+"${3}")
}

func strengthenLeadIns(text string) string {
	return weakLeadInPattern.ReplaceAllString(text, "- "+actionVerb+"${2}${3}")
}

// emphasizeResults works line by line so that only bullet lines change.
func emphasizeResults(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = emphasizeResultLine(line)
	}
	return strings.Join(lines, "\n")
}

func emphasizeResultLine(line string) string {
	if rest, ok := strings.CutSuffix(line, "\r"); ok {
		return emphasizeResultLine(rest) + "\r"
	}

	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "- ") {
		return line
	}

	indent := line[:len(line)-len(trimmed)]
	body := strings.TrimPrefix(trimmed, "- ")
	if strings.TrimSpace(body) == "" {
		return line
	}

	lower := strings.ToLower(body)
	for _, marker := range resultMarkers {
		if strings.Contains(lower, marker) {
			return line
		}
	}

	body = strings.TrimSuffix(body, ".")
	return indent + "- " + body + resultsClause
}

func addKeywords(text string) string {
	if strings.Contains(strings.ToLower(text), "agile") {
		return text
	}
	loc := skillsHeaderPattern.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[1]] + keywordList + text[loc[1]:]
}
