package resume

import (
	"fmt"
	"strings"
)

// Kind identifies which rewrite rule a suggestion maps to.
type Kind int

const (
	KindUnknown Kind = iota
	KindLinkedIn
	KindQuantify
	KindActionVerbs
	KindResults
	KindKeywords
)

// Canonical suggestion texts, as produced by the fallback analysis.
const (
	SuggestionLinkedIn    = "Add your LinkedIn profile URL"
	SuggestionQuantify    = "Quantify your achievements with numbers"
	SuggestionActionVerbs = "Use action verbs to start each bullet point"
	SuggestionResults     = "Focus more on results rather than responsibilities"
	SuggestionKeywords    = "Include relevant keywords from the job description"
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindLinkedIn:    "linkedin",
	KindQuantify:    "quantify",
	KindActionVerbs: "action_verbs",
	KindResults:     "results",
	KindKeywords:    "keywords",
}

var canonicalKinds = map[string]Kind{
	SuggestionLinkedIn:    KindLinkedIn,
	SuggestionQuantify:    KindQuantify,
	SuggestionActionVerbs: KindActionVerbs,
	SuggestionResults:     KindResults,
	SuggestionKeywords:    KindKeywords,
}

// keywordRules is checked in order; the first rule with a matching keyword wins.
var keywordRules = []struct {
	kind     Kind
	keywords []string
}{
	{KindLinkedIn, []string{"linkedin"}},
	{KindActionVerbs, []string{"action verb", "strong verb"}},
	{KindQuantify, []string{"quantif", "metric", "numbers"}},
	{KindKeywords, []string{"keyword"}},
	{KindResults, []string{"result", "impact", "outcome"}},
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown suggestion kind: %q", name)
}

// Canonical returns the canonical suggestion text for k, or "" for KindUnknown.
func (k Kind) Canonical() string {
	for text, kind := range canonicalKinds {
		if kind == k {
			return text
		}
	}
	return ""
}

// Classify maps free-form suggestion text onto a Kind. Canonical texts map
// exactly; anything else is matched by keyword.
func Classify(suggestion string) Kind {
	if kind, ok := canonicalKinds[suggestion]; ok {
		return kind
	}

	lower := strings.ToLower(suggestion)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.kind
			}
		}
	}
	return KindUnknown
}

// ClassifyAll classifies each suggestion, keeping order.
func ClassifyAll(suggestions []string) []Kind {
	kinds := make([]Kind, len(suggestions))
	for i, s := range suggestions {
		kinds[i] = Classify(s)
	}
	return kinds
}
