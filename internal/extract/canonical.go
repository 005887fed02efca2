package extract

import (
	"sort"
	"strings"

	"resumelift/internal/types"
)

// Sections written first by CanonicalText, each under a "# KEY" heading.
var canonicalOrder = []string{
	SectionSummary,
	SectionExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
}

// CanonicalText rebuilds the résumé in a fixed section order: contact,
// the sections in canonicalOrder, any other sections sorted by key, then
// unsorted text. It returns FullText when no section has content.
func CanonicalText(result types.ExtractResult) string {
	var blocks []string
	written := map[string]bool{SectionContact: true, SectionUnsorted: true}

	if contact := strings.TrimSpace(result.Sections[SectionContact]); contact != "" {
		blocks = append(blocks, contact)
	}

	addSection := func(key string) {
		written[key] = true
		body := strings.TrimSpace(result.Sections[key])
		if body == "" {
			return
		}
		blocks = append(blocks, "# "+strings.ToUpper(key)+"\n"+body)
	}

	for _, key := range canonicalOrder {
		addSection(key)
	}

	var others []string
	for key := range result.Sections {
		if !written[key] {
			others = append(others, key)
		}
	}
	sort.Strings(others)
	for _, key := range others {
		addSection(key)
	}

	if unsorted := strings.TrimSpace(result.Sections[SectionUnsorted]); unsorted != "" {
		blocks = append(blocks, unsorted)
	}

	if len(blocks) == 0 {
		return result.FullText
	}
	return strings.Join(blocks, "\n\n")
}
