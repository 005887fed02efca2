package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Section keys produced by SplitSections.
const (
	SectionContact        = "contact"
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionAwards         = "awards"
	SectionUnsorted       = "unsorted"
)

// Checked in order; the first section with a keyword in the heading wins.
var sectionKeywords = []struct {
	key      string
	keywords []string
}{
	{SectionContact, []string{"contact", "personal information", "personal info"}},
	{SectionSummary, []string{"summary", "profile", "objective", "professional summary"}},
	{SectionExperience, []string{"experience", "work experience", "employment", "work history"}},
	{SectionEducation, []string{"education", "academic", "qualifications", "training"}},
	{SectionSkills, []string{"skills", "competencies", "expertise", "technical skills"}},
	{SectionProjects, []string{"projects", "personal projects", "academic projects"}},
	{SectionCertifications, []string{"certifications", "certificates", "licenses"}},
	{SectionAwards, []string{"awards", "honors", "achievements"}},
}

const (
	contactScanLines    = 10
	contactMaxLines     = 5
	headingMaxRunes     = 50
	contactMarkersChars = "@+"
)

var (
	contactMarkers      = []string{"gmail", "email", "phone", "tel:", "linkedin", "github"}
	projectTitleTech    = []string{"python", "javascript", "java", "react", "node", "django"}
	projectBackfillTech = []string{"react", "angular", "vue", "django", "flask"}
	headingPrefixes     = []string{"#", "-", "*", "•"}
)

// SplitSections assigns the lines of a résumé to sections:
//
//   - contact is the first run of non-blank lines within the first ten,
//     capped at five lines unless a line carries an email, phone or profile
//     marker;
//   - a short line that is upper case, ends in ':' or starts with a bullet
//     or '#' opens the section whose keyword it contains;
//   - a line mentioning a project together with a technology opens projects;
//   - lines before any heading go to "unsorted".
//
// When no projects heading is found, a project block is recovered from the
// experience and unsorted text. Empty sections are omitted.
func SplitSections(text string) map[string]string {
	lines := strings.Split(text, "\n")
	sections := make(map[string][]string)

	contact, next := contactBlock(lines)
	if len(contact) > 0 {
		sections[SectionContact] = contact
	}

	current := SectionUnsorted
	for _, raw := range lines[next:] {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)

		matched := ""
		if isHeading(line) {
			matched = matchSectionKeyword(lower)
		}
		if matched == "" && isProjectTitle(line, lower) {
			matched = SectionProjects
		}

		if matched == "" {
			sections[current] = append(sections[current], line)
			continue
		}

		current = matched
		if strings.HasPrefix(line, "#") || isUpper(line) || strings.HasSuffix(line, ":") {
			sections[current] = []string{}
		} else {
			sections[current] = []string{line}
		}
	}

	out := make(map[string]string, len(sections))
	for key, body := range sections {
		if joined := strings.TrimSpace(strings.Join(body, "\n")); joined != "" {
			out[key] = joined
		}
	}

	if out[SectionProjects] == "" {
		if projects := backfillProjects(out[SectionExperience] + "\n" + out[SectionUnsorted]); projects != "" {
			out[SectionProjects] = projects
		}
	}

	return out
}

// contactBlock returns the contact lines and the index of the first line
// after them.
func contactBlock(lines []string) ([]string, int) {
	limit := min(contactScanLines, len(lines))

	i := 0
	for i < limit && strings.TrimSpace(lines[i]) == "" {
		i++
	}

	var contact []string
	for ; i < limit; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			break
		}
		lower := strings.ToLower(line)
		if len(contact) > 0 && isHeading(line) && matchSectionKeyword(lower) != "" {
			break
		}
		marked := strings.ContainsAny(lower, contactMarkersChars) || containsAny(lower, contactMarkers)
		if !marked && len(contact) >= contactMaxLines {
			break
		}
		contact = append(contact, line)
	}

	if len(contact) == 0 {
		return nil, 0
	}
	return contact, i
}

func isHeading(line string) bool {
	if line == "" || utf8.RuneCountInString(line) >= headingMaxRunes {
		return false
	}
	if isUpper(line) || strings.HasSuffix(line, ":") {
		return true
	}
	for _, prefix := range headingPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func matchSectionKeyword(lower string) string {
	for _, sk := range sectionKeywords {
		if containsAny(lower, sk.keywords) {
			return sk.key
		}
	}
	return ""
}

func isProjectTitle(line, lower string) bool {
	if !strings.Contains(lower, "project") {
		return false
	}
	return strings.HasSuffix(line, ")") ||
		strings.Contains(lower, "tech stack:") ||
		containsAny(lower, projectTitleTech)
}

// backfillProjects collects lines from the first project mention onwards
func backfillProjects(text string) string {
	var project []string
	started := false

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "project") || containsTechWord(lower) {
			started = true
			project = append(project, line)
			continue
		}
		if started {
			project = append(project, line)
		}
	}

	return strings.TrimSpace(strings.Join(project, "\n"))
}

func containsTechWord(lower string) bool {
	for _, tech := range projectBackfillTech {
		if strings.Contains(lower, tech+" ") {
			return true
		}
	}
	return false
}

// isUpper reports whether s has at least one cased letter and no lower-case ones
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
