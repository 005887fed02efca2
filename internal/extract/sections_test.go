package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResume = `Jane Smith
jane@example.com | +1 555 0100
San Francisco, CA

SUMMARY
Platform engineer focused on reliability.

EXPERIENCE
Acme Corp - Senior Engineer
- Built deployment tooling with Go

EDUCATION
BSc Computer Science

Skills:
Go, Kubernetes, PostgreSQL

Side Project: Tracker (React)
- Open source issue tracker`

func TestSplitSections(t *testing.T) {
	got := SplitSections(sampleResume)

	assert.Equal(t, map[string]string{
		SectionContact:    "Jane Smith\njane@example.com | +1 555 0100\nSan Francisco, CA",
		SectionSummary:    "Platform engineer focused on reliability.",
		SectionExperience: "Acme Corp - Senior Engineer\n- Built deployment tooling with Go",
		SectionEducation:  "BSc Computer Science",
		SectionSkills:     "Go, Kubernetes, PostgreSQL",
		SectionProjects:   "Side Project: Tracker (React)\n- Open source issue tracker",
	}, got)
}

func TestSplitSectionsHeadingStyles(t *testing.T) {
	text := "Jane Smith\n\n# Experience\nEngineer at Acme\n- Key skills used daily\nGo and SQL"

	got := SplitSections(text)

	assert.Equal(t, "Jane Smith", got[SectionContact])
	assert.Equal(t, "Engineer at Acme", got[SectionExperience])
	assert.Equal(t, "- Key skills used daily\nGo and SQL", got[SectionSkills], "bullet headings keep their own line")
	assert.NotContains(t, got, SectionUnsorted)
}

func TestSplitSectionsContactStopsAtHeading(t *testing.T) {
	text := "Jane Smith\njane@example.com\nSUMMARY\nBackend engineer"

	got := SplitSections(text)

	assert.Equal(t, "Jane Smith\njane@example.com", got[SectionContact])
	assert.Equal(t, "Backend engineer", got[SectionSummary])
}

func TestSplitSectionsContactCap(t *testing.T) {
	text := "Jane Smith\nBerlin\nGermany\nRemote\nOpen to relocation\nAvailable in May\njane@example.com"

	got := SplitSections(text)

	assert.Equal(t, "Jane Smith\nBerlin\nGermany\nRemote\nOpen to relocation", got[SectionContact])
	assert.Equal(t, "Available in May\njane@example.com", got[SectionUnsorted])
}

func TestSplitSectionsBackfillsProjects(t *testing.T) {
	text := `Jane Smith
jane@example.com

EXPERIENCE
Maintained CI pipelines
Built a React dashboard for ops
On-call rotation lead`

	got := SplitSections(text)

	assert.Equal(t, "Maintained CI pipelines\nBuilt a React dashboard for ops\nOn-call rotation lead", got[SectionExperience])
	assert.Equal(t, "Built a React dashboard for ops\nOn-call rotation lead", got[SectionProjects])
}

func TestSplitSectionsEmpty(t *testing.T) {
	assert.Empty(t, SplitSections(""))
	assert.Empty(t, SplitSections("\n\n  \n"))
}

func TestIsUpper(t *testing.T) {
	assert.True(t, isUpper("EXPERIENCE"))
	assert.True(t, isUpper("WORK HISTORY:"))
	assert.False(t, isUpper("Experience"))
	assert.False(t, isUpper("2019 - 2023"))
}
