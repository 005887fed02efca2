package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleResume = "Jane Doe\n" +
	"Contact Information\n" +
	"jane@example.com\n" +
	"(555) 123-4567\n" +
	"\n" +
	"Summary\n" +
	"Seasoned engineer.\n" +
	"\n" +
	"Experience\n" +
	"- Developed APIs\n" +
	"- Led team\n" +
	"\n" +
	"Education\n" +
	"BSc Computer Science\n" +
	"\n" +
	"Skills\n" +
	"Go, Python"

func TestExtractSection(t *testing.T) {
	tests := []struct {
		name        string
		sectionName string
		expected    string
	}{
		{"contact key", "contact", "jane@example.com\n(555) 123-4567"},
		{"contact label", "Contact Information", "jane@example.com\n(555) 123-4567"},
		{"summary label", "Professional Summary", "Seasoned engineer."},
		{"experience label", "Work Experience", "- Developed APIs\n- Led team"},
		{"education", "education", "BSc Computer Science"},
		{"skills label", "Technical Skills", "Go, Python"},
		{"unknown section", "Awards", ""},
		{"empty section name", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractSection(sampleResume, tt.sectionName))
		})
	}
}

func TestExtractSectionEmptyText(t *testing.T) {
	for _, key := range []string{SectionContact, SectionSummary, SectionExperience, SectionEducation, SectionSkills} {
		assert.Empty(t, ExtractSection("", key), key)
	}
}

func TestExtractSectionWithoutExperienceHeading(t *testing.T) {
	texts := []string{
		"Jane Doe\njane@example.com\n\nSkills\nGo, Python",
		"Education\nBSc Physics\n\nSkills\nFortran",
		"just a single line",
		"\n\n\n",
	}

	for _, text := range texts {
		assert.NotPanics(t, func() {
			assert.Empty(t, ExtractSection(text, "experience"), text)
		})
	}
}

func TestSectionKey(t *testing.T) {
	tests := map[string]string{
		"Contact Information":  SectionContact,
		"Professional Summary": SectionSummary,
		"Work Experience":      SectionExperience,
		"EDUCATION":            SectionEducation,
		"Skills":               SectionSkills,
		"Projects":             "",
	}

	for name, expected := range tests {
		assert.Equal(t, expected, SectionKey(name), name)
	}
}
