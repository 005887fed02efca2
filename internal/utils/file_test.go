package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	resume := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(resume, []byte("Jane Smith\nEngineer\n"), 0600))

	assert.NoError(t, ValidateInputFile(resume, 0))
	assert.NoError(t, ValidateInputFile(resume, 1024))

	err := ValidateInputFile(resume, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than the 4 B limit")

	assert.ErrorContains(t, ValidateInputFile("", 0), "filename cannot be empty")
	assert.ErrorContains(t, ValidateInputFile(filepath.Join(dir, "missing.txt"), 0), "does not exist")
	assert.ErrorContains(t, ValidateInputFile(dir, 0), "is a directory")
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "out", "analysis.json")

	require.NoError(t, ValidateOutputFile(target))
	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, ValidateOutputFile(""))
}

func TestIsTextFile(t *testing.T) {
	assert.True(t, IsTextFile("resume.TXT"))
	assert.True(t, IsTextFile("notes/resume.md"))
	assert.False(t, IsTextFile("resume.pdf"))
	assert.False(t, IsTextFile("resume"))
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{10 * 1024 * 1024, "10.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.size))
	}
}
