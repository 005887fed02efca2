package common

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumelift/internal/errors"
	"resumelift/internal/extract"
	"resumelift/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger  *errors.Logger
	maxSize int64
}

// NewFileProcessor creates a new file processor instance. Input files larger
// than maxSize bytes are rejected; zero means no limit.
func NewFileProcessor(logger *errors.Logger, maxSize int64) *FileProcessor {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &FileProcessor{logger: logger, maxSize: maxSize}
}

// ReadBytes reads a file with proper error handling
func (fp *FileProcessor) ReadBytes(filename string) ([]byte, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fp.logger.Warn("Failed to close file", "filename", filename, "error", err)
		}
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}

	return content, nil
}

// ReadFile reads a file as text
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	content, err := fp.ReadBytes(filename)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// ReadResume returns the résumé text in filename. Plain text files are read
// as-is; PDF, DOCX and HTML files go through document extraction.
func (fp *FileProcessor) ReadResume(ctx context.Context, filename string) (string, error) {
	if utils.IsTextFile(filename) {
		return fp.ReadFile(filename)
	}

	if _, err := extract.DetectFormat(filename); err != nil {
		fp.logger.Warn("File may not be a text file", "filename", filename)
		return fp.ReadFile(filename)
	}

	data, err := fp.ReadBytes(filename)
	if err != nil {
		return "", err
	}

	result, err := extract.Extract(ctx, filename, data)
	if err != nil {
		return "", err
	}
	fp.logger.Debug("Extracted resume text from document",
		"filename", filename,
		"text_length", len(result.FullText))
	return result.FullText, nil
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewIOError("DIRECTORY_CREATE_FAILED",
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateAndReadFiles validates each input file and returns the résumé text
// of each, in argument order.
func (fp *FileProcessor) ValidateAndReadFiles(ctx context.Context, filenames ...string) ([]string, error) {
	contents := make([]string, len(filenames))

	for i, filename := range filenames {
		if err := fp.ValidateInputFile(filename); err != nil {
			return nil, err
		}

		content, err := fp.ReadResume(ctx, filename)
		if err != nil {
			return nil, err
		}

		contents[i] = content
	}

	return contents, nil
}

// ValidateInputFile checks that filename exists, is readable and within the size limit
func (fp *FileProcessor) ValidateInputFile(filename string) error {
	if err := utils.ValidateInputFile(filename, fp.maxSize); err != nil {
		return errors.NewValidationError("INVALID_INPUT_FILE",
			fmt.Sprintf("Invalid file %s", filename), err).
			WithContext("filename", filename)
	}
	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError("INVALID_OUTPUT_FILE",
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
