// Package extract turns uploaded résumé documents into plain text and
// splits that text into sections.
package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"resumelift/internal/config"
	"resumelift/internal/errors"
	"resumelift/internal/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format is a supported document format
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

var formatsByExtension = map[string]Format{
	".pdf":  FormatPDF,
	".docx": FormatDOCX,
	".html": FormatHTML,
	".htm":  FormatHTML,
	".txt":  FormatText,
	".md":   FormatText,
}

// DetectFormat maps a file name onto a supported format by extension
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if format, ok := formatsByExtension[ext]; ok {
		return format, nil
	}
	return "", errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
		fmt.Sprintf("Unsupported document type: %q", ext), nil).
		WithContext("filename", filename)
}

// Extract converts data to text according to the file extension of
// filename and splits the text into sections.
func Extract(ctx context.Context, filename string, data []byte) (types.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return types.ExtractResult{}, err
	}
	if len(data) == 0 {
		return types.ExtractResult{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"Uploaded document is empty", nil).WithContext("filename", filename)
	}

	format, err := DetectFormat(filename)
	if err != nil {
		return types.ExtractResult{}, err
	}

	text, err := Text(format, data)
	if err != nil {
		return types.ExtractResult{}, errors.NewIOError(errors.ErrCodeExtractionFailed,
			fmt.Sprintf("Failed to extract text from %s document", format), err).
			WithContext("filename", filename)
	}

	return types.ExtractResult{
		FullText: text,
		Sections: SplitSections(text),
	}, nil
}

// Text converts a document of the given format to plain text
func Text(format Format, data []byte) (string, error) {
	switch format {
	case FormatPDF:
		return PDFText(data)
	case FormatDOCX:
		return DOCXText(data)
	case FormatHTML:
		return HTMLText(data)
	case FormatText:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("text document is not valid UTF-8")
		}
		return normalizeNewlines(string(data)), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// PDFText extracts the text of every page; pages are separated by a blank line.
func PDFText(data []byte) (text string, err error) {
	// The PDF reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to read pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", i, err)
		}
		pages = append(pages, strings.TrimRight(pageText, "\n"))
	}

	return normalizeNewlines(strings.Join(pages, "\n\n")), nil
}

// DOCXText extracts paragraph text from a Word document, one paragraph per line.
func DOCXText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return paragraphText(doc.Editable().GetContent())
}

// paragraphText flattens WordprocessingML, ending a line at every paragraph
// and break and turning tabs into spaces.
func paragraphText(documentXML string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(documentXML))
	var sb strings.Builder

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to decode document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tab" {
				sb.WriteString(" ")
			}
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				sb.WriteString("\n")
			}
		}
	}

	return normalizeNewlines(sb.String()), nil
}

const htmlBlockElements = "p, div, section, article, header, footer, li, tr, h1, h2, h3, h4, h5, h6, pre, blockquote"

// HTMLText extracts visible text from an HTML résumé, one block element per
// line. List items become "- " bullets.
func HTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").PrependHtml("- ")
	doc.Find(htmlBlockElements).AppendHtml("\n")

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	lines := strings.Split(root.Text(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		kept = append(kept, strings.Join(strings.Fields(line), " "))
	}
	return normalizeNewlines(strings.Join(kept, "\n")), nil
}

// normalizeNewlines converts CRLF to LF, trims trailing spaces, collapses
// runs of blank lines to one and trims the ends.
func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// Extractor applies upload limits around Extract
type Extractor struct {
	maxSize    int64
	extensions []string
	logger     *errors.Logger
}

// NewExtractor creates an Extractor from config
func NewExtractor(cfg config.ExtractConfig, logger *errors.Logger) *Extractor {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	extensions := make([]string, 0, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		extensions = append(extensions, strings.ToLower(ext))
	}
	return &Extractor{
		maxSize:    cfg.MaxUploadSize,
		extensions: extensions,
		logger:     logger,
	}
}

// MaxSize returns the upload limit in bytes; zero means unlimited
func (e *Extractor) MaxSize() int64 {
	return e.maxSize
}

// Extract checks the size and extension of the upload, then extracts it
func (e *Extractor) Extract(ctx context.Context, filename string, data []byte) (types.ExtractResult, error) {
	if e.maxSize > 0 && int64(len(data)) > e.maxSize {
		return types.ExtractResult{}, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("Document exceeds maximum size of %d bytes", e.maxSize), nil).
			WithContext("size", len(data))
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if len(e.extensions) > 0 && !slices.Contains(e.extensions, ext) {
		return types.ExtractResult{}, errors.NewValidationError(errors.ErrCodeUnsupportedDocument,
			fmt.Sprintf("Document type %q is not allowed", ext), nil).
			WithContext("filename", filename)
	}

	result, err := Extract(ctx, filename, data)
	if err != nil {
		e.logger.LogError(err, "Document extraction failed", "filename", filename)
		return result, err
	}

	e.logger.Debug("Document extracted",
		"filename", filename,
		"bytes", len(data),
		"text_length", len(result.FullText),
		"sections", len(result.Sections))
	return result, nil
}
