// Package extract turns resume files into plain text for matching.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnsupportedFormat is returned for formats that need OCR or a legacy
// binary parser, such as .doc files and scanned images.
var ErrUnsupportedFormat = errors.New("unsupported resume format")

var unsupported = map[string]struct{}{
	".doc": {}, ".rtf": {}, ".png": {}, ".jpg": {}, ".jpeg": {},
	".gif": {}, ".bmp": {}, ".tif": {}, ".tiff": {}, ".webp": {},
}

// Extractor extracts plain text from resume files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether ext (with leading dot) can be extracted.
func (e *Extractor) Supported(ext string) bool {
	_, bad := unsupported[strings.ToLower(ext)]
	return !bad
}

// Extract reads the file at path and returns its cleaned text.
func (e *Extractor) Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !e.Supported(ext) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). Unknown extensions are
// read as plain text.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	ext = strings.ToLower(ext)
	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(content)
	case ".docx":
		text, err = extractDOCX(content)
	case ".odt":
		text, err = extractODT(content)
	case ".xlsx":
		text, err = extractExcel(content)
	default:
		if !e.Supported(ext) {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
		}
		text, err = extractPlain(content)
	}
	if err != nil {
		return "", err
	}
	return Clean(text), nil
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// Clean normalizes line endings, collapses runs of spaces and blank lines,
// and trims each line.
func Clean(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = horizontalSpace.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}
