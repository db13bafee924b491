// Package extract provides text extraction from uploaded document formats.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
)

// Format identifies a supported document format. The set is closed: dispatch
// happens on this enum, so an unsupported extension is rejected before any
// decoding starts.
type Format int

const (
	FormatPDF Format = iota
	FormatWordDoc
	FormatPlainText
)

// String returns the format tag persisted alongside extracted text.
func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatWordDoc:
		return "docx"
	case FormatPlainText:
		return "txt"
	default:
		return "unknown"
	}
}

// FormatForExt maps a file extension (with leading dot, any case) to a Format.
// Returns an UnsupportedFormatError for anything outside the closed set.
func FormatForExt(ext string) (Format, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx", ".doc":
		return FormatWordDoc, nil
	case ".txt":
		return FormatPlainText, nil
	default:
		return 0, &apperrors.UnsupportedFormatError{Ext: ext}
	}
}

// Result is the outcome of extracting one document.
// Units holds per-page texts for PDF and retained paragraphs for Word
// documents; it is nil for plain text. Text is the blank-line join of Units
// for structured formats and the verbatim content for plain text.
type Result struct {
	Text     string
	Units    []string
	Format   Format
	Metadata map[string]string
}

// Extractor extracts plain text from document files. Extraction is pure with
// respect to the file content: the same bytes always produce the same Result.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and extracts its text, dispatching on the
// path's extension.
func (e *Extractor) Extract(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). Decode failures are
// returned as ExtractionError with the underlying cause; no partial result
// is produced.
func (e *Extractor) ExtractBytes(content []byte, ext string) (*Result, error) {
	format, err := FormatForExt(ext)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatPDF:
		return extractPDF(content)
	case FormatWordDoc:
		return extractWordDoc(content)
	case FormatPlainText:
		return extractPlain(content)
	default:
		return nil, &apperrors.UnsupportedFormatError{Ext: ext}
	}
}
