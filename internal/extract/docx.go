package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
)

// docxDocumentXMLPath is the default path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// contentTypesPath is the path to [Content_Types].xml in OOXML packages.
const contentTypesPath = "[Content_Types].xml"

// docxMainContentType is the content type for the main document in DOCX files.
const docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

// wpTag matches one paragraph block, including <w:p> with attributes
// (e.g. <w:p w:rsidR="...">). Self-closing paragraphs carry no text and are
// not matched.
var wpTag = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)

// wtTag matches <w:t>text</w:t> or <w:t xml:space="preserve">text</w:t> (and any other attributes).
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// partNameRe extracts PartName from Override elements in [Content_Types].xml.
var partNameRe = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)

// partNameRe2 handles the case where ContentType appears before PartName.
var partNameRe2 = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)

// xmlEntities undoes the predefined XML entity escapes in text runs.
var xmlEntities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// findMainDocumentPath finds the main document path from [Content_Types].xml.
// Returns the path without leading slash, or empty string if not found.
func findMainDocumentPath(zr *zip.Reader) string {
	for _, f := range zr.File {
		if f.Name != contentTypesPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ""
		}
		data, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return ""
		}
		content := string(data)
		// Try both attribute orders
		if matches := partNameRe.FindStringSubmatch(content); len(matches) > 1 {
			return strings.TrimPrefix(matches[1], "/")
		}
		if matches := partNameRe2.FindStringSubmatch(content); len(matches) > 1 {
			return strings.TrimPrefix(matches[1], "/")
		}
		return ""
	}
	return ""
}

// extractWordDoc extracts paragraph text from .docx bytes. DOCX is a ZIP
// containing word/document.xml (OOXML). Each <w:p> block becomes one
// paragraph by concatenating its <w:t> runs; paragraphs that are empty after
// trimming are discarded, and the rest are joined with a blank line. Units
// holds the retained paragraphs.
func extractWordDoc(content []byte) (*Result, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, apperrors.NewExtraction(fmt.Errorf("extract DOCX: not a zip: %w", err))
	}

	// Find main document path from [Content_Types].xml, fall back to default
	docPath := findMainDocumentPath(zr)
	if docPath == "" {
		docPath = docxDocumentXMLPath
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != docPath {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, apperrors.NewExtraction(fmt.Errorf("extract DOCX: open %s: %w", f.Name, err))
		}
		docXML, err = io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, apperrors.NewExtraction(fmt.Errorf("extract DOCX: read %s: %w", f.Name, err))
		}
		break
	}
	if docXML == nil {
		return nil, apperrors.NewExtraction(fmt.Errorf("extract DOCX: %s not found", docPath))
	}

	var paragraphs []string
	for _, block := range wpTag.FindAllString(string(docXML), -1) {
		runs := wtTag.FindAllStringSubmatch(block, -1)
		var b strings.Builder
		for _, run := range runs {
			b.WriteString(xmlEntities.Replace(run[1]))
		}
		if p := strings.TrimSpace(b.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	return &Result{
		Text:   strings.Join(paragraphs, "\n\n"),
		Units:  paragraphs,
		Format: FormatWordDoc,
	}, nil
}
