package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
)

// infoKeys are the PDF Info dictionary entries surfaced as document metadata.
var infoKeys = []string{"Title", "Author", "Subject", "Creator", "Producer"}

// extractPDF decodes each page independently and joins page texts with a blank
// line. Per-page texts are reported in Units so callers can keep page counts
// and page-level references.
func extractPDF(content []byte) (*Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, apperrors.NewExtraction(fmt.Errorf("open PDF: %w", err))
	}

	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, apperrors.NewExtraction(fmt.Errorf("extract page %d: %w", i, err))
		}
		pages = append(pages, text)
	}

	return &Result{
		Text:     strings.Join(pages, "\n\n"),
		Units:    pages,
		Format:   FormatPDF,
		Metadata: pdfInfo(r),
	}, nil
}

// pdfInfo pulls string entries from the document's Info dictionary, if any.
func pdfInfo(r *pdf.Reader) map[string]string {
	info := r.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return nil
	}
	meta := make(map[string]string)
	for _, key := range infoKeys {
		v := info.Key(key)
		if v.Kind() == pdf.String {
			meta[key] = v.Text()
		}
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}
