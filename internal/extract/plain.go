package extract

import (
	"errors"
	"unicode/utf8"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
)

// extractPlain returns content verbatim as UTF-8 text. Content that is not
// valid UTF-8 is an encoding error, reported as an ExtractionError.
func extractPlain(content []byte) (*Result, error) {
	if !utf8.Valid(content) {
		return nil, apperrors.NewExtraction(errors.New("content is not valid UTF-8"))
	}
	return &Result{
		Text:   string(content),
		Format: FormatPlainText,
	}, nil
}
