// Package analysis provides prompt assembly, text chunking, and parsing of
// model output into structured evaluation data.
package analysis

import (
	"fmt"

	"github.com/amodvardhan/ai-hub/internal/apperrors"
)

// Default chunk parameters, sized for a language-model context budget.
const (
	DefaultChunkSize    = 4000
	DefaultChunkOverlap = 200
)

// Chunk splits text into overlapping character windows: each chunk covers
// [start, start+chunkSize) and start advances by chunkSize-overlap. The result
// is a pure function of its inputs; the last chunk may be shorter than
// chunkSize. Windows are measured in runes so a chunk boundary never splits a
// UTF-8 sequence.
//
// chunkSize <= 0, overlap < 0, or overlap >= chunkSize (which would never
// advance) are rejected with ErrInvalidChunkConfig.
func Chunk(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d must be positive", apperrors.ErrInvalidChunkConfig, chunkSize)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap %d must not be negative", apperrors.ErrInvalidChunkConfig, overlap)
	}
	if overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", apperrors.ErrInvalidChunkConfig, overlap, chunkSize)
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}

	step := chunkSize - overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}

// Truncate returns at most maxChars leading characters of text, measured in
// runes. Used to fit document text under the completion provider's input
// ceiling.
func Truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
