// Package apperrors defines the typed error taxonomy shared across the service.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// NotFoundError indicates a record that does not exist or is not owned by the caller.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFound returns a NotFoundError for the given resource name.
func NewNotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// ValidationError indicates a precondition that the caller's request does not meet,
// e.g. analyzing an evaluation whose document has no extracted text.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation returns a ValidationError with the given message.
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// UnsupportedFormatError indicates an upload with a file extension no extractor handles.
type UnsupportedFormatError struct {
	Ext string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format: %s", e.Ext)
}

// ExtractionError indicates a decode failure while extracting text from a document.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("text extraction failed: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NewExtraction wraps err as an ExtractionError.
func NewExtraction(err error) error {
	return &ExtractionError{Err: err}
}

// CompletionError indicates a failure at the AI provider boundary. Retryable
// distinguishes transient failures (rate limit, 5xx, network, timeout) from
// permanent ones (auth, invalid request); retry policy belongs to the caller.
type CompletionError struct {
	Retryable bool
	Err       error
}

func (e *CompletionError) Error() string {
	kind := "permanent"
	if e.Retryable {
		kind = "retryable"
	}
	return fmt.Sprintf("completion failed (%s): %v", kind, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// ErrInvalidChunkConfig is returned for chunk parameters that can never terminate
// (overlap >= size) or are nonsensical (size <= 0, overlap < 0).
var ErrInvalidChunkConfig = errors.New("invalid chunk config")

// HTTPStatus maps an error to the status code the API layer should respond with.
func HTTPStatus(err error) int {
	var (
		notFound    *NotFoundError
		validation  *ValidationError
		unsupported *UnsupportedFormatError
		extraction  *ExtractionError
		completion  *CompletionError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &extraction):
		// An undecodable upload is the caller's document, not a server fault.
		return http.StatusUnprocessableEntity
	case errors.As(err, &completion):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
