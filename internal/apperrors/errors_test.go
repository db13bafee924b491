package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("document"), http.StatusNotFound},
		{"validation", NewValidation("document text not available"), http.StatusUnprocessableEntity},
		{"unsupported format", &UnsupportedFormatError{Ext: ".pptx"}, http.StatusBadRequest},
		{"extraction", NewExtraction(errors.New("bad xref")), http.StatusUnprocessableEntity},
		{"completion", &CompletionError{Retryable: true, Err: errors.New("rate limited")}, http.StatusBadGateway},
		{"wrapped extraction", fmt.Errorf("process: %w", NewExtraction(errors.New("truncated"))), http.StatusUnprocessableEntity},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
