package masterblog

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyFields is returned when a post is submitted without a title or content.
	ErrEmptyFields = errors.New("masterblog: title and content are required")

	// ErrCanceled is returned when the user dismisses a prompt.
	ErrCanceled = errors.New("masterblog: canceled")
)

// APIError is a non-2xx response from the posts API.
type APIError struct {
	StatusCode int
	// Message is the "error" field of the response body, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// ServerMessage returns the server-provided error message carried by err,
// or fallback when there is none.
func ServerMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
