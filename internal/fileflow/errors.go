package fileflow

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSession is returned when a client is used without an access token.
var ErrNoSession = errors.New("no session available, please login")

// APIError is the error object of a failed envelope (success=false).
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend error %d", e.Code)
	}
	return fmt.Sprintf("backend error %d: %s", e.Code, e.Message)
}

// StatusError is returned when the backend answers with an unexpected status
// and no envelope.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err means the access token was rejected.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrNoSession) || StatusCode(err) == http.StatusUnauthorized
}

// IsNotFoundError returns true if the error indicates a 404 Not Found response.
func IsNotFoundError(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// Message returns a message suitable for showing to the user.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "the FileFlow service is unavailable, please try again"
}
