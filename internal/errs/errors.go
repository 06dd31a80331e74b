// Package errs defines the client-facing error type shared by services and
// the HTTP layer.
package errs

import (
	"errors"
	"fmt"
	"net/http"

	"coinhealth-api/pkg/coingecko"
)

// HTTPError is an error that maps directly onto an HTTP response. It is used
// for bad client input; upstream failures keep their own type.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// BadRequest builds a 400 error.
func BadRequest(format string, args ...interface{}) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *HTTPError {
	return &HTTPError{Status: http.StatusUnauthorized, Message: message}
}

// Classify resolves any error into an HTTP status and client-safe message.
// Upstream errors keep the upstream status; everything else is a 500.
func Classify(err error) (int, string) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status, httpErr.Message
	}
	var apiErr *coingecko.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status, apiErr.Message
	}
	return http.StatusInternalServerError, err.Error()
}
