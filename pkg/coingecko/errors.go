package coingecko

import "fmt"

// APIError describes a failed upstream call. Status carries the upstream HTTP
// status when one was received, or 502 for transport-level failures.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, format string, args ...interface{}) *APIError {
	return &APIError{Status: status, Message: fmt.Sprintf(format, args...)}
}
