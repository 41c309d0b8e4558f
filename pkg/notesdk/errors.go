package notesdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired is returned when the session's refresh failed and the
// client was logged out. The caller must authenticate again.
var ErrSessionExpired = errors.New("notesdk: session expired")

// APIError is a non-2xx response from the service.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Message is the server's error message, when one was given.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notesdk: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("notesdk: HTTP %d: %s", e.StatusCode, e.Message)
}

// parseErrorResponse turns a non-2xx response body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var envelope ErrorResponse
	_ = json.Unmarshal(body, &envelope)

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    envelope.Error,
	}
}
