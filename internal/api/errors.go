package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is returned when the server answered with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Error %d: %s", e.StatusCode, e.Message)
}

// ConnectionError is returned when no response was received at all.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("could not connect to the server at %s; check that the backend is running", e.URL)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnection reports whether err is (or wraps) a ConnectionError.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// StatusCode returns the HTTP status carried by an APIError in err's chain.
func StatusCode(err error) (int, bool) {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.StatusCode, true
	}
	return 0, false
}

// newAPIError builds an APIError from a failed response. The message is
// the body's "detail" field when there is one, otherwise the status text.
func newAPIError(status int, body []byte) *APIError {
	msg := detailMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("status %d", status)
	}
	return &APIError{StatusCode: status, Message: msg}
}

func detailMessage(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}

	// Validation failures carry a structured detail; keep it readable.
	if string(payload.Detail) == "null" {
		return ""
	}
	return string(payload.Detail)
}
