// Package aiclient is the typed HTTP client for the external resume AI
// service. One method per remote operation; no automatic retries.
package aiclient

import (
	"fmt"
	"net/http"
)

// NetworkError indicates the request never completed (DNS, dial, timeout).
type NetworkError struct {
	Op    string
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: request failed: %v", e.Op, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// RequestRejected indicates a non-2xx response. Message carries the
// server-supplied detail verbatim for display; a missing or undecodable
// error body falls back to the HTTP status text.
type RequestRejected struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RequestRejected) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, http.StatusText(e.StatusCode))
}

// MalformedResponse indicates a 2xx response whose body did not decode
// into the operation's expected shape.
type MalformedResponse struct {
	Op    string
	Cause error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Cause)
}

func (e *MalformedResponse) Unwrap() error {
	return e.Cause
}

// errorBody is the error envelope the AI service returns on rejection.
type errorBody struct {
	Detail string `json:"detail"`
}
