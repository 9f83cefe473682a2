package judge

import (
	"errors"
	"fmt"
)

const unknownErrorDetail = "unknown error"

var ErrEmptyBaseURL = errors.New("judge base URL is required")

// TransportError is a failure at or below the HTTP exchange. StatusCode is
// zero when no response was received.
type TransportError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Detail
	}
	return fmt.Sprintf("server error: %d - %s", e.StatusCode, e.Detail)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is returned when a response body is not the JSON
// shape the service promises.
type MalformedResponseError struct {
	StatusCode int
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (status %d): %v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
