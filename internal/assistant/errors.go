package assistant

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the common sentinel for all gateway failures. Callers
// that don't care about the cause can match it with errors.Is; the concrete
// types below remain reachable with errors.As.
var ErrUnavailable = errors.New("assistant unavailable")

// TransportError covers network failures and client-timeout expiry
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("assistant transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return ErrUnavailable }

// StatusError covers non-200 responses from the backend
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("assistant returned status %d", e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUnavailable }

// DecodeError covers well-delivered but malformed response bodies
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("assistant response malformed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return ErrUnavailable }
