package provider

import (
	"fmt"
	"time"
)

// Error represents a general provider failure: the capability was reached
// but returned an error. The engine aborts the cycle and surfaces it to the
// caller; retrying is a caller policy decision, never automatic.
type Error struct {
	// Provider is the name of the provider that failed.
	Provider string

	// Operation is the capability method that failed ("evaluate" or
	// "generate").
	Operation string

	// StatusCode is the HTTP status code, 0 when not applicable.
	StatusCode int

	// Message is the error message.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q %s failed (status %d): %s", e.Provider, e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q %s failed: %s", e.Provider, e.Operation, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// TimeoutError indicates a capability call exceeded its deadline. A timeout
// is a hard failure of the round, not a revision: it never counts against
// the revision budget.
type TimeoutError struct {
	// Provider is the name of the provider where the timeout occurred.
	Provider string

	// Operation is the capability method that timed out.
	Operation string

	// Timeout is the deadline that was exceeded.
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("provider %q %s timed out after %s", e.Provider, e.Operation, e.Timeout)
}

// ParseError indicates the provider returned a response the client could
// not decode into the expected shape.
type ParseError struct {
	// Provider is the name of the provider that returned the response.
	Provider string

	// RawResponse is the undecodable response body, truncated for logs.
	RawResponse string

	// Cause is the underlying decode error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("provider %q returned unparseable response: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
