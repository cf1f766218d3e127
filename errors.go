package reqx

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformedEnvelope is wrapped by a TransportError when a 2xx response
// does not carry a decodable {code, message, data} envelope.
var ErrMalformedEnvelope = errors.New("reqx: malformed response envelope")

// ErrSuperseded is returned to the caller of a request that was cancelled
// because an identical request was issued after it. It also matches
// context.Canceled.
var ErrSuperseded error = supersededError{}

type supersededError struct{}

func (supersededError) Error() string {
	return "reqx: request superseded by a newer identical request"
}

func (supersededError) Is(target error) bool {
	return target == context.Canceled
}

// APIError is an application level failure: the server answered with a
// well formed envelope whose code is not 200. Message holds the resolved
// human readable text.
type APIError struct {
	Code    int
	Message string
	URL     string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsSessionInvalid reports whether the server rejected the session token.
func (e *APIError) IsSessionInvalid() bool {
	return IsSessionInvalidCode(e.Code)
}

// TransportError is returned when the call never produced a usable
// envelope: network failures, non-2xx statuses, timeouts and undecodable
// bodies. Status is 0 when no response was received.
type TransportError struct {
	Status  int
	Message string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsAPIError returns the *APIError in err's chain, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Code returns the envelope code of an APIError or the HTTP status of a
// TransportError. It returns 0 for any other error.
func Code(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}

	var tErr *TransportError
	if errors.As(err, &tErr) {
		return tErr.Status
	}
	return 0
}
