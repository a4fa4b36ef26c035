package util

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies client-side failures.
type ErrorKind string

const (
	KindAuth       ErrorKind = "AUTH"
	KindValidation ErrorKind = "VALIDATION"
	KindNetwork    ErrorKind = "NETWORK"
	KindTimeout    ErrorKind = "TIMEOUT"
	KindServer     ErrorKind = "SERVER"
)

// ClientError standardizes application errors.
type ClientError struct {
	Kind       ErrorKind
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewAuthError indicates missing or invalid credentials (HTTP 401).
func NewAuthError(message string) error {
	if message == "" {
		message = "authentication required, please re-login"
	}
	return &ClientError{Kind: KindAuth, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// NewValidationError indicates bad input detected before any request
// is issued.
func NewValidationError(message string) error {
	return &ClientError{Kind: KindValidation, Message: message}
}

// NewNetworkError indicates a request that could not complete.
func NewNetworkError(err error) error {
	return &ClientError{Kind: KindNetwork, Message: "request failed, check your network", Err: err}
}

// NewTimeoutError indicates a request that exceeded the client timeout.
func NewTimeoutError(err error) error {
	return &ClientError{Kind: KindTimeout, Message: "request timed out", Err: err}
}

// NewServerError indicates a non-401 error status from the backend.
func NewServerError(status int, message string) error {
	if message == "" {
		message = "the server could not process the request"
	}
	return &ClientError{Kind: KindServer, Message: message, HTTPStatus: status}
}

// ToClientError converts generic errors to ClientError. Transport
// errors are split into timeout and network kinds; anything already
// classified passes through unchanged.
func ToClientError(err error) *ClientError {
	if err == nil {
		return nil
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ClientError{Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	return &ClientError{Kind: KindNetwork, Message: "request failed, check your network", Err: err}
}

// IsKind reports whether err classifies as the given kind.
func IsKind(err error, kind ErrorKind) bool {
	ce := ToClientError(err)
	return ce != nil && ce.Kind == kind
}
