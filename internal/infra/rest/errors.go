package rest

import (
	"errors"
	"fmt"
)

// Kind buckets a failure by what went wrong, which decides whether the
// retry loop may spend another attempt on it.
type Kind string

const (
	KindTransport     Kind = "transport"
	KindServer        Kind = "server"
	KindClient        Kind = "client"
	KindAuth          Kind = "auth"
	KindValidation    Kind = "validation"
	KindNormalization Kind = "normalization"
)

// Retryable reports whether a repeat attempt could plausibly succeed.
// A malformed request cannot self-heal, so only transport and server
// failures are worth another attempt.
func (k Kind) Retryable() bool {
	return k == KindTransport || k == KindServer
}

// Error is the single failure type this package raises. It carries the
// classification the retry loop acted on plus the identifiers needed to
// correlate the failure with request logs.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	RequestID  string
	Attempt    int
	Timeout    bool
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Kind, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the retry loop may spend another attempt on
// this failure.
func (e *Error) Retryable() bool { return e.Kind.Retryable() }

// AsError unwraps err into *Error if one is in its chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
