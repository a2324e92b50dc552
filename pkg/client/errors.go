package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed upstream call.
type ErrorKind string

const (
	// KindTimeout means the request did not complete within the configured timeout.
	KindTimeout ErrorKind = "timeout"

	// KindNetworkUnavailable means the connection failed (DNS, refused, reset).
	KindNetworkUnavailable ErrorKind = "network_unavailable"

	// KindUpstreamStatus means the upstream answered with a non-2xx status.
	KindUpstreamStatus ErrorKind = "upstream_status"

	// KindMalformedResponse means the transport succeeded but the body could not be used.
	KindMalformedResponse ErrorKind = "malformed_response"

	// KindNotFound means the response was well formed but held no matching record.
	KindNotFound ErrorKind = "not_found"
)

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrTimeout            = errors.New("upstream timeout")
	ErrNetworkUnavailable = errors.New("upstream network unavailable")
	ErrUpstreamStatus     = errors.New("upstream status error")
	ErrMalformedResponse  = errors.New("malformed upstream response")
	ErrNotFound           = errors.New("record not found")
)

// Error is a classified upstream failure.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("camara %s", e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Endpoint != "" {
		msg += " " + e.Endpoint
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == sentinel(e.Kind)
}

func sentinel(kind ErrorKind) error {
	switch kind {
	case KindTimeout:
		return ErrTimeout
	case KindNetworkUnavailable:
		return ErrNetworkUnavailable
	case KindUpstreamStatus:
		return ErrUpstreamStatus
	case KindMalformedResponse:
		return ErrMalformedResponse
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// NotFound builds a KindNotFound error for endpoint.
func NotFound(endpoint, message string) error {
	return &Error{Kind: KindNotFound, Endpoint: endpoint, Message: message}
}

// Malformed builds a KindMalformedResponse error for endpoint.
func Malformed(endpoint string, err error) error {
	return &Error{Kind: KindMalformedResponse, Endpoint: endpoint, Err: err}
}
