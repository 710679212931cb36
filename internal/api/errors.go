package api

import (
	"errors"
	"fmt"
)

// HTTPError is a non-2xx response. Message is taken from the response
// envelope when present, otherwise from the raw body.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// RequestFailedError is a 2xx response whose envelope carried
// success:false. The server handled the request and rejected it.
type RequestFailedError struct {
	Message string
}

func (e *RequestFailedError) Error() string {
	if e.Message == "" {
		return "request failed"
	}
	return e.Message
}

// NetworkError is a transport failure (DNS, connection refused,
// timeout). There is no automatic retry; the caller decides.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
