package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is returned for invalid client configuration.
	ErrConfig = errors.New("invalid config")

	// ErrNoRefreshToken is returned when a 401 cannot be recovered because
	// no refresh credential is stored.
	ErrNoRefreshToken = errors.New("no refresh token")

	// ErrResponseTooLarge is returned when a response body exceeds the
	// configured MaxBodyBytes cap. The failure is deterministic, so it is
	// never retried.
	ErrResponseTooLarge = errors.New("response body too large")
)

// AuthError is a terminal authentication (401) or authorization (403)
// failure. By the time the caller sees it, any local session cleanup has
// already happened and the matching event has been published.
type AuthError struct {
	StatusCode int
	Body       []byte
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failure: status %d", e.StatusCode)
}

// StatusError is any other non-2xx response. The body is attached for
// caller inspection; such responses are never retried.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// NetworkError is a transport failure where no HTTP response was received,
// surfaced after the single blind retry also failed.
//
// Attempts counts transport-level sends only: it is 2 even when an auth
// resend succeeded in between, so a request that went network-fail, 401,
// refresh, network-fail reports 2 despite three sends in total.
type NetworkError struct {
	Method   string
	URL      string
	Attempts int
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network failure after %d attempts: %v", e.Method, e.URL, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }
