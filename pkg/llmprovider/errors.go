package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNoProvidersConfigured indicates no providers are enabled
	ErrNoProvidersConfigured = errors.New("no providers configured")

	// ErrProviderNotConfigured indicates the requested provider is not registered
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrTimeout indicates a provider request timed out
	ErrTimeout = errors.New("provider timeout")

	// ErrRateLimited indicates rate limit exceeded
	ErrRateLimited = errors.New("provider rate limited")

	// ErrAuth indicates rejected credentials
	ErrAuth = errors.New("provider authentication failed")

	// ErrMalformedResponse indicates a reply without usable text
	ErrMalformedResponse = errors.New("malformed provider response")
)

// ErrorKind classifies a backend failure.
type ErrorKind string

const (
	KindTimeout   ErrorKind = "timeout"
	KindAuth      ErrorKind = "auth"
	KindRateLimit ErrorKind = "rate_limit"
	KindMalformed ErrorKind = "malformed"
	KindUnknown   ErrorKind = "unknown"
)

// BackendError is the normalized failure of a provider call.
type BackendError struct {
	Provider string
	Kind     ErrorKind
	Detail   string
	Err      error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("provider %s: %s: %s", e.Provider, e.Kind, e.Detail)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match a BackendError against the kind sentinels.
func (e *BackendError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrRateLimited:
		return e.Kind == KindRateLimit
	case ErrMalformedResponse:
		return e.Kind == KindMalformed
	}
	return false
}

// httpStatusError is implemented by client errors that carry an HTTP status.
type httpStatusError interface {
	HTTPStatus() int
}

type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) HTTPStatus() int { return e.status }

// classify converts any provider error into a *BackendError.
// Errors matching one of malformed are reported as KindMalformed.
func classify(provider string, err error, malformed ...error) *BackendError {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}

	out := &BackendError{Provider: provider, Kind: KindUnknown, Detail: err.Error(), Err: err}

	var netErr net.Error
	var statusErr httpStatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		out.Kind = KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		out.Kind = KindTimeout
	case errors.Is(err, ErrMalformedResponse):
		out.Kind = KindMalformed
	case errors.As(err, &statusErr):
		out.Kind = kindFromStatus(statusErr.HTTPStatus())
	}
	if out.Kind == KindUnknown {
		for _, m := range malformed {
			if errors.Is(err, m) {
				out.Kind = KindMalformed
				break
			}
		}
	}
	return out
}

func kindFromStatus(status int) ErrorKind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429:
		return KindRateLimit
	case status == 408 || status == 504:
		return KindTimeout
	default:
		return KindUnknown
	}
}
