package exporter

import (
	"errors"
	"fmt"
)

type Kind string

const (
	// KindConfiguration: credentials missing, no request was made.
	KindConfiguration Kind = "configuration"
	// KindTransport: the request did not produce an HTTP response.
	KindTransport Kind = "transport"
	// KindHTTPStatus: the API answered outside [200,300).
	KindHTTPStatus Kind = "http_status"
	// KindExhausted: every attempt failed.
	KindExhausted Kind = "exhausted"
)

const NotConfiguredMessage = "The API endpoint URL and API token are not configured. " +
	"Please configure them in the settings to enable video generation."

// Error is returned by Client.Submit. Attempt-level kinds only surface as the
// Cause of a KindExhausted error.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Attempts   int
	Cause      error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsConfiguration(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindConfiguration
}

func IsExhausted(err error) bool {
	e, ok := AsError(err)
	return ok && e.Kind == KindExhausted
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: err.Error(), Cause: err}
}

func statusError(code int) *Error {
	return &Error{
		Kind:       KindHTTPStatus,
		StatusCode: code,
		Message:    fmt.Sprintf("video API responded with status %d", code),
	}
}

// exhaustedError keeps the transport message of the final attempt when there
// is one, since that is more useful to an editor than the generic text.
func exhaustedError(last error, attempts, maxAttempts int) *Error {
	e := &Error{
		Kind:     KindExhausted,
		Message:  fmt.Sprintf("Failed to send data to API after %d attempts", maxAttempts),
		Attempts: attempts,
		Cause:    last,
	}
	if ae, ok := AsError(last); ok {
		e.StatusCode = ae.StatusCode
		if ae.Kind == KindTransport {
			e.Message = ae.Message
		}
	}
	return e
}
