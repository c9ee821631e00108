package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the error type carried across service boundaries.
// Status is the HTTP status the handler layer renders it with.
type AppError struct {
	ID      string
	Message string
	Status  int
	Cause   error
}

type Option func(*AppError)

func WithID(id string) Option {
	return func(e *AppError) { e.ID = id }
}

func WithCause(err error) Option {
	return func(e *AppError) { e.Cause = err }
}

func WithStatus(status int) Option {
	return func(e *AppError) { e.Status = status }
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// New builds an AppError. Without WithStatus the status is 500.
func New(message string, opts ...Option) error {
	e := &AppError{Message: message, Status: http.StatusInternalServerError}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func Internal(message string, opts ...Option) error {
	return New(message, append(opts, WithStatus(http.StatusInternalServerError))...)
}

func BadRequest(message string, opts ...Option) error {
	return New(message, append(opts, WithStatus(http.StatusBadRequest))...)
}

func NotFound(message string, opts ...Option) error {
	return New(message, append(opts, WithStatus(http.StatusNotFound))...)
}

// Status returns the HTTP status for err, 500 for foreign errors.
func Status(err error) int {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Status
	}
	var nf *DBNotFoundError
	if As(err, &nf) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Details returns the id and full message chain, for logs.
func Details(err error) string {
	var appErr *AppError
	if As(err, &appErr) && appErr.ID != "" {
		return fmt.Sprintf("[%s] %s", appErr.ID, err.Error())
	}
	return err.Error()
}

// Message returns the user-facing message of err, without its cause chain.
func Message(err error) string {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }
