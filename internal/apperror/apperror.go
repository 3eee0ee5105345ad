// Package apperror defines the structured errors that cross the service
// boundary. Every failure leaving a service operation is an *AppError with a
// stable Kind and a short user-presentable Message.
package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation            Kind = "validation_error"
	KindNotFound              Kind = "not_found"
	KindSelfReference         Kind = "self_reference"
	KindAlreadyFriends        Kind = "already_friends"
	KindRequestAlreadyPending Kind = "request_already_pending"
	KindUnauthorized          Kind = "unauthorized"
	KindAuthorization         Kind = "authorization_error"
	KindInvalidState          Kind = "invalid_state"
	KindConflict              Kind = "conflict"
	KindInternal              Kind = "internal"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrSelfReference         = errors.New("self reference")
	ErrAlreadyFriends        = errors.New("already friends")
	ErrRequestAlreadyPending = errors.New("request already pending")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrAuthorization         = errors.New("not authorized to read")
	ErrInvalidState          = errors.New("invalid state")
	ErrConflict              = errors.New("conflict")
	ErrInternal              = errors.New("internal error")
)

var sentinels = map[Kind]error{
	KindValidation:            ErrValidation,
	KindNotFound:              ErrNotFound,
	KindSelfReference:         ErrSelfReference,
	KindAlreadyFriends:        ErrAlreadyFriends,
	KindRequestAlreadyPending: ErrRequestAlreadyPending,
	KindUnauthorized:          ErrUnauthorized,
	KindAuthorization:         ErrAuthorization,
	KindInvalidState:          ErrInvalidState,
	KindConflict:              ErrConflict,
	KindInternal:              ErrInternal,
}

// AppError is a classified failure. Message is safe to show to end users;
// the wrapped cause is kept for logging only.
type AppError struct {
	Kind    Kind
	Message string
	Field   string // optional: input field that failed validation
	cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the kind sentinel and the underlying cause, so
// errors.Is(err, ErrNotFound) works alongside errors.Is(err, sql.ErrNoRows).
func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s, ok := sentinels[e.Kind]; ok {
		errs = append(errs, s)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// Cause returns the wrapped internal error, if any.
func (e *AppError) Cause() error {
	return e.cause
}

func newError(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Validation(field, message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Field: field}
}

func NotFound(resource string) *AppError {
	return newError(KindNotFound, fmt.Sprintf("%s not found", resource))
}

func SelfReference(message string) *AppError {
	return newError(KindSelfReference, message)
}

func AlreadyFriends(message string) *AppError {
	return newError(KindAlreadyFriends, message)
}

func RequestAlreadyPending(message string) *AppError {
	return newError(KindRequestAlreadyPending, message)
}

func Unauthorized(message string) *AppError {
	return newError(KindUnauthorized, message)
}

func Authorization(message string) *AppError {
	return newError(KindAuthorization, message)
}

func InvalidState(message string) *AppError {
	return newError(KindInvalidState, message)
}

func Conflict(message string, cause error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, cause: cause}
}

// Internal hides cause behind a stable message.
func Internal(message string, cause error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, cause: cause}
}

// From returns err as an *AppError, converting unclassified errors into an
// internal error with a generic message.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Something went wrong", err)
}

// KindOf reports the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	return From(err).Kind
}
