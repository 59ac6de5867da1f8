package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared by the client layers.
type ErrorCode string

const (
	ErrCodeAuth         ErrorCode = "AUTH"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeFetch        ErrorCode = "FETCH"
	ErrCodeMutation     ErrorCode = "MUTATION"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on code and message so wrapped sentinels still compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError reports a locally detected problem; no remote call was made.
func ValidationError(message string) *Error {
	return NewError(ErrCodeValidation, message)
}

// AuthError reports a failed credential exchange. reason is the server's
// message when one was provided.
func AuthError(reason string, err error) *Error {
	if reason == "" {
		reason = "authentication failed"
	}
	return WrapError(ErrCodeAuth, reason, err)
}

// FetchError reports a failed read.
func FetchError(message string, err error) *Error {
	return WrapError(ErrCodeFetch, message, err)
}

// MutationError reports a failed write. reason is the server's message when
// one was provided, otherwise a generic message is used.
func MutationError(reason string, err error) *Error {
	if reason == "" {
		reason = "the change could not be saved"
	}
	return WrapError(ErrCodeMutation, reason, err)
}

// Common domain errors.
var (
	ErrProjectNotFound   = NewError(ErrCodeNotFound, "project not found")
	ErrTaskNotFound      = NewError(ErrCodeNotFound, "task not found")
	ErrSessionNotFound   = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthorized      = NewError(ErrCodeUnauthorized, "not logged in")
	ErrSessionUnresolved = NewError(ErrCodeUnauthorized, "session not yet restored")
	ErrInvalidPayload    = NewError(ErrCodeInvalid, "invalid payload")
	ErrEmptyProjectName  = ValidationError("project name is required")
	ErrEmptyTaskTitle    = ValidationError("title is required")
	ErrEmptyName         = ValidationError("please enter your name")
	ErrEmptyEmail        = ValidationError("email is required")
	ErrEmptyPassword     = ValidationError("password is required")
	ErrNotConfirmed      = ValidationError("operation not confirmed")
	ErrInvalidStatus     = NewError(ErrCodeInvalid, "unknown task status")
	ErrInvalidPriority   = NewError(ErrCodeInvalid, "unknown task priority")
	ErrInvalidDate       = NewError(ErrCodeInvalid, "invalid date")
)

// IsDomainError reports whether any domain error in err's chain carries code.
func IsDomainError(err error, code ErrorCode) bool {
	for err != nil {
		var dErr *Error
		if !errors.As(err, &dErr) {
			return false
		}
		if dErr.Code == code {
			return true
		}
		err = dErr.Err
	}
	return false
}

// Reason returns the user-facing message of the outermost domain error in
// err's chain, or err.Error() when none is present.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return err.Error()
}

// ServerReason returns the message a remote service attached to err, or ""
// when err carries none.
func ServerReason(err error) string {
	var carrier interface{ ServerMessage() string }
	if errors.As(err, &carrier) {
		return carrier.ServerMessage()
	}
	return ""
}
