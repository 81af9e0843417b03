package errors

import (
	"errors"
	"fmt"
)

// ErrorCode groups failures into the kinds callers can act on.
type ErrorCode int

const (
	// ErrNotFound: referenced listing, organization, patient or record
	// does not exist.
	ErrNotFound ErrorCode = iota + 1000
	// ErrUnauthorized: caller is not the required identity class.
	ErrUnauthorized
	// ErrConflict: duplicate registration, zero balance on withdrawal.
	ErrConflict
	// ErrPolicy: below minimum duration, empty type set, disallowed
	// organization type, insufficient balance.
	ErrPolicy
	// ErrInternal: infrastructure failure, not part of the operation
	// contract.
	ErrInternal
)

// AppError is a terminal, zero-effect rejection. Message carries the
// reason string of the operation contract verbatim.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(reason string) *AppError {
	return &AppError{Code: ErrNotFound, Message: reason}
}

func Unauthorized(reason string) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: reason}
}

func Conflict(reason string) *AppError {
	return &AppError{Code: ErrConflict, Message: reason}
}

func Policy(reason string) *AppError {
	return &AppError{Code: ErrPolicy, Message: reason}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal error", Err: err}
}

// CodeOf returns the error's code, or ErrInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	return ErrInternal
}
