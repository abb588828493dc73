// Package errors defines the coded errors and warnings shared by the layout
// engine, the CLI and the HTTP API.
//
// Every failure a caller may want to branch on carries a [Code]. The server
// maps codes to HTTP status values and the CLI prints the message chain:
//
//	err := errors.New(errors.ErrCodeLayoutInfeasible, "only %d row fits", rows)
//	if errors.Is(err, errors.ErrCodeLayoutInfeasible) {
//	    return nil
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeLayoutInfeasible    Code = "LAYOUT_INFEASIBLE"
	ErrCodeConstraintViolation Code = "CONSTRAINT_VIOLATION"

	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidSite     Code = "INVALID_SITE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeZoneNotFound Code = "ZONE_NOT_FOUND"
	ErrCodePlanNotFound Code = "PLAN_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches code and a message to cause. Leave the cause out of the
// message; Error and UserMessage append it.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage renders err without codes: the messages of every *Error in
// the chain joined by ": ", followed by the first plain cause.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}

// Warning is a non-fatal finding attached to a successful result, such as
// a shelf that came out narrower than the configured minimum.
type Warning struct {
	Code    Code   `json:"code" bson:"code"`
	Message string `json:"message" bson:"message"`
}

func Warn(code Code, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (w Warning) String() string {
	return string(w.Code) + ": " + w.Message
}
