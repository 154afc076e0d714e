// Package apperr defines the error codes returned to API clients.
//
// Services return *Error values carrying a Code and positional Args. The HTTP
// layer resolves the localized text from the code and args; services never
// format user-facing messages themselves.
//
//	if !exists {
//	    return apperr.NotFound(fmt.Sprintf("categoryId=%d", id))
//	}
//
//	var appErr *apperr.Error
//	if errors.As(err, &appErr) {
//	    status := appErr.HTTPStatus()
//	    ...
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the machine-readable code carried in the response envelope.
type Code string

const (
	CodeSuccess                 Code = "200"
	CodeNotFound                Code = "404"
	CodeMethodNotAllowed        Code = "405"
	CodeNotAcceptable           Code = "406"
	CodeMediaTypeNotAllowed     Code = "415"
	CodeTooManyRequests         Code = "429"
	CodeServerError             Code = "500"
	CodeFailedParameterCheck    Code = "4001"
	CodeMissingRequestParameter Code = "4002"
	CodeInvalidParameter        Code = "4003"
	CodeParamTypeMismatch       Code = "4004"
	CodeCategoryExists          Code = "101001"
	CodeDataNotFound            Code = "101002"
)

// HTTPStatus returns the HTTP status used when answering with this code.
// Business and parameter errors are all answered with 400.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeSuccess:
		return http.StatusOK
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeNotAcceptable:
		return http.StatusNotAcceptable
	case CodeMediaTypeNotAllowed:
		return http.StatusUnsupportedMediaType
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeFailedParameterCheck, CodeMissingRequestParameter, CodeInvalidParameter,
		CodeParamTypeMismatch, CodeCategoryExists, CodeDataNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a code and message arguments.
type Error struct {
	Code    Code
	Args    []any
	Details any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := string(e.Code)
	if len(e.Args) > 0 {
		msg = fmt.Sprintf("%s %v", e.Code, e.Args)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of e carrying details for the response data field.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Args: e.Args, Details: details, cause: e.cause}
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Args: e.Args, Details: e.Details, cause: err}
}

// Sentinel errors for use with errors.Is.
var (
	ErrNotFound        = &Error{Code: CodeDataNotFound}
	ErrAlreadyExists   = &Error{Code: CodeCategoryExists}
	ErrValidation      = &Error{Code: CodeFailedParameterCheck}
	ErrInvalidParam    = &Error{Code: CodeInvalidParameter}
	ErrTypeMismatch    = &Error{Code: CodeParamTypeMismatch}
	ErrMissingParam    = &Error{Code: CodeMissingRequestParameter}
	ErrTooManyRequests = &Error{Code: CodeTooManyRequests}
	ErrInternal        = &Error{Code: CodeServerError}
)

// New creates an error with the given code and message arguments.
func New(code Code, args ...any) *Error {
	return &Error{Code: code, Args: args}
}

// NotFound reports a referenced record that does not exist.
// The argument names the lookup, e.g. "bookId=12".
func NotFound(what string) *Error {
	return &Error{Code: CodeDataNotFound, Args: []any{what}}
}

// AlreadyExists reports a category name that is already taken.
func AlreadyExists(name string) *Error {
	return &Error{Code: CodeCategoryExists, Args: []any{name}}
}

// Validation reports failed request constraints. The joined message becomes
// the message argument and the individual violations travel as details.
func Validation(message string, violations any) *Error {
	return &Error{Code: CodeFailedParameterCheck, Args: []any{message}, Details: violations}
}

// InvalidParameter reports a value that could not be read, e.g. malformed JSON.
func InvalidParameter(what string) *Error {
	return &Error{Code: CodeInvalidParameter, Args: []any{what}}
}

// MissingParameter reports an absent required request parameter.
func MissingParameter(name, typeName string) *Error {
	return &Error{Code: CodeMissingRequestParameter, Args: []any{name, typeName}}
}

// TypeMismatch reports a request parameter that has the wrong type.
func TypeMismatch(name, value, typeName string) *Error {
	return &Error{Code: CodeParamTypeMismatch, Args: []any{name, value, typeName}}
}

// Internal wraps an unexpected failure.
func Internal(err error) *Error {
	return &Error{Code: CodeServerError, cause: err}
}
