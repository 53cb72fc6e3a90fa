// Package domainerrors provides coded errors for the intake domain.
//
// Services return these so transport can map failures to HTTP statuses without
// string matching. Stores stay on pkg/platform/sentinel; the service layer is
// the only place that translates sentinel facts into coded errors.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	CodeBadRequest              Code = "bad_request"
	CodeValidation              Code = "validation"
	CodeNotFound                Code = "not_found"
	CodeConflict                Code = "conflict"
	CodeInvalidTransition       Code = "invalid_transition"
	CodeMissingDocuments        Code = "missing_documents"
	CodeUnsupportedDocumentType Code = "unsupported_document_type"
	CodeInternal                Code = "internal"
)

// Error is a coded domain error with an optional structured details payload.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a human-readable message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// WithDetails attaches a structured payload to the error and returns it.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias of HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// Load extracts the coded error from err, or nil if none is present.
func Load(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return nil
}

// ToHTTPStatus maps a code to its HTTP response status. Unknown codes map to
// 500 so a forgotten mapping never leaks a 200.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeUnsupportedDocumentType:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidTransition:
		return http.StatusConflict
	case CodeMissingDocuments:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
