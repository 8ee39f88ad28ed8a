package frxai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode defines error classification codes for structured error handling.
type ErrorCode string

// Error codes for the analysis pipeline and its collaborators.
const (
	ErrCodeFileTooLarge         ErrorCode = "FILE_TOO_LARGE"
	ErrCodeRemoteCallFailed     ErrorCode = "REMOTE_CALL_FAILED"
	ErrCodeMalformedResponse    ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeInvalidResponseShape ErrorCode = "INVALID_RESPONSE_SHAPE"
	ErrCodeNewsFetchFailed      ErrorCode = "NEWS_FETCH_FAILED"
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeDatabase             ErrorCode = "DATABASE_ERROR"
	ErrCodeUnavailable          ErrorCode = "UNAVAILABLE"
)

// Error represents a structured error with classification code.
// Message is always the localized, user-facing text.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with classification code and additional context.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// IsErrorCode checks if an error matches a specific error code.
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// UserMessage returns the text that may be shown to the user for err.
// Unclassified errors never leak their internals.
func UserMessage(err error, lang Language) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return Translate(lang, "error_unknown")
}

// ParseError carries the detail of a response that could not be reduced to JSON.
type ParseError struct {
	Original string
	Cleaned  string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "no json payload found"
	}
	return fmt.Sprintf("parse json payload: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError lists the required fields that were absent or had the wrong type.
type ShapeError struct {
	Missing  []string
	Mistyped []string
	Reason   string
}

func (e *ShapeError) Error() string {
	parts := make([]string, 0, 3)
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Mistyped) > 0 {
		parts = append(parts, "mistyped: "+strings.Join(e.Mistyped, ", "))
	}
	if len(parts) == 0 {
		return "invalid shape"
	}
	return strings.Join(parts, "; ")
}
