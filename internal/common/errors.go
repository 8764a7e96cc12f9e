package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("file not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")
	ErrNoAnalysis   = errors.New("no analysis performed yet")
	ErrNoMatch      = errors.New("no identifier found")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NotFoundError reports a missing input path.
func NotFoundError(path string) error {
	return NewAppError("NOT_FOUND", path, ErrNotFound)
}

func InvalidInputErrorf(format string, args ...interface{}) error {
	return NewAppError("INVALID_INPUT", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// UserMessage renders err as a single line suitable for the interactive menu.
func UserMessage(err error) string {
	var appErr *AppError
	switch {
	case errors.Is(err, ErrNotFound):
		return "File not found!"
	case errors.Is(err, ErrNoAnalysis):
		return "Perform analysis first before export!"
	case errors.Is(err, ErrNoMatch):
		return "No identifier number found!"
	case errors.As(err, &appErr) && errors.Is(err, ErrInvalidInput):
		return appErr.Message
	default:
		return "Error: " + err.Error()
	}
}
