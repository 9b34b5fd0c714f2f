package errors

import (
	stderrors "errors"
	"fmt"
)

// CheckError is the structured error type for envcheck.
// Checks attach one to their result so the CLI can print the message,
// the remediation hint, and the code without parsing strings.
type CheckError struct {
	// Code is the unique error code (e.g., "ERR_201_DATA_FILE_MISSING").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is derived from the code.
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable hint for the operator.
	Suggestion string
}

// Error implements the error interface.
func (e *CheckError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is matches another CheckError by code.
func (e *CheckError) Is(target error) bool {
	if t, ok := target.(*CheckError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *CheckError) WithDetail(key, value string) *CheckError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the operator.
func (e *CheckError) WithSuggestion(suggestion string) *CheckError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CheckError with the given code and message.
func New(code string, message string, cause error) *CheckError {
	return &CheckError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Newf creates a new CheckError with a formatted message and no cause.
func Newf(code string, format string, args ...any) *CheckError {
	return New(code, fmt.Sprintf(format, args...), nil)
}

// Wrap creates a CheckError from an existing error.
// The error's message becomes the CheckError message.
func Wrap(code string, err error) *CheckError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *CheckError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// As finds the first CheckError in err's chain.
func As(err error) (*CheckError, bool) {
	var ce *CheckError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// GetCode extracts the error code from a CheckError anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	if ce, ok := As(err); ok {
		return ce.Code
	}
	return ""
}

// GetCategory extracts the category from a CheckError anywhere in the chain.
func GetCategory(err error) Category {
	if ce, ok := As(err); ok {
		return ce.Category
	}
	return ""
}

// Suggestion returns the remediation hint attached to err, if any.
func Suggestion(err error) string {
	if ce, ok := As(err); ok {
		return ce.Suggestion
	}
	return ""
}
