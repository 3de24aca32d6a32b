package errors

import (
	stderrors "errors"
	"fmt"
)

// EvidexError is the structured error type for evidex.
// It carries enough context for logging, exit-code selection and user presentation.
type EvidexError struct {
	// Code is the unique error code (e.g., "ERR_207_ROOT_INVALID").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *EvidexError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *EvidexError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with EvidexError.
func (e *EvidexError) Is(target error) bool {
	if t, ok := target.(*EvidexError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *EvidexError) WithDetail(key, value string) *EvidexError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *EvidexError) WithSuggestion(suggestion string) *EvidexError {
	e.Suggestion = suggestion
	return e
}

// New creates a new EvidexError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *EvidexError {
	return &EvidexError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an EvidexError from an existing error.
// The error's message becomes the EvidexError message.
func Wrap(code string, err error) *EvidexError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *EvidexError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// RootError creates the fatal error reported when an evidence root is missing
// or is not a directory.
func RootError(root string, cause error) *EvidexError {
	return New(ErrCodeRootInvalid, fmt.Sprintf("root not found or not a directory: %s", root), cause).
		WithDetail("root", root).
		WithSuggestion("Check the --root value; every root must be an existing directory")
}

// OutputError creates an error for a failed artifact write.
func OutputError(path string, cause error) *EvidexError {
	return New(ErrCodeOutputWrite, fmt.Sprintf("failed to write %s", path), cause).
		WithDetail("path", path)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *EvidexError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *EvidexError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity anywhere in its chain.
func IsFatal(err error) bool {
	var ee *EvidexError
	if stderrors.As(err, &ee) {
		return ee.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from the first EvidexError in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var ee *EvidexError
	if stderrors.As(err, &ee) {
		return ee.Code
	}
	return ""
}

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitRootInvalid = 2
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsFatal(err):
		return ExitRootInvalid
	default:
		return ExitFailure
	}
}
