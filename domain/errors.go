package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeFileNotFound      = "FILE_NOT_FOUND"
	ErrCodeAnalysisError     = "ANALYSIS_ERROR"
	ErrCodeConfigError       = "CONFIG_ERROR"
	ErrCodeOutputError       = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeCheckFailed       = "CHECK_FAILED"

	// Per-file codes. These never abort a run; they surface as diagnostics.
	ErrCodeParseFailure    = "PARSE_FAILURE"
	ErrCodeParseTimeout    = "PARSE_TIMEOUT"
	ErrCodeUnknownFileType = "UNKNOWN_FILE_TYPE"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewParseFailureError creates a parse failure for one file
func NewParseFailureError(file string, cause error) error {
	return NewDomainError(ErrCodeParseFailure, fmt.Sprintf("failed to parse file: %s", file), cause)
}

// NewParseTimeoutError creates a parse timeout for one file
func NewParseTimeoutError(file string, cause error) error {
	return NewDomainError(ErrCodeParseTimeout, fmt.Sprintf("parse timed out: %s", file), cause)
}

// NewUnknownFileTypeError reports that a file was parsed with the fallback language
func NewUnknownFileTypeError(fallback string) error {
	return NewDomainError(ErrCodeUnknownFileType, fmt.Sprintf("unknown file type, parsed as %s", fallback), nil)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewCheckFailedError reports a completed run that breached a configured limit
func NewCheckFailedError(message string) error {
	return NewDomainError(ErrCodeCheckFailed, message, nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// ErrorCode returns the code of the first DomainError in err's chain, or ""
func ErrorCode(err error) string {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
