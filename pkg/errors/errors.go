package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeInvalidURL indicates the requested recipe URL is malformed
	ErrorTypeInvalidURL ErrorType = "INVALID_URL"

	// ErrorTypeFetchFailed indicates a network error or non-2xx page response
	ErrorTypeFetchFailed ErrorType = "FETCH_FAILED"

	// ErrorTypeNoContentFound indicates no ingredient content could be located
	ErrorTypeNoContentFound ErrorType = "NO_CONTENT_FOUND"

	// ErrorTypeParseFailed indicates regex or LLM output could not be decoded
	ErrorTypeParseFailed ErrorType = "PARSE_FAILED"

	// ErrorTypeLowConfidence indicates the confidence score fell below the threshold
	ErrorTypeLowConfidence ErrorType = "LOW_CONFIDENCE"

	// ErrorTypeLowVerification indicates too few ingredients were found in the source page
	ErrorTypeLowVerification ErrorType = "LOW_VERIFICATION"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or an
// empty string when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// Is reports whether err carries an AppError of the given type.
func Is(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}

// NewInvalidURLError creates a new invalid URL error
func NewInvalidURLError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidURL,
		Message: message,
		Err:     err,
	}
}

// NewFetchFailedError creates a new fetch failure error
func NewFetchFailedError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeFetchFailed,
		Message: message,
		Err:     err,
	}
}

// NewNoContentFoundError creates a new no-content error
func NewNoContentFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNoContentFound,
		Message: message,
	}
}

// NewParseFailedError creates a new parse failure error
func NewParseFailedError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParseFailed,
		Message: message,
		Err:     err,
	}
}

// NewLowConfidenceError creates a new low confidence error
func NewLowConfidenceError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeLowConfidence,
		Message: message,
	}
}

// NewLowVerificationError creates a new low verification error
func NewLowVerificationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeLowVerification,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
