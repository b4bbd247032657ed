package common

import (
	"errors"
	"fmt"

	"github.com/medscan-io/medscan/constants"
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
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
	ErrPrivacyLeak  = errors.New("privacy validation failed")
	ErrNoRecords    = errors.New("no recoverable records")
	ErrInternal     = errors.New("internal error")
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

// NewInputError reports an anonymization input contract violation.
func NewInputError(message string) *AppError {
	return NewAppError("INPUT", message, ErrInvalidInput)
}

// NewPrivacyLeakError reports a residual identifier surviving redaction.
// The error names the leaking category only; it never carries document text.
func NewPrivacyLeakError(category constants.PIICategory) *AppError {
	return NewAppError("PRIVACY_LEAK",
		fmt.Sprintf("residual %s identifier detected after redaction", category),
		ErrPrivacyLeak)
}

// NewNoRecordsError reports recovery exhaustion. tail is the unparsable
// response tail, included for diagnostics.
func NewNoRecordsError(tail string) *AppError {
	return NewAppError("NO_RECORDS",
		fmt.Sprintf("no recoverable measurement records; response tail: %q", tail),
		ErrNoRecords)
}
