package errors

import (
	"fmt"
	"strconv"
	"time"
)

// ErrorCode represents different categories of errors
type ErrorCode string

const (
	// ErrCodeTransport indicates the ledger could not be reached or answered malformed data
	ErrCodeTransport ErrorCode = "TRANSPORT"

	// ErrCodeTimeout indicates the confirmation deadline elapsed
	ErrCodeTimeout ErrorCode = "TIMEOUT"

	// ErrCodeBuilder indicates invalid transfer parameters or a signing failure
	ErrCodeBuilder ErrorCode = "BUILDER"

	// ErrCodeProtocol indicates the ledger answered with data violating an invariant
	ErrCodeProtocol ErrorCode = "PROTOCOL"

	// ErrCodeValidation indicates input validation errors
	ErrCodeValidation ErrorCode = "VALIDATION"

	// ErrCodeConfig indicates configuration errors
	ErrCodeConfig ErrorCode = "CONFIG"

	// ErrCodeDatabase indicates database operation errors
	ErrCodeDatabase ErrorCode = "DATABASE"

	// ErrCodeInternal indicates internal system errors
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Severity represents the severity level of an error
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
	SeverityInfo     Severity = "INFO"
)

// LedgerError is the error type surfaced by every stage of the submission
// pipeline. Its Error() text is what a Failed submission reports, so it
// carries the message and the cause only.
type LedgerError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Severity Severity               `json:"severity"`
	Cause    error                  `json:"-"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// NewLedgerError creates a new LedgerError
func NewLedgerError(code ErrorCode, message string, cause error) *LedgerError {
	return &LedgerError{
		Code:     code,
		Message:  message,
		Severity: determineSeverity(code),
		Cause:    cause,
		Context:  make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *LedgerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *LedgerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *LedgerError) WithContext(key string, value interface{}) *LedgerError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// determineSeverity determines the default severity based on error code
func determineSeverity(code ErrorCode) Severity {
	switch code {
	case ErrCodeInternal:
		return SeverityCritical
	case ErrCodeDatabase, ErrCodeProtocol:
		return SeverityHigh
	case ErrCodeTransport, ErrCodeTimeout:
		return SeverityMedium
	case ErrCodeBuilder, ErrCodeValidation, ErrCodeConfig:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// Common error constructors

// NewTransportError creates a transport error
func NewTransportError(message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeTransport, message, cause)
}

// NewConfirmationTimeoutError creates the error reported when no confirmation
// arrived within timeout.
func NewConfirmationTimeoutError(timeout time.Duration) *LedgerError {
	seconds := strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64)
	return NewLedgerError(ErrCodeTimeout,
		fmt.Sprintf("Async actions timed out when communicating with ledger after %s seconds", seconds),
		nil,
	).WithContext("timeout_ms", timeout.Milliseconds())
}

// NewBuilderError creates a transaction builder error
func NewBuilderError(message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeBuilder, message, cause)
}

// NewProtocolError creates a protocol error
func NewProtocolError(message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeProtocol, message, cause)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *LedgerError {
	return NewLedgerError(ErrCodeValidation, message, nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeConfig, message, cause)
}

// NewDatabaseError creates a database error
func NewDatabaseError(message string, cause error) *LedgerError {
	return NewLedgerError(ErrCodeDatabase, message, cause)
}
