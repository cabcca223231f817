package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is checks if an error is of a specific type
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// IsLedgerError checks if an error is a LedgerError with specific code
func IsLedgerError(err error, code ErrorCode) bool {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Code == code
	}
	return false
}

// CodeOf returns the code of the first LedgerError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var ledgerErr *LedgerError
	if errors.As(err, &ledgerErr) {
		return ledgerErr.Code
	}
	return ErrCodeInternal
}

func IsTransport(err error) bool  { return IsLedgerError(err, ErrCodeTransport) }
func IsTimeout(err error) bool    { return IsLedgerError(err, ErrCodeTimeout) }
func IsBuilder(err error) bool    { return IsLedgerError(err, ErrCodeBuilder) }
func IsProtocol(err error) bool   { return IsLedgerError(err, ErrCodeProtocol) }
func IsValidation(err error) bool { return IsLedgerError(err, ErrCodeValidation) }
