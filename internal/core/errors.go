// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Trade construction errors
	ErrShapeMismatch = &Error{Code: "SHAPE_MISMATCH", Message: "asset and lot lengths differ"}
	ErrThresholdSign = &Error{Code: "THRESHOLD_SIGN", Message: "take must be positive and stop negative"}

	// Universe lookup errors
	ErrUnknownAsset = &Error{Code: "UNKNOWN_ASSET", Message: "asset not in universe"}
	ErrUnknownBar   = &Error{Code: "UNKNOWN_BAR", Message: "bar not in universe"}

	// Call-ordering errors
	ErrUnexecutedTrade = &Error{Code: "UNEXECUTED_TRADE", Message: "trade has not been executed"}

	// Data errors
	ErrNoData = &Error{Code: "NO_DATA", Message: "no data available"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)
