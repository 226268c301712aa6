// internal/core/errors_test.go
package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_Is(t *testing.T) {
	if !errors.Is(ErrUnknownAsset, ErrUnknownAsset) {
		t.Error("same error should match")
	}
	if errors.Is(ErrUnknownAsset, ErrUnknownBar) {
		t.Error("different codes should not match")
	}
}

func TestWrapError(t *testing.T) {
	cause := fmt.Errorf("asset %q", "XYZ")
	wrapped := WrapError(ErrUnknownAsset, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrUnknownAsset.Code {
		t.Error("code not preserved")
	}
	if !errors.Is(wrapped, ErrUnknownAsset) {
		t.Error("wrapped error should match its base by code")
	}
}
