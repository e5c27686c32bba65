package trafficsignal

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_ErrorCode(t *testing.T) {
	testCases := []ErrorCode{
		ErrCodeNone,
		ErrCodeInvalidDuration,
		ErrCodeInvalidState,
		ErrCodeInvalidConfiguration,
	}

	for i, code := range testCases {
		if int(code) != i {
			t.Errorf("Expected error code %d to have value %d", i, int(code))
		}
	}
}

func TestDurationError_Creation(t *testing.T) {
	err := NewInvalidDurationError("red", "duration must be positive")

	if err.State != "red" {
		t.Errorf("Expected state 'red', got '%s'", err.State)
	}

	if err.Error() != "invalid duration [red]: duration must be positive" {
		t.Errorf("Unexpected error string %q", err.Error())
	}

	if !errors.Is(err, ErrInvalidDuration) {
		t.Error("Expected DurationError to match ErrInvalidDuration")
	}

	if errors.Is(err, ErrInvalidState) {
		t.Error("Expected DurationError not to match ErrInvalidState")
	}
}

func TestErrors_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading config: %w", NewInvalidDurationError("green", "zero"))

	if !IsDurationError(wrapped) {
		t.Error("Expected wrapped DurationError to be detected")
	}

	if GetErrorCode(wrapped) != ErrCodeInvalidDuration {
		t.Errorf("Expected ErrCodeInvalidDuration, got %v", GetErrorCode(wrapped))
	}
}

func TestErrors_GetErrorCode(t *testing.T) {
	testCases := []struct {
		err      error
		expected ErrorCode
	}{
		{NewInvalidDurationError("red", "zero"), ErrCodeInvalidDuration},
		{NewInvalidStateError("blue", "unknown"), ErrCodeInvalidState},
		{NewConfigurationError("SignalCycle", "missing timer"), ErrCodeInvalidConfiguration},
		{errors.New("other"), ErrCodeNone},
		{nil, ErrCodeNone},
	}

	for _, tc := range testCases {
		if got := GetErrorCode(tc.err); got != tc.expected {
			t.Errorf("Expected code %v for %v, got %v", tc.expected, tc.err, got)
		}
	}

	if !IsConfigurationError(NewConfigurationError("a", "b")) {
		t.Error("Expected ConfigurationError to be detected")
	}
}
