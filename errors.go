package trafficsignal

import (
	"errors"
	"fmt"
)

// ErrorCode represents specific error conditions in the signal cycle
type ErrorCode int

const (
	// No error occurred
	ErrCodeNone ErrorCode = iota
	// A configured duration is missing or not positive
	ErrCodeInvalidDuration
	// A state value or name is not one of the defined variants
	ErrCodeInvalidState
	// Cycle configuration is invalid
	ErrCodeInvalidConfiguration
)

// ErrInvalidDuration matches any DurationError via errors.Is
var ErrInvalidDuration = errors.New("invalid duration")

// ErrInvalidState matches any StateError via errors.Is
var ErrInvalidState = errors.New("invalid state")

// DurationError is returned when a duration for a state is not a positive interval
type DurationError struct {
	State   string
	Message string
}

func (e *DurationError) Error() string {
	return fmt.Sprintf("invalid duration [%s]: %s", e.State, e.Message)
}

// Is reports whether target is ErrInvalidDuration
func (e *DurationError) Is(target error) bool {
	return target == ErrInvalidDuration
}

// NewInvalidDurationError creates a new invalid duration error
func NewInvalidDurationError(state string, message string) *DurationError {
	return &DurationError{
		State:   state,
		Message: message,
	}
}

// StateError represents an unknown or out-of-range signal state
type StateError struct {
	Value   string
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state error [%s]: %s", e.Value, e.Message)
}

// Is reports whether target is ErrInvalidState
func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

// NewInvalidStateError creates a new invalid state error
func NewInvalidStateError(value string, reason string) *StateError {
	return &StateError{
		Value:   value,
		Message: reason,
	}
}

// ConfigurationError represents cycle configuration issues
type ConfigurationError struct {
	Component string
	Issue     string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Issue)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(component, issue string) *ConfigurationError {
	return &ConfigurationError{
		Component: component,
		Issue:     issue,
	}
}

// IsDurationError checks if an error is, or wraps, a DurationError
func IsDurationError(err error) bool {
	var target *DurationError
	return errors.As(err, &target)
}

// IsStateError checks if an error is, or wraps, a StateError
func IsStateError(err error) bool {
	var target *StateError
	return errors.As(err, &target)
}

// IsConfigurationError checks if an error is, or wraps, a ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// GetErrorCode returns the error code for known error types
func GetErrorCode(err error) ErrorCode {
	var durationErr *DurationError
	var stateErr *StateError
	var configErr *ConfigurationError
	switch {
	case errors.As(err, &durationErr):
		return ErrCodeInvalidDuration
	case errors.As(err, &stateErr):
		return ErrCodeInvalidState
	case errors.As(err, &configErr):
		return ErrCodeInvalidConfiguration
	default:
		return ErrCodeNone
	}
}
