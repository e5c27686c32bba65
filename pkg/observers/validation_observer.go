package observers

import (
	"fmt"
	"sync"

	"github.com/anggasct/trafficsignal"
)

// ValidationObserver checks that notifications follow the fixed cycle order
// with no skips or repeats
type ValidationObserver struct {
	last       trafficsignal.SignalState
	known      bool
	violations []string
	mutex      sync.RWMutex
}

// NewValidationObserver creates a new validation observer
func NewValidationObserver() *ValidationObserver {
	return &ValidationObserver{
		violations: make([]string, 0),
	}
}

// OnStarted anchors the expected sequence at the starting state
func (o *ValidationObserver) OnStarted(state trafficsignal.SignalState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if o.known && o.last != state {
		o.violations = append(o.violations, fmt.Sprintf(
			"cycle started in '%s' but last observed state was '%s'", state, o.last))
	}
	o.last = state
	o.known = true
}

// OnStopped implements trafficsignal.ExtendedObserver
func (o *ValidationObserver) OnStopped(state trafficsignal.SignalState) {}

// OnError records observer failures as violations
func (o *ValidationObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.violations = append(o.violations, err.Error())
}

// OnChange validates that newState follows the previous state
func (o *ValidationObserver) OnChange(newState trafficsignal.SignalState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	if !newState.Valid() {
		o.violations = append(o.violations, fmt.Sprintf("invalid state %s", newState))
		return
	}
	if o.known && o.last.Successor() != newState {
		o.violations = append(o.violations, fmt.Sprintf(
			"invalid transition from '%s' to '%s'", o.last, newState))
	}
	o.last = newState
	o.known = true
}

// GetViolations returns all recorded violations
func (o *ValidationObserver) GetViolations() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make([]string, len(o.violations))
	copy(result, o.violations)
	return result
}

// IsValid returns true if no violations were recorded
func (o *ValidationObserver) IsValid() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.violations) == 0
}

// Reset clears recorded state and violations
func (o *ValidationObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.known = false
	o.violations = make([]string, 0)
}
