package trafficsignal

import (
	"time"
)

// Default per-state durations
const (
	DefaultRedDuration    = 3000 * time.Millisecond
	DefaultYellowDuration = 1000 * time.Millisecond
	DefaultGreenDuration  = 3000 * time.Millisecond
)

// Durations maps every SignalState to how long the light stays in it
type Durations map[SignalState]time.Duration

// DefaultDurations returns Red=3s, Yellow=1s, Green=3s
func DefaultDurations() Durations {
	return Durations{
		Red:    DefaultRedDuration,
		Yellow: DefaultYellowDuration,
		Green:  DefaultGreenDuration,
	}
}

// Validate checks that the mapping is total and every interval is positive
func (d Durations) Validate() error {
	for _, state := range States() {
		duration, ok := d[state]
		if !ok {
			return NewInvalidDurationError(state.String(), "no duration configured")
		}
		if duration <= 0 {
			return NewInvalidDurationError(state.String(), "duration must be positive, got "+duration.String())
		}
	}
	for state := range d {
		if !state.Valid() {
			return NewInvalidStateError(state.String(), "duration configured for unknown state")
		}
	}
	return nil
}

// Clone returns a copy of the mapping
func (d Durations) Clone() Durations {
	result := make(Durations, len(d))
	for k, v := range d {
		result[k] = v
	}
	return result
}

// Period returns the length of one full Red -> Yellow -> Green cycle
func (d Durations) Period() time.Duration {
	var total time.Duration
	for _, state := range States() {
		total += d[state]
	}
	return total
}

// Merge returns a copy of d with every non-zero override applied.
// Negative overrides are kept so that Validate can reject them.
func (d Durations) Merge(overrides Durations) Durations {
	result := d.Clone()
	for state, duration := range overrides {
		if duration != 0 {
			result[state] = duration
		}
	}
	return result
}
