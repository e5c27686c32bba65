// Package trafficsignal provides a timed traffic signal state machine that
// cycles red, yellow and green on per-state durations and notifies an observer
// on every change. Timers are supplied by the host through TimerFacility.
package trafficsignal

import (
	"fmt"
	"strings"
)

// SignalState is one of the three colours a traffic light may display
type SignalState int

const (
	// Red is the initial state of every cycle
	Red SignalState = iota
	// Yellow follows Red
	Yellow
	// Green follows Yellow and is followed by Red
	Green
)

// numStates is the length of the cycle
const numStates = 3

var stateNames = [numStates]string{"red", "yellow", "green"}

// States returns the three variants in cycle order
func States() []SignalState {
	return []SignalState{Red, Yellow, Green}
}

// Valid reports whether s is one of the defined variants
func (s SignalState) Valid() bool {
	return s >= Red && s <= Green
}

// Successor returns the next state in the fixed cycle Red -> Yellow -> Green -> Red
func (s SignalState) Successor() SignalState {
	return (s + 1) % numStates
}

// Position returns the lamp index from the top of the housing
func (s SignalState) Position() int {
	return int(s)
}

func (s SignalState) String() string {
	if !s.Valid() {
		return fmt.Sprintf("SignalState(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText implements encoding.TextMarshaler
func (s SignalState) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, NewInvalidStateError(s.String(), "not a signal state")
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *SignalState) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseState parses a state name case-insensitively
func ParseState(name string) (SignalState, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, n := range stateNames {
		if n == normalized {
			return SignalState(i), nil
		}
	}
	return Red, NewInvalidStateError(name, "unknown state name")
}

// RGB is a lamp colour
type RGB struct {
	R, G, B uint8
}

var (
	// LampOff is the colour of an unlit lamp
	LampOff = RGB{50, 50, 50}
	// Housing is the colour of the signal housing
	Housing = RGB{30, 30, 30}

	lampColors = [numStates]RGB{
		{255, 0, 0},
		{255, 255, 0},
		{0, 255, 0},
	}
)

// LampColor returns the colour of the lamp when s is lit
func (s SignalState) LampColor() RGB {
	if !s.Valid() {
		return LampOff
	}
	return lampColors[s]
}
