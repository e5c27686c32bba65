package trafficsignal

import "fmt"

// Observer is notified whenever the signal changes state
type Observer interface {
	// OnChange is called synchronously from Advance after the state mutation
	OnChange(newState SignalState)
}

// ObserverFunc adapts a plain function to the Observer interface
type ObserverFunc func(newState SignalState)

// OnChange calls f(newState)
func (f ObserverFunc) OnChange(newState SignalState) {
	f(newState)
}

// ExtendedObserver provides additional optional observation methods
type ExtendedObserver interface {
	Observer

	// OnStarted is called when the cycle starts running
	OnStarted(state SignalState)

	// OnStopped is called when the cycle stops running
	OnStopped(state SignalState)

	// OnError is called when an observer panics during notification
	OnError(err error)
}

// BaseObserver provides a default implementation with no-op methods
type BaseObserver struct{}

// OnChange implements the required Observer method
func (o *BaseObserver) OnChange(newState SignalState) {}

// OnStarted implements the optional ExtendedObserver method
func (o *BaseObserver) OnStarted(state SignalState) {}

// OnStopped implements the optional ExtendedObserver method
func (o *BaseObserver) OnStopped(state SignalState) {}

// OnError implements the optional ExtendedObserver method
func (o *BaseObserver) OnError(err error) {}

// MultiObserver fans a single registration out to several observers in order
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates a new fan-out observer
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{
		observers: make([]Observer, 0, len(observers)),
	}
	for _, o := range observers {
		m.Add(o)
	}
	return m
}

// Add appends an observer; nil observers are ignored
func (m *MultiObserver) Add(observer Observer) {
	if observer == nil {
		return
	}
	m.observers = append(m.observers, observer)
}

// Len returns the number of registered observers
func (m *MultiObserver) Len() int {
	return len(m.observers)
}

// OnChange notifies every observer. A panic in one does not prevent the rest
// from being notified.
func (m *MultiObserver) OnChange(newState SignalState) {
	for _, observer := range m.observers {
		if err := safeNotify("OnChange", func() { observer.OnChange(newState) }); err != nil {
			m.OnError(err)
		}
	}
}

// OnStarted forwards to every ExtendedObserver, isolating panics like OnChange
func (m *MultiObserver) OnStarted(state SignalState) {
	for _, observer := range m.observers {
		if extObs, ok := observer.(ExtendedObserver); ok {
			if err := safeNotify("OnStarted", func() { extObs.OnStarted(state) }); err != nil {
				m.OnError(err)
			}
		}
	}
}

// OnStopped forwards to every ExtendedObserver, isolating panics like OnChange
func (m *MultiObserver) OnStopped(state SignalState) {
	for _, observer := range m.observers {
		if extObs, ok := observer.(ExtendedObserver); ok {
			if err := safeNotify("OnStopped", func() { extObs.OnStopped(state) }); err != nil {
				m.OnError(err)
			}
		}
	}
}

// OnError forwards to every ExtendedObserver
func (m *MultiObserver) OnError(err error) {
	for _, observer := range m.observers {
		if extObs, ok := observer.(ExtendedObserver); ok {
			_ = safeNotify("OnError", func() { extObs.OnError(err) })
		}
	}
}

// safeNotify runs fn and converts a panic in the named hook into an error
func safeNotify(hook string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic in %s: %v", hook, r)
		}
	}()
	fn()
	return nil
}
