package trafficsignal

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SignalCycle owns the current light state and drives its timed advancement.
//
// All transitions are expected to run on the host's single event-loop
// goroutine. The mutex only makes Start and Stop safe to call from elsewhere;
// it is never held while the observer runs, so observers may call back into
// the cycle.
type SignalCycle struct {
	id          string
	current     SignalState
	durations   Durations
	running     bool
	handle      TimerHandle
	generation  uint64
	transitions uint64

	timer    TimerFacility
	observer Observer
	logger   *slog.Logger

	mutex sync.Mutex
}

// Option configures a SignalCycle at construction
type Option func(*cycleOptions)

type cycleOptions struct {
	durations Durations
	initial   SignalState
	observer  Observer
	logger    *slog.Logger
}

// WithDurations overrides the default per-state durations
func WithDurations(durations Durations) Option {
	return func(o *cycleOptions) {
		o.durations = durations
	}
}

// WithInitialState sets the state the cycle starts in. The default is Red.
func WithInitialState(state SignalState) Option {
	return func(o *cycleOptions) {
		o.initial = state
	}
}

// WithObserver registers the observer notified on every change
func WithObserver(observer Observer) Option {
	return func(o *cycleOptions) {
		o.observer = observer
	}
}

// WithLogger sets the logger; slog.Default() is used otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(o *cycleOptions) {
		o.logger = logger
	}
}

// NewSignalCycle creates a stopped cycle in its initial state.
// It fails with a DurationError if any duration is missing or not positive.
func NewSignalCycle(timer TimerFacility, opts ...Option) (*SignalCycle, error) {
	if timer == nil {
		return nil, NewConfigurationError("SignalCycle", "timer facility is required")
	}

	options := cycleOptions{
		durations: DefaultDurations(),
		initial:   Red,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if err := options.durations.Validate(); err != nil {
		return nil, err
	}
	if !options.initial.Valid() {
		return nil, NewInvalidStateError(options.initial.String(), "initial state is not a signal state")
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	id := uuid.New().String()
	return &SignalCycle{
		id:        id,
		current:   options.initial,
		durations: options.durations.Clone(),
		timer:     timer,
		observer:  options.observer,
		logger:    logger.With("cycle_id", id),
	}, nil
}

// ID returns the unique identifier of this cycle
func (c *SignalCycle) ID() string {
	return c.id
}

// Start begins the timed cycle. Calling it while already running has no effect.
func (c *SignalCycle) Start() {
	c.mutex.Lock()
	if c.running {
		c.mutex.Unlock()
		return
	}
	c.running = true
	c.generation++
	state := c.current
	c.schedule(state)
	observer := c.observer
	c.mutex.Unlock()

	c.logger.Debug("signal cycle started", "state", state)
	if extObs, ok := observer.(ExtendedObserver); ok {
		c.notify(observer, "OnStarted", state, func() { extObs.OnStarted(state) })
	}
}

// Stop halts the timer. Calling it while stopped has no effect.
// The current state is kept.
func (c *SignalCycle) Stop() {
	c.mutex.Lock()
	if !c.running {
		c.mutex.Unlock()
		return
	}
	c.running = false
	c.generation++
	if c.handle != 0 {
		c.timer.Cancel(c.handle)
		c.handle = 0
	}
	state := c.current
	observer := c.observer
	c.mutex.Unlock()

	c.logger.Debug("signal cycle stopped", "state", state)
	if extObs, ok := observer.(ExtendedObserver); ok {
		c.notify(observer, "OnStopped", state, func() { extObs.OnStopped(state) })
	}
}

// Advance moves to the next state, notifies the observer and, if the cycle
// is still running, schedules the timer for the new state.
func (c *SignalCycle) Advance() {
	c.mutex.Lock()
	from := c.current
	next := from.Successor()
	c.current = next
	c.transitions++
	c.generation++
	generation := c.generation
	observer := c.observer
	c.mutex.Unlock()

	c.logger.Debug("signal changed", "from", from, "to", next)
	if observer != nil {
		c.notify(observer, "OnChange", next, func() { observer.OnChange(next) })
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	// Start, Stop or Advance from inside the observer bumps the generation
	// and owns the timer from then on.
	if c.running && c.generation == generation {
		if c.handle != 0 {
			c.timer.Cancel(c.handle)
		}
		c.schedule(next)
	}
}

// CurrentState returns the state the light is showing
func (c *SignalCycle) CurrentState() SignalState {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.current
}

// Running reports whether the timed cycle is active
func (c *SignalCycle) Running() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.running
}

// Transitions returns how many times the cycle has advanced
func (c *SignalCycle) Transitions() uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.transitions
}

// Duration returns how long the light stays in state
func (c *SignalCycle) Duration(state SignalState) time.Duration {
	return c.durations[state]
}

// Durations returns a copy of the configured durations
func (c *SignalCycle) Durations() Durations {
	return c.durations.Clone()
}

// OnChange registers fn as the single observer, replacing any previous one.
// A nil fn removes the observer.
func (c *SignalCycle) OnChange(fn func(newState SignalState)) {
	if fn == nil {
		c.SetObserver(nil)
		return
	}
	c.SetObserver(ObserverFunc(fn))
}

// SetObserver registers observer, replacing any previous one
func (c *SignalCycle) SetObserver(observer Observer) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.observer = observer
}

// schedule arms a one-shot timer for the duration of state; the mutex must be held
func (c *SignalCycle) schedule(state SignalState) {
	delay := c.durations[state]
	c.handle = c.timer.ScheduleOnce(delay, c.Advance)
	c.logger.Debug("timer scheduled", "state", state, "delay", delay, "handle", uint64(c.handle))
}

// notify runs one observer hook, recovering from a panic so the cycle keeps running
func (c *SignalCycle) notify(observer Observer, hook string, state SignalState, call func()) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("observer panic in %s: %v", hook, r)
			c.logger.Error("observer failed", "hook", hook, "state", state, "error", err)
			if extObs, ok := observer.(ExtendedObserver); ok {
				func() {
					defer func() { recover() }()
					extObs.OnError(err)
				}()
			}
		}
	}()
	call()
}
