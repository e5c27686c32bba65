package observers

import (
	"log/slog"
	"sync"
	"time"

	"github.com/anggasct/trafficsignal"
)

// MetricsObserver collects metrics about signal cycle execution
type MetricsObserver struct {
	stateVisits      map[string]int
	stateTimeSpent   map[string]time.Duration
	transitionCounts map[string]int
	errorCount       int
	starts           int
	stops            int

	current   trafficsignal.SignalState
	known     bool
	enteredAt time.Time
	timing    bool
	now       func() time.Time
	mutex     sync.RWMutex
}

// MetricsOption configures a MetricsObserver
type MetricsOption func(*MetricsObserver)

// WithClock replaces time.Now for time-spent accounting
func WithClock(now func() time.Time) MetricsOption {
	return func(o *MetricsObserver) {
		o.now = now
	}
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver(opts ...MetricsOption) *MetricsObserver {
	o := &MetricsObserver{
		stateVisits:      make(map[string]int),
		stateTimeSpent:   make(map[string]time.Duration),
		transitionCounts: make(map[string]int),
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OnStarted begins timing the state the cycle starts in
func (o *MetricsObserver) OnStarted(state trafficsignal.SignalState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.starts++
	o.current = state
	o.known = true
	o.enteredAt = o.now()
	o.timing = true
}

// OnStopped closes the timing of the current state
func (o *MetricsObserver) OnStopped(state trafficsignal.SignalState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stops++
	o.closeTiming()
	o.current = state
	o.known = true
}

// OnChange records the visit, the edge taken and the time spent in the
// state being left
func (o *MetricsObserver) OnChange(newState trafficsignal.SignalState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	from := o.current
	if !o.known {
		// The cycle order is fixed, so the state left is the predecessor.
		from = newState.Successor().Successor()
	}

	wasTiming := o.timing
	o.closeTiming()

	o.stateVisits[newState.String()]++
	o.transitionCounts[from.String()+"->"+newState.String()]++
	o.current = newState
	o.known = true
	if wasTiming {
		o.enteredAt = o.now()
		o.timing = true
	}
}

// OnError records observer failures
func (o *MetricsObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.errorCount++
}

// closeTiming adds the time since entry to the current state; the mutex must be held
func (o *MetricsObserver) closeTiming() {
	if !o.timing {
		return
	}
	o.stateTimeSpent[o.current.String()] += o.now().Sub(o.enteredAt)
	o.timing = false
}

// GetStateVisitCounts returns the number of times each state was entered
func (o *MetricsObserver) GetStateVisitCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return copyCounts(o.stateVisits)
}

// GetStateTimeSpent returns the time spent in each state
func (o *MetricsObserver) GetStateTimeSpent() map[string]time.Duration {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	result := make(map[string]time.Duration)
	for state, duration := range o.stateTimeSpent {
		result[state] = duration
	}
	return result
}

// GetTransitionCounts returns the number of times each edge was taken
func (o *MetricsObserver) GetTransitionCounts() map[string]int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return copyCounts(o.transitionCounts)
}

// GetErrorCount returns the number of errors
func (o *MetricsObserver) GetErrorCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	return o.errorCount
}

// Snapshot is a point-in-time copy of the collected metrics
type Snapshot struct {
	Visits      map[string]int
	TimeSpent   map[string]time.Duration
	Transitions map[string]int
	Errors      int
	Starts      int
	Stops       int
}

// Snapshot returns a copy of all metrics
func (o *MetricsObserver) Snapshot() Snapshot {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	timeSpent := make(map[string]time.Duration)
	for state, duration := range o.stateTimeSpent {
		timeSpent[state] = duration
	}
	return Snapshot{
		Visits:      copyCounts(o.stateVisits),
		TimeSpent:   timeSpent,
		Transitions: copyCounts(o.transitionCounts),
		Errors:      o.errorCount,
		Starts:      o.starts,
		Stops:       o.stops,
	}
}

// LogValue implements slog.LogValuer
func (s Snapshot) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("starts", s.Starts),
		slog.Int("stops", s.Stops),
		slog.Int("errors", s.Errors),
	}
	for _, state := range trafficsignal.States() {
		name := state.String()
		attrs = append(attrs, slog.Group(name,
			slog.Int("visits", s.Visits[name]),
			slog.Duration("time_spent", s.TimeSpent[name]),
		))
	}
	return slog.GroupValue(attrs...)
}

// Reset resets all metrics
func (o *MetricsObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	o.stateVisits = make(map[string]int)
	o.stateTimeSpent = make(map[string]time.Duration)
	o.transitionCounts = make(map[string]int)
	o.errorCount = 0
	o.starts = 0
	o.stops = 0
	o.known = false
	o.timing = false
}

func copyCounts(m map[string]int) map[string]int {
	result := make(map[string]int)
	for k, v := range m {
		result[k] = v
	}
	return result
}
