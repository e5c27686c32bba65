package trafficsignal

import (
	"sort"
	"sync"
	"time"
)

// ManualTimer is a deterministic TimerFacility driven by virtual time.
// Nothing fires until Fire or Elapse is called.
type ManualTimer struct {
	mutex     sync.Mutex
	now       time.Duration
	nextID    uint64
	entries   []manualEntry
	scheduled int
	cancelled int
}

type manualEntry struct {
	handle   TimerHandle
	due      time.Duration
	callback func()
}

// NewManualTimer creates a new manual timer at virtual time zero
func NewManualTimer() *ManualTimer {
	return &ManualTimer{
		entries: make([]manualEntry, 0),
	}
}

// ScheduleOnce implements TimerFacility
func (m *ManualTimer) ScheduleOnce(delay time.Duration, callback func()) TimerHandle {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.nextID++
	handle := TimerHandle(m.nextID)
	m.entries = append(m.entries, manualEntry{
		handle:   handle,
		due:      m.now + delay,
		callback: callback,
	})
	m.scheduled++
	return handle
}

// Cancel implements TimerFacility
func (m *ManualTimer) Cancel(handle TimerHandle) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for i, e := range m.entries {
		if e.handle == handle {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			m.cancelled++
			return
		}
	}
}

// Fire runs the earliest pending callback, moving virtual time to its due time.
// It returns false when nothing is pending.
func (m *ManualTimer) Fire() bool {
	m.mutex.Lock()
	entry, ok := m.popDue(-1)
	m.mutex.Unlock()
	if !ok {
		return false
	}
	entry.callback()
	return true
}

// Elapse advances virtual time by d, firing every callback that becomes due,
// including ones scheduled by earlier callbacks. It returns the number fired.
func (m *ManualTimer) Elapse(d time.Duration) int {
	m.mutex.Lock()
	target := m.now + d
	m.mutex.Unlock()

	fired := 0
	for {
		m.mutex.Lock()
		entry, ok := m.popDue(target)
		if !ok {
			m.now = target
			m.mutex.Unlock()
			return fired
		}
		m.mutex.Unlock()
		entry.callback()
		fired++
	}
}

// popDue removes the earliest entry due at or before limit; a negative limit
// means any entry. The mutex must be held.
func (m *ManualTimer) popDue(limit time.Duration) (manualEntry, bool) {
	if len(m.entries) == 0 {
		return manualEntry{}, false
	}
	sort.SliceStable(m.entries, func(i, j int) bool {
		return m.entries[i].due < m.entries[j].due
	})
	entry := m.entries[0]
	if limit >= 0 && entry.due > limit {
		return manualEntry{}, false
	}
	m.entries = m.entries[1:]
	if entry.due > m.now {
		m.now = entry.due
	}
	return entry, true
}

// Now returns the virtual time elapsed since creation
func (m *ManualTimer) Now() time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.now
}

// NextDelay returns how far away the earliest pending callback is
func (m *ManualTimer) NextDelay() (time.Duration, bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if len(m.entries) == 0 {
		return 0, false
	}
	earliest := m.entries[0].due
	for _, e := range m.entries[1:] {
		if e.due < earliest {
			earliest = e.due
		}
	}
	return earliest - m.now, true
}

// Pending returns the number of callbacks waiting to fire
func (m *ManualTimer) Pending() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return len(m.entries)
}

// Scheduled returns how many times ScheduleOnce has been called
func (m *ManualTimer) Scheduled() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.scheduled
}

// Cancelled returns how many pending callbacks were cancelled
func (m *ManualTimer) Cancelled() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.cancelled
}

// RecordingObserver captures every notification for assertions in tests
type RecordingObserver struct {
	mutex   sync.RWMutex
	Changes []SignalState
	Started []SignalState
	Stopped []SignalState
	Errors  []error
}

// NewRecordingObserver creates a new recording observer
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{
		Changes: make([]SignalState, 0),
		Started: make([]SignalState, 0),
		Stopped: make([]SignalState, 0),
		Errors:  make([]error, 0),
	}
}

// Observer interface implementations
func (o *RecordingObserver) OnChange(newState SignalState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = append(o.Changes, newState)
}

func (o *RecordingObserver) OnStarted(state SignalState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Started = append(o.Started, state)
}

func (o *RecordingObserver) OnStopped(state SignalState) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Stopped = append(o.Stopped, state)
}

func (o *RecordingObserver) OnError(err error) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Errors = append(o.Errors, err)
}

// ChangeCount returns the number of recorded changes
func (o *RecordingObserver) ChangeCount() int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return len(o.Changes)
}

// LastChange returns the most recent state, if any
func (o *RecordingObserver) LastChange() (SignalState, bool) {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	if len(o.Changes) == 0 {
		return Red, false
	}
	return o.Changes[len(o.Changes)-1], true
}

// Reset clears all recorded notifications
func (o *RecordingObserver) Reset() {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.Changes = o.Changes[:0]
	o.Started = o.Started[:0]
	o.Stopped = o.Stopped[:0]
	o.Errors = o.Errors[:0]
}
