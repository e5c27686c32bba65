package trafficsignal

import "time"

// TimerHandle identifies a scheduled one-shot timer. The zero value means no timer.
type TimerHandle uint64

// TimerFacility is the host timer the cycle schedules its expiries on.
// Callbacks must be delivered on the host's single event-loop goroutine.
type TimerFacility interface {
	// ScheduleOnce arranges for callback to run once after delay
	ScheduleOnce(delay time.Duration, callback func()) TimerHandle

	// Cancel prevents a scheduled callback from running. Cancelling an
	// already fired or unknown handle is a no-op.
	Cancel(handle TimerHandle)
}
