// Package eventloop provides a single-goroutine host loop that delivers
// SignalCycle timer callbacks against the real clock.
package eventloop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/anggasct/trafficsignal"
)

// Loop runs posted callbacks one at a time on the goroutine that calls Run.
// It implements trafficsignal.TimerFacility.
type Loop struct {
	mutex   sync.Mutex
	queue   []func()
	wake    chan struct{}
	nextID  uint64
	timers  map[trafficsignal.TimerHandle]*time.Timer
	logger  *slog.Logger
	running bool
}

// Option configures a Loop
type Option func(*Loop)

// WithLogger sets the logger used to report panicking callbacks
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// New creates a new loop. Nothing runs until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		queue:  make([]func(), 0),
		wake:   make(chan struct{}, 1),
		timers: make(map[trafficsignal.TimerHandle]*time.Timer),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ trafficsignal.TimerFacility = (*Loop)(nil)

// Run executes posted callbacks until ctx is done. Outstanding timers are
// stopped before it returns.
func (l *Loop) Run(ctx context.Context) error {
	l.mutex.Lock()
	if l.running {
		l.mutex.Unlock()
		return fmt.Errorf("event loop is already running")
	}
	l.running = true
	l.mutex.Unlock()

	defer l.shutdown()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.wake:
		}
		for _, fn := range l.drain() {
			if ctx.Err() != nil {
				return nil
			}
			l.safeRun(fn)
		}
	}
}

// Post enqueues fn to run on the loop goroutine. It never blocks.
func (l *Loop) Post(fn func()) {
	l.mutex.Lock()
	l.queue = append(l.queue, fn)
	l.mutex.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// ScheduleOnce implements trafficsignal.TimerFacility
func (l *Loop) ScheduleOnce(delay time.Duration, callback func()) trafficsignal.TimerHandle {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.nextID++
	handle := trafficsignal.TimerHandle(l.nextID)
	l.timers[handle] = time.AfterFunc(delay, func() {
		l.Post(func() { l.deliver(handle, callback) })
	})
	return handle
}

// Cancel implements trafficsignal.TimerFacility. A callback whose timer has
// already expired but has not yet run on the loop is dropped.
func (l *Loop) Cancel(handle trafficsignal.TimerHandle) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if t, ok := l.timers[handle]; ok {
		t.Stop()
		delete(l.timers, handle)
	}
}

// Pending returns the number of armed timers
func (l *Loop) Pending() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.timers)
}

func (l *Loop) deliver(handle trafficsignal.TimerHandle, callback func()) {
	l.mutex.Lock()
	_, armed := l.timers[handle]
	delete(l.timers, handle)
	l.mutex.Unlock()

	if armed {
		callback()
	}
}

func (l *Loop) drain() []func() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	batch := l.queue
	l.queue = make([]func(), 0, len(batch))
	return batch
}

func (l *Loop) safeRun(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", "error", fmt.Sprint(r))
		}
	}()
	fn()
}

func (l *Loop) shutdown() {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	for handle, t := range l.timers {
		t.Stop()
		delete(l.timers, handle)
	}
	l.queue = l.queue[:0]
	l.running = false
}
