package eventloop_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anggasct/trafficsignal"
	"github.com/anggasct/trafficsignal/pkg/eventloop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*eventloop.Loop, context.CancelFunc, <-chan error) {
	t.Helper()
	loop := eventloop.New()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()
	t.Cleanup(cancel)
	return loop, cancel, done
}

func TestLoop_Post(t *testing.T) {
	loop, _, _ := startLoop(t)
	ran := make(chan struct{})

	loop.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("posted callback did not run")
	}
}

func TestLoop_ScheduleOnce(t *testing.T) {
	loop, _, _ := startLoop(t)
	fired := make(chan time.Time, 1)
	start := time.Now()

	handle := loop.ScheduleOnce(20*time.Millisecond, func() { fired <- time.Now() })
	assert.NotZero(t, handle)
	assert.Equal(t, 1, loop.Pending())

	select {
	case at := <-fired:
		assert.GreaterOrEqual(t, at.Sub(start), 20*time.Millisecond)
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.Equal(t, 0, loop.Pending())
}

func TestLoop_CancelledTimerNeverDelivered(t *testing.T) {
	loop, _, _ := startLoop(t)
	var fired atomic.Int32

	handle := loop.ScheduleOnce(10*time.Millisecond, func() { fired.Add(1) })
	loop.Cancel(handle)
	loop.Cancel(handle)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
	assert.Equal(t, 0, loop.Pending())
}

func TestLoop_CancelAfterExpiryBeforeDelivery(t *testing.T) {
	loop, _, _ := startLoop(t)
	var fired atomic.Int32
	release := make(chan struct{})

	// Block the loop so the expired timer's delivery queues up behind it.
	loop.Post(func() { <-release })
	handle := loop.ScheduleOnce(time.Millisecond, func() { fired.Add(1) })
	time.Sleep(20 * time.Millisecond)
	loop.Cancel(handle)
	close(release)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestLoop_CallbacksAreSerialised(t *testing.T) {
	loop, _, _ := startLoop(t)
	var active, overlaps, total atomic.Int32
	const n = 50

	for i := 0; i < n; i++ {
		loop.ScheduleOnce(time.Millisecond, func() {
			if active.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(100 * time.Microsecond)
			active.Add(-1)
			total.Add(1)
		})
	}

	require.Eventually(t, func() bool { return total.Load() == n }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), overlaps.Load())
}

func TestLoop_PanicDoesNotStopLoop(t *testing.T) {
	loop, _, _ := startLoop(t)
	ran := make(chan struct{})

	loop.Post(func() { panic("bad callback") })
	loop.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("loop stopped after panic")
	}
}

func TestLoop_RunStopsOnCancel(t *testing.T) {
	loop, cancel, done := startLoop(t)
	loop.ScheduleOnce(time.Hour, func() {})

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, loop.Pending())
}

func TestLoop_DrivesSignalCycle(t *testing.T) {
	loop, _, _ := startLoop(t)
	changes := make(chan trafficsignal.SignalState, 8)

	cycle, err := trafficsignal.NewSignalCycle(loop,
		trafficsignal.WithDurations(trafficsignal.Durations{
			trafficsignal.Red:    10 * time.Millisecond,
			trafficsignal.Yellow: 5 * time.Millisecond,
			trafficsignal.Green:  10 * time.Millisecond,
		}),
		trafficsignal.WithObserver(trafficsignal.ObserverFunc(func(s trafficsignal.SignalState) {
			changes <- s
		})),
	)
	require.NoError(t, err)

	loop.Post(cycle.Start)

	var got []trafficsignal.SignalState
	for len(got) < 3 {
		select {
		case s := <-changes:
			got = append(got, s)
		case <-time.After(time.Second):
			t.Fatalf("cycle stalled after %v", got)
		}
	}
	loop.Post(cycle.Stop)

	assert.Equal(t, []trafficsignal.SignalState{
		trafficsignal.Yellow,
		trafficsignal.Green,
		trafficsignal.Red,
	}, got)
}
