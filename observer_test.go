package trafficsignal

import (
	"testing"
)

func TestObserver_BasicInterface(t *testing.T) {
	observer := NewRecordingObserver()

	var _ Observer = observer

	var _ ExtendedObserver = observer

	var _ ExtendedObserver = &BaseObserver{}

	var _ ExtendedObserver = NewMultiObserver()
}

func TestObserverFunc(t *testing.T) {
	var got SignalState = -1
	var o Observer = ObserverFunc(func(s SignalState) { got = s })

	o.OnChange(Green)

	if got != Green {
		t.Errorf("Expected green, got %s", got)
	}
}

func TestMultiObserver_FanOut(t *testing.T) {
	first := NewRecordingObserver()
	second := NewRecordingObserver()
	var plainCalls int
	multi := NewMultiObserver(first, nil, ObserverFunc(func(SignalState) { plainCalls++ }), second)

	if multi.Len() != 3 {
		t.Fatalf("Expected nil observer to be skipped, got %d observers", multi.Len())
	}

	multi.OnStarted(Red)
	multi.OnChange(Yellow)
	multi.OnStopped(Yellow)

	for _, o := range []*RecordingObserver{first, second} {
		if o.ChangeCount() != 1 || o.Changes[0] != Yellow {
			t.Errorf("Expected one change to yellow, got %v", o.Changes)
		}
		if len(o.Started) != 1 || len(o.Stopped) != 1 {
			t.Errorf("Expected start and stop to be forwarded, got %v %v", o.Started, o.Stopped)
		}
	}

	if plainCalls != 1 {
		t.Errorf("Expected plain observer to be called once, got %d", plainCalls)
	}
}

func TestMultiObserver_PanicIsolation(t *testing.T) {
	recorder := NewRecordingObserver()
	multi := NewMultiObserver(
		ObserverFunc(func(SignalState) { panic("boom") }),
		recorder,
	)

	multi.OnChange(Green)

	if recorder.ChangeCount() != 1 {
		t.Error("Expected observers after a panicking one to still be notified")
	}

	if len(recorder.Errors) != 1 {
		t.Fatalf("Expected panic to be reported through OnError, got %d errors", len(recorder.Errors))
	}

	if !contains(recorder.Errors[0].Error(), "boom") {
		t.Errorf("Expected error to mention panic value, got %q", recorder.Errors[0])
	}
}

func TestMultiObserver_LifecyclePanicIsolation(t *testing.T) {
	recorder := NewRecordingObserver()
	multi := NewMultiObserver(
		&panickingLifecycleObserver{RecordingObserver: NewRecordingObserver()},
		recorder,
	)

	multi.OnStarted(Red)
	multi.OnStopped(Yellow)

	if len(recorder.Started) != 1 || len(recorder.Stopped) != 1 {
		t.Error("Expected observers after a panicking one to still be notified")
	}

	if len(recorder.Errors) != 2 {
		t.Fatalf("Expected both panics to be reported through OnError, got %d errors", len(recorder.Errors))
	}

	if !contains(recorder.Errors[0].Error(), "OnStarted") || !contains(recorder.Errors[1].Error(), "OnStopped") {
		t.Errorf("Expected errors to name the failing hook, got %v", recorder.Errors)
	}
}

func TestObserver_DrivenByCycle(t *testing.T) {
	timer := NewManualTimer()
	recorder := NewRecordingObserver()
	cycle, err := NewSignalCycle(timer, WithObserver(NewMultiObserver(recorder)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cycle.Start()
	timer.Fire()
	cycle.Stop()

	if len(recorder.Started) != 1 || recorder.Started[0] != Red {
		t.Errorf("Expected start in red, got %v", recorder.Started)
	}
	if len(recorder.Stopped) != 1 || recorder.Stopped[0] != Yellow {
		t.Errorf("Expected stop in yellow, got %v", recorder.Stopped)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
