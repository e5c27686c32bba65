// Package observers provides observers for monitoring a signal cycle
package observers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/anggasct/trafficsignal"
)

// LoggingObserver logs signal cycle events through slog
type LoggingObserver struct {
	logger      *slog.Logger
	changeLevel slog.Level
	mutex       sync.RWMutex
}

// NewLoggingObserver creates a new logging observer. State changes are logged
// at changeLevel; starts and stops at Info; observer failures at Error.
func NewLoggingObserver(logger *slog.Logger, changeLevel slog.Level) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{
		logger:      logger,
		changeLevel: changeLevel,
	}
}

// NewDefaultLoggingObserver creates a logging observer on slog.Default() at Info level
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(nil, slog.LevelInfo)
}

// SetChangeLevel sets the level used for state changes
func (o *LoggingObserver) SetChangeLevel(level slog.Level) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.changeLevel = level
}

// OnChange logs the new state
func (o *LoggingObserver) OnChange(newState trafficsignal.SignalState) {
	o.mutex.RLock()
	level := o.changeLevel
	o.mutex.RUnlock()

	o.logger.Log(context.Background(), level, "signal changed", "state", newState.String())
}

// OnStarted logs the cycle start
func (o *LoggingObserver) OnStarted(state trafficsignal.SignalState) {
	o.logger.Info("signal cycle started", "state", state.String())
}

// OnStopped logs the cycle stop
func (o *LoggingObserver) OnStopped(state trafficsignal.SignalState) {
	o.logger.Info("signal cycle stopped", "state", state.String())
}

// OnError logs observer failures
func (o *LoggingObserver) OnError(err error) {
	o.logger.Error("signal observer error", "error", err)
}
