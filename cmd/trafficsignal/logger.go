package main

import (
	"io"
	"log/slog"
	"os"
)

var logLevel = new(slog.LevelVar)

var logOutput io.Writer = os.Stderr

func newLogger(debug bool) *slog.Logger {
	if debug {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelInfo)
	}
	opts := slog.HandlerOptions{
		Level: logLevel,
	}
	logger := slog.New(slog.NewJSONHandler(logOutput, &opts))
	slog.SetDefault(logger)
	return logger
}
