package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/trafficsignal"
	"github.com/anggasct/trafficsignal/pkg/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "signal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
initial: yellow
durations:
  red: 5s
  yellow: 1500ms
  green: 4s
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	initial, err := cfg.InitialState()
	require.NoError(t, err)
	assert.Equal(t, trafficsignal.Yellow, initial)
	assert.Equal(t, trafficsignal.Durations{
		trafficsignal.Red:    5 * time.Second,
		trafficsignal.Yellow: 1500 * time.Millisecond,
		trafficsignal.Green:  4 * time.Second,
	}, cfg.SignalDurations())
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "durations:\n  yellow: 2s\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	d := cfg.SignalDurations()
	assert.Equal(t, trafficsignal.DefaultRedDuration, d[trafficsignal.Red])
	assert.Equal(t, 2*time.Second, d[trafficsignal.Yellow])
	assert.Equal(t, trafficsignal.DefaultGreenDuration, d[trafficsignal.Green])
}

func TestLoad_ZeroDurationRejected(t *testing.T) {
	path := writeConfig(t, "durations:\n  green: 0s\n")

	_, err := config.Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, trafficsignal.ErrInvalidDuration)
}

func TestLoad_NegativeDurationRejected(t *testing.T) {
	_, err := config.Parse([]byte("durations:\n  red: -1s\n"))
	assert.ErrorIs(t, err, trafficsignal.ErrInvalidDuration)
}

func TestLoad_UnknownInitialState(t *testing.T) {
	_, err := config.Parse([]byte("initial: blue\n"))
	assert.ErrorIs(t, err, trafficsignal.ErrInvalidState)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfig_Override(t *testing.T) {
	cfg := config.Default()
	cfg.Override(trafficsignal.Durations{trafficsignal.Red: 10 * time.Second})

	assert.Equal(t, 10*time.Second, cfg.Durations.Red)
	assert.Equal(t, trafficsignal.DefaultYellowDuration, cfg.Durations.Yellow)
}

func TestConfig_Options(t *testing.T) {
	cfg, err := config.Parse([]byte("initial: green\ndurations:\n  green: 2s\n"))
	require.NoError(t, err)

	opts, err := cfg.Options()
	require.NoError(t, err)

	cycle, err := trafficsignal.NewSignalCycle(trafficsignal.NewManualTimer(), opts...)
	require.NoError(t, err)
	assert.Equal(t, trafficsignal.Green, cycle.CurrentState())
	assert.Equal(t, 2*time.Second, cycle.Duration(trafficsignal.Green))
}
