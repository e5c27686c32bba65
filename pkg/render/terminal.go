// Package render draws the signal housing and its three lamps on a terminal.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/anggasct/trafficsignal"
)

const (
	housingTop    = ".-----."
	housingBottom = "'-----'"
	frameLines    = 5
)

var lampLetters = map[trafficsignal.SignalState]string{
	trafficsignal.Red:    "R",
	trafficsignal.Yellow: "Y",
	trafficsignal.Green:  "G",
}

// Terminal is an Observer that redraws the signal on every change.
// It reads only the state it is notified with.
type Terminal struct {
	out     io.Writer
	inPlace bool
	drawn   bool
	housing *color.Color
	off     *color.Color
	lit     map[trafficsignal.SignalState]*color.Color
	mutex   sync.Mutex
}

// Option configures a Terminal
type Option func(*Terminal)

// WithColor forces colour output on or off
func WithColor(enabled bool) Option {
	return func(t *Terminal) {
		for _, c := range t.colors() {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// WithInPlace forces overwriting the previous frame on or off
func WithInPlace(enabled bool) Option {
	return func(t *Terminal) {
		t.inPlace = enabled
	}
}

// NewTerminal creates a renderer writing to out. Colour and in-place redraw
// are enabled when out is a terminal.
func NewTerminal(out io.Writer, opts ...Option) *Terminal {
	tty := isTerminal(out)
	t := &Terminal{
		out:     out,
		inPlace: tty,
		housing: color.New(color.FgHiBlack),
		off:     color.New(color.FgHiBlack),
		lit: map[trafficsignal.SignalState]*color.Color{
			trafficsignal.Red:    color.New(color.FgHiRed, color.Bold),
			trafficsignal.Yellow: color.New(color.FgHiYellow, color.Bold),
			trafficsignal.Green:  color.New(color.FgHiGreen, color.Bold),
		},
	}
	WithColor(tty)(t)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (t *Terminal) colors() []*color.Color {
	return []*color.Color{
		t.housing,
		t.off,
		t.lit[trafficsignal.Red],
		t.lit[trafficsignal.Yellow],
		t.lit[trafficsignal.Green],
	}
}

// Frame returns the uncoloured drawing of the signal showing state
func Frame(state trafficsignal.SignalState) string {
	var b strings.Builder
	for _, line := range frame(state, nil) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// frame builds the housing lines; a nil t yields plain text
func frame(state trafficsignal.SignalState, t *Terminal) []string {
	paint := func(c *color.Color, s string) string {
		if t == nil {
			return s
		}
		return c.Sprint(s)
	}
	var housing, off *color.Color
	if t != nil {
		housing, off = t.housing, t.off
	}

	lines := make([]string, 0, frameLines)
	lines = append(lines, paint(housing, housingTop))
	for _, lamp := range trafficsignal.States() {
		var bulb string
		if lamp.Position() == state.Position() {
			var lit *color.Color
			if t != nil {
				lit = t.lit[lamp]
			}
			bulb = paint(lit, "("+lampLetters[lamp]+")")
		} else {
			bulb = paint(off, "( )")
		}
		lines = append(lines, paint(housing, "| ")+bulb+paint(housing, " |"))
	}
	lines = append(lines, paint(housing, housingBottom))
	return lines
}

// Render draws state, replacing the previous frame when drawing in place
func (t *Terminal) Render(state trafficsignal.SignalState) error {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var b strings.Builder
	if t.inPlace && t.drawn {
		fmt.Fprintf(&b, "\033[%dA", frameLines)
	}
	for _, line := range frame(state, t) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return fmt.Errorf("render signal: %w", err)
	}
	t.drawn = true
	return nil
}

// OnChange implements trafficsignal.Observer. Write errors are dropped; a
// broken terminal must not stop the cycle.
func (t *Terminal) OnChange(newState trafficsignal.SignalState) {
	_ = t.Render(newState)
}

// OnStarted draws the state the cycle starts in
func (t *Terminal) OnStarted(state trafficsignal.SignalState) {
	_ = t.Render(state)
}

// OnStopped implements trafficsignal.ExtendedObserver
func (t *Terminal) OnStopped(state trafficsignal.SignalState) {}

// OnError implements trafficsignal.ExtendedObserver
func (t *Terminal) OnError(err error) {}
