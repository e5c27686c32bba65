package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/trafficsignal"
)

// DOTGenerator generates Graphviz DOT format representations of a signal cycle
type DOTGenerator struct {
	durations trafficsignal.Durations
	initial   trafficsignal.SignalState
	options   DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowDurations bool
	UseLampColors bool
	RankDirection string // "TB", "LR", "BT", "RL"
	NodeShape     string
	EdgeStyle     string
	InitialState  trafficsignal.SignalState
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowDurations: true,
		UseLampColors: true,
		RankDirection: "LR",
		NodeShape:     "circle",
		EdgeStyle:     "solid",
		InitialState:  trafficsignal.Red,
	}
}

// NewDOTGenerator creates a new DOT generator for the given durations
func NewDOTGenerator(durations trafficsignal.Durations, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		durations: durations.Clone(),
		initial:   opts.InitialState,
		options:   opts,
	}
}

// Generate creates a DOT representation of the signal cycle
func (g *DOTGenerator) Generate() (string, error) {
	if err := g.durations.Validate(); err != nil {
		return "", fmt.Errorf("failed to generate DOT: %w", err)
	}

	var dot strings.Builder

	// DOT header
	dot.WriteString("digraph SignalCycle {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s style=filled];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateStates(&dot)
	g.generateTransitions(&dot)

	// DOT footer
	dot.WriteString("}\n")

	return dot.String(), nil
}

// generateStates generates DOT nodes for all states
func (g *DOTGenerator) generateStates(dot *strings.Builder) {
	dot.WriteString("  // States\n")

	if g.initial.Valid() {
		dot.WriteString("  \"__start\" [shape=point label=\"\"];\n")
	}

	for _, state := range trafficsignal.States() {
		fillColor, fontColor := "lightblue", "black"
		if g.options.UseLampColors {
			fillColor = hexColor(state.LampColor())
			fontColor = contrastColor(state.LampColor())
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" [fillcolor=\"%s\" fontcolor=\"%s\" color=\"%s\" label=\"%s\"];\n",
			state, fillColor, fontColor, hexColor(trafficsignal.Housing), state))
	}
}

// generateTransitions generates DOT edges for the three cycle edges
func (g *DOTGenerator) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")

	if g.initial.Valid() {
		dot.WriteString(fmt.Sprintf("  \"__start\" -> \"%s\";\n", g.initial))
	}

	for _, from := range trafficsignal.States() {
		to := from.Successor()
		attrs := fmt.Sprintf("style=%s", g.options.EdgeStyle)
		if g.options.ShowDurations {
			attrs += fmt.Sprintf(" label=\"after %s\"", g.durations[from])
		}
		dot.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [%s];\n", from, to, attrs))
	}
}

func hexColor(c trafficsignal.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// contrastColor picks black text on bright lamps and white text on dark ones
func contrastColor(c trafficsignal.RGB) string {
	luma := 299*int(c.R) + 587*int(c.G) + 114*int(c.B)
	if luma > 128*1000 {
		return "black"
	}
	return "white"
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// GenerateSVG converts the DOT output to SVG by calling Graphviz
func (g *DOTGenerator) GenerateSVG() (string, error) {
	dotContent, err := g.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
