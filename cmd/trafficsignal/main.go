package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/anggasct/trafficsignal"
	"github.com/anggasct/trafficsignal/pkg/config"
	"github.com/anggasct/trafficsignal/pkg/eventloop"
	"github.com/anggasct/trafficsignal/pkg/observers"
	"github.com/anggasct/trafficsignal/pkg/render"
	"github.com/anggasct/trafficsignal/visualization"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("trafficsignal"),
		kong.Description("A simulated traffic signal cycling red, yellow and green."),
		kong.Vars{"version": Version},
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := newLogger(cli.Debug)

	cfg, err := loadConfig(&cli)
	if err != nil {
		return err
	}

	switch kctx.Command() {
	case "run":
		return runSignal(ctx, cfg, cli.Run.Cycles, out, logger)
	case "dot":
		return writeDOT(cfg, cli.Dot.Output, out)
	default:
		return fmt.Errorf("unknown command %q", kctx.Command())
	}
}

func loadConfig(cli *CLI) (*config.Config, error) {
	cfg := config.Default()
	if cli.Config != "" {
		loaded, err := config.Load(cli.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.Override(trafficsignal.Durations{
		trafficsignal.Red:    cli.Red,
		trafficsignal.Yellow: cli.Yellow,
		trafficsignal.Green:  cli.Green,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSignal(ctx context.Context, cfg *config.Config, cycles int, out io.Writer, logger *slog.Logger) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop := eventloop.New(eventloop.WithLogger(logger))
	metrics := observers.NewMetricsObserver()
	validator := observers.NewValidationObserver()
	observer := trafficsignal.NewMultiObserver(
		render.NewTerminal(out),
		observers.NewLoggingObserver(logger, slog.LevelDebug),
		metrics,
		validator,
	)
	if cycles > 0 {
		seen := 0
		observer.Add(trafficsignal.ObserverFunc(func(trafficsignal.SignalState) {
			seen++
			if seen >= cycles {
				cancel()
			}
		}))
	}

	opts = append(opts, trafficsignal.WithObserver(observer), trafficsignal.WithLogger(logger))
	cycle, err := trafficsignal.NewSignalCycle(loop, opts...)
	if err != nil {
		return err
	}

	loop.Post(cycle.Start)
	if err := loop.Run(ctx); err != nil {
		return err
	}
	cycle.Stop()

	logger.Info("signal cycle finished",
		"cycle_id", cycle.ID(),
		"state", cycle.CurrentState().String(),
		"transitions", cycle.Transitions(),
		"metrics", metrics.Snapshot(),
	)
	if !validator.IsValid() {
		return fmt.Errorf("signal cycle order violated: %v", validator.GetViolations())
	}
	return nil
}

func writeDOT(cfg *config.Config, output string, out io.Writer) error {
	opts := visualization.DefaultDOTOptions()
	initial, err := cfg.InitialState()
	if err != nil {
		return err
	}
	opts.InitialState = initial

	generator := visualization.NewDOTGenerator(cfg.SignalDurations(), opts)
	if output != "" {
		return generator.GenerateToFile(output)
	}
	dot, err := generator.Generate()
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, dot)
	return err
}
