package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/frametick/frametick-go/cmd/frametick-run/runner"
	"github.com/frametick/frametick-go/pkg/frameloop"
	"github.com/frametick/frametick-go/pkg/log"
	"github.com/frametick/frametick-go/pkg/scenario"
	"github.com/frametick/frametick-go/pkg/version"
)

type runConfig struct {
	Simulate      bool
	Step          time.Duration
	Limit         time.Duration
	MaxDelta      time.Duration
	TraceFile     string
	TraceProgress bool
	NoBars        bool
	LogLevel      string
}

var runCfg runConfig

var runFlags = []cli.Flag{
	cli.BoolFlag{
		Name:        "simulate, s",
		Usage:       "step scenario time as fast as possible",
		Destination: &runCfg.Simulate,
	},
	cli.DurationFlag{
		Name:        "step",
		Usage:       "simulated frame delta (default: the scenario's frame interval)",
		Destination: &runCfg.Step,
	},
	cli.DurationFlag{
		Name:        "limit, l",
		Usage:       "stop after this much scenario time (default: none in real time, 1h simulated)",
		Destination: &runCfg.Limit,
	},
	cli.DurationFlag{
		Name:        "max-delta",
		Usage:       "largest real-time frame delta",
		Value:       frameloop.DefaultMaxDelta,
		Destination: &runCfg.MaxDelta,
	},
	cli.StringFlag{
		Name:        "trace, t",
		Usage:       "write a CBOR trace to this file",
		Destination: &runCfg.TraceFile,
	},
	cli.BoolFlag{
		Name:        "trace-progress",
		Usage:       "include per-frame progress events in the trace",
		Destination: &runCfg.TraceProgress,
	},
	cli.BoolFlag{
		Name:        "no-bars",
		Usage:       "do not draw progress bars",
		Destination: &runCfg.NoBars,
	},
	cli.StringFlag{
		Name:        "log-level",
		Usage:       "log level: debug, info, warn, error",
		Value:       "warn",
		Destination: &runCfg.LogLevel,
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "frametick-run",
		HelpName:  "frametick-run",
		Usage:     "Play frame-driven timer scenarios.",
		UsageText: "frametick-run <command> [arguments...]",
		Version:   fmt.Sprintf("%s (scenario format %s)", appVersion, version.Current),
		Commands: []cli.Command{
			{
				Name:      "run",
				Aliases:   []string{"r"},
				Usage:     "play a scenario file",
				ArgsUsage: "<scenario.yaml>",
				Action:    run,
				Flags:     runFlags,
			},
			{
				Name:      "validate",
				Aliases:   []string{"v"},
				Usage:     "check a scenario file and print its contents",
				ArgsUsage: "<scenario.yaml>",
				Action:    validate,
			},
		},
	}
}

func loadScenario(ctx *cli.Context) (*scenario.Scenario, error) {
	path := ctx.Args().First()
	if path == "" {
		return nil, errors.New("scenario file required")
	}
	return scenario.Load(afero.NewOsFs(), path)
}

func validate(ctx *cli.Context) error {
	sc, err := loadScenario(ctx)
	if err != nil {
		return err
	}
	runner.Describe(os.Stdout, sc)
	return nil
}

func run(ctx *cli.Context) error {
	sc, err := loadScenario(ctx)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(runCfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opts := runner.Options{
		Simulate:      runCfg.Simulate,
		Step:          runCfg.Step,
		Limit:         runCfg.Limit,
		MaxDelta:      runCfg.MaxDelta,
		TraceProgress: runCfg.TraceProgress,
		Logger:        logger,
	}
	if !runCfg.NoBars {
		opts.Bars = os.Stdout
	}
	if runCfg.TraceFile != "" {
		trace, err := log.NewFileLogger(runCfg.TraceFile)
		if err != nil {
			return fmt.Errorf("open trace file: %w", err)
		}
		defer func() {
			logger.Debug("trace closed", "events", trace.Written())
			trace.Close()
		}()
		opts.Trace = trace
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := runner.Run(runCtx, sc, opts)
	if res != nil {
		runner.PrintResult(os.Stdout, res)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
