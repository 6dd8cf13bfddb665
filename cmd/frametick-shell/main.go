// Command frametick-shell is an interactive console for experimenting with
// frame-driven timers.
//
// A frame loop ticks one scheduler in real time while commands typed at the
// prompt create and control timers. Lifecycle events are printed as they
// happen.
//
// Usage:
//
//	frametick-shell [flags]
//
// Flags:
//
//	-interval duration  Frame interval (default 16ms)
//	-max-delta duration Largest delta passed to the scheduler in one frame (default 250ms)
//	-trace string       Write a CBOR trace to this file
//	-trace-progress     Include per-frame progress events in the trace
//	-load string        Create timers from a saved configuration file at startup
//	-log-level string   Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# Start a console at 60 frames per second
//	frametick-shell
//
//	# Trace every lifecycle change for later analysis with frametick-log
//	frametick-shell -trace session.ftlog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chzyer/readline"

	"github.com/frametick/frametick-go/cmd/frametick-shell/interactive"
	"github.com/frametick/frametick-go/pkg/frameloop"
	"github.com/frametick/frametick-go/pkg/log"
	"github.com/frametick/frametick-go/pkg/timer"
)

// Config holds command-line configuration.
type Config struct {
	Interval      time.Duration
	MaxDelta      time.Duration
	TraceFile     string
	TraceProgress bool
	LoadFile      string
	LogLevel      string
}

var config Config

func init() {
	flag.DurationVar(&config.Interval, "interval", 16*time.Millisecond, "Frame interval")
	flag.DurationVar(&config.MaxDelta, "max-delta", frameloop.DefaultMaxDelta, "Largest delta passed to the scheduler in one frame")
	flag.StringVar(&config.TraceFile, "trace", "", "Write a CBOR trace to this file")
	flag.BoolVar(&config.TraceProgress, "trace-progress", false, "Include per-frame progress events in the trace")
	flag.StringVar(&config.LoadFile, "load", "", "Create timers from a saved configuration file at startup")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}

	var traceFile *log.FileLogger
	if config.TraceFile != "" {
		var err error
		traceFile, err = log.NewFileLogger(config.TraceFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open trace file: %v\n", err)
			os.Exit(1)
		}
		defer traceFile.Close()
	}

	rl, err := readline.NewEx(interactive.ReadlineConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create readline: %v\n", err)
		os.Exit(1)
	}

	// Route logs through readline to avoid interfering with input.
	logger := slog.New(slog.NewTextHandler(rl.Stdout(), &slog.HandlerOptions{Level: level}))

	sched := timer.NewScheduler(timer.SchedulerConfig{
		Logger:        logger,
		Trace:         newTrace(traceFile, logger, level),
		TraceProgress: config.TraceProgress,
	})
	driver := frameloop.New(sched, frameloop.Config{
		Interval: config.Interval,
		MaxDelta: config.MaxDelta,
		Logger:   logger,
	})
	shell := interactive.New(rl, interactive.Config{
		Scheduler: sched,
		Loop:      driver,
		Stats:     driver,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := driver.Run(ctx); err != nil {
			logger.Error("frame loop failed", "error", err)
			cancel()
		}
	}()

	if config.LoadFile != "" {
		shell.Execute(ctx, "load "+config.LoadFile)
	}

	go shell.Run(ctx, cancel)

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
		// Context was cancelled by the quit command
	}

	cancel()
	logger.Info("frame loop stopped", "frames", driver.Frames(), "sim_time", driver.SimTime().Round(time.Millisecond))
}

// newTrace combines the trace file with a debug-level slog mirror.
func newTrace(file *log.FileLogger, logger *slog.Logger, level slog.Level) log.Logger {
	var loggers []log.Logger
	if file != nil {
		loggers = append(loggers, file)
	}
	if level <= slog.LevelDebug {
		loggers = append(loggers, log.NewSlogAdapter(logger))
	}
	if len(loggers) == 0 {
		return nil
	}
	return log.NewMultiLogger(loggers...)
}
