// Package runner plays scenario files against a frame loop, either in real
// time or as a fast simulation.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/frametick/frametick-go/pkg/frameloop"
	"github.com/frametick/frametick-go/pkg/log"
	"github.com/frametick/frametick-go/pkg/scenario"
	"github.com/frametick/frametick-go/pkg/timer"
)

// DefaultSimulateLimit bounds a simulation that has no explicit limit.
const DefaultSimulateLimit = time.Hour

// ErrLimit is returned when the time limit passes before the scenario is done.
var ErrLimit = errors.New("time limit reached before scenario finished")

// Options configures a run.
type Options struct {
	// Simulate steps scenario time as fast as possible instead of following
	// the wall clock.
	Simulate bool

	// Step is the simulated frame delta. Defaults to the scenario's frame
	// interval. Ignored in real-time mode.
	Step time.Duration

	// Limit stops the run once this much scenario time has passed.
	// Zero means no limit in real time and DefaultSimulateLimit when
	// simulating.
	Limit time.Duration

	// MaxDelta caps a single real-time frame delta.
	MaxDelta time.Duration

	// Clock replaces the wall clock in real-time mode.
	Clock frameloop.Clock

	// Trace receives scheduler trace events. If nil, tracing is disabled.
	Trace log.Logger

	// TraceProgress adds per-frame progress events to the trace.
	TraceProgress bool

	// Bars renders one progress bar per timer to this writer.
	// If nil, no bars are drawn.
	Bars io.Writer

	// Logger is the optional logger for debug output.
	Logger *slog.Logger
}

// TimerResult is the final state of one scenario timer.
type TimerResult struct {
	Name        string
	State       timer.State
	Elapsed     time.Duration
	Duration    time.Duration
	Loop        bool
	Completions int
}

// Result summarizes a run.
type Result struct {
	Scenario string
	Frames   uint64
	SimTime  time.Duration
	Finished bool
	Timers   []TimerResult
}

// Run builds sc on a fresh scheduler and plays it until every non-loop timer
// is finished, the limit passes or ctx is done.
//
// The returned Result is valid even when err is non-nil.
func Run(ctx context.Context, sc *scenario.Scenario, opts Options) (*Result, error) {
	sched := timer.NewScheduler(timer.SchedulerConfig{
		Logger:        opts.Logger,
		Trace:         opts.Trace,
		TraceProgress: opts.TraceProgress,
	})
	in, err := sc.Build(sched, scenario.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}

	timers := in.Timers()
	completions := make([]int, len(timers))
	for i, t := range timers {
		t.Completed().Subscribe(func() { completions[i]++ })
	}

	var bars *Bars
	if opts.Bars != nil {
		bars = NewBars(opts.Bars)
		for _, t := range timers {
			bars.Attach(t)
		}
	}

	var driver *frameloop.Driver
	if opts.Simulate {
		driver, err = simulate(ctx, in, opts)
	} else {
		driver, err = realtime(ctx, in, opts)
	}

	if bars != nil {
		bars.Close()
	}

	res := &Result{
		Scenario: sc.Name,
		Frames:   driver.Frames(),
		SimTime:  driver.SimTime(),
		Finished: in.Done(),
		Timers:   make([]TimerResult, len(timers)),
	}
	for i, t := range timers {
		res.Timers[i] = TimerResult{
			Name:        t.Name(),
			State:       t.State(),
			Elapsed:     t.Elapsed(),
			Duration:    t.Duration(),
			Loop:        t.Loop(),
			Completions: completions[i],
		}
	}
	return res, err
}

func simulate(ctx context.Context, in *scenario.Instance, opts Options) (*frameloop.Driver, error) {
	step := opts.Step
	if step <= 0 {
		step = in.Scenario().Interval()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSimulateLimit
	}

	driver := frameloop.New(in, frameloop.Config{
		Interval: step,
		Logger:   opts.Logger,
	})
	for !in.Done() {
		if err := ctx.Err(); err != nil {
			return driver, err
		}
		remaining := limit - driver.SimTime()
		if remaining <= 0 {
			return driver, ErrLimit
		}
		if err := driver.Step(min(step, remaining)); err != nil {
			return driver, err
		}
	}
	return driver, nil
}

func realtime(ctx context.Context, in *scenario.Instance, opts Options) (*frameloop.Driver, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		driver  *frameloop.Driver
		limited bool
	)
	driver = frameloop.New(in, frameloop.Config{
		Interval: in.Scenario().Interval(),
		MaxDelta: opts.MaxDelta,
		Clock:    opts.Clock,
		Logger:   opts.Logger,
		OnFrame: func(time.Duration) {
			switch {
			case in.Done():
				cancel()
			case opts.Limit > 0 && driver.SimTime() >= opts.Limit:
				limited = true
				cancel()
			}
		},
	})

	if err := driver.Run(ctx); err != nil {
		return driver, err
	}
	switch {
	case in.Done():
		return driver, nil
	case limited:
		return driver, ErrLimit
	default:
		return driver, context.Cause(ctx)
	}
}

// PrintResult writes a one-line-per-timer summary of res.
func PrintResult(w io.Writer, res *Result) {
	status := "finished"
	if !res.Finished {
		status = "unfinished"
	}
	fmt.Fprintf(w, "%s: %s after %s (%d frames)\n", res.Scenario, status, res.SimTime, res.Frames)
	for _, t := range res.Timers {
		kind := "once"
		if t.Loop {
			kind = "loop"
		}
		fmt.Fprintf(w, "  %-16s %-9s %s / %s  %s, completed %d\n",
			t.Name, t.State, t.Elapsed, t.Duration, kind, t.Completions)
	}
}

// Describe writes a summary of a validated scenario.
func Describe(w io.Writer, sc *scenario.Scenario) {
	name := sc.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Fprintf(w, "%s: %d timers, %d actions, frame interval %s\n",
		name, len(sc.Timers), len(sc.Actions), sc.Interval())
	if sc.Description != "" {
		fmt.Fprintf(w, "  %s\n", sc.Description)
	}
	for _, ts := range sc.Timers {
		var flags []string
		if ts.Loop {
			flags = append(flags, "loop")
		}
		if ts.Autostart {
			flags = append(flags, "autostart")
		}
		fmt.Fprintf(w, "  timer %-16s %s %v\n", ts.Name, ts.Duration, flags)
	}
	for _, a := range sc.Actions {
		fmt.Fprintf(w, "  at %-8s %-12s %s\n", a.At, a.Op, a.Timer)
	}
}
